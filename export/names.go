package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000Z"

	activitiesSuffix = "_activities_incl"
	taskSlugMax      = 30
)

// ListSlug turns a list name into a file name stem: every run of characters other than ASCII letters and digits
// becomes a single underscore, leading and trailing underscores are dropped, and the result is lowercased.
func ListSlug(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range name {
		if isAlnum(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// TaskSlug turns a task name into a short file name stem: characters other than ASCII letters, digits and
// white space are removed, runs of white space become a hyphen, the result is lowercased, cut to 30 characters,
// and stripped of trailing hyphens.
func TaskSlug(name string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
		case isAlnum(r):
			b.WriteRune(unicode.ToLower(r))
			inSpace = false
		}
	}
	slug := b.String()
	if len(slug) > taskSlugMax {
		slug = slug[:taskSlugMax]
	}
	return strings.TrimRight(slug, "-")
}

func isAlnum(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// ListFilename names the export file of a list exported at the given time.
func ListFilename(listName string, withActivities bool, at time.Time) string {
	slug := ListSlug(listName)
	if slug == "" {
		slug = "list"
	}
	if withActivities {
		slug += activitiesSuffix
	}
	return fmt.Sprintf("%s_%s%s", slug, at.UTC().Format(dateLayout), extension)
}

// TaskFilename names the export file of a task exported at the given time, e.g., "fix-login_T-3_2024-01-02.json".
func TaskFilename(taskName string, number string, at time.Time) string {
	slug := TaskSlug(taskName)
	date := at.UTC().Format(dateLayout)
	if slug == "" {
		return fmt.Sprintf("%s_%s%s", number, date, extension)
	}
	return fmt.Sprintf("%s_%s_%s%s", slug, number, date, extension)
}

func timestamp(at time.Time) string {
	return at.UTC().Format(timestampLayout)
}
