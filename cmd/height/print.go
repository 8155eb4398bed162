package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/nicolagi/height"
	"github.com/nicolagi/height/export"
)

const descriptionWidth = 50

var (
	selectedStyle = color.New(color.FgCyan, color.Bold)
	labelStyle    = color.New(color.FgWhite)
	titleStyle    = color.New(color.FgCyan)
	hintStyle     = color.New(color.FgHiBlack)
	warnStyle     = color.New(color.FgYellow)
	goodStyle     = color.New(color.FgGreen)
	badStyle      = color.New(color.FgRed)
	linkStyle     = color.New(color.FgBlue)
)

func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, "...")
}

func highlight(s string, selected bool) string {
	if selected {
		return selectedStyle.Sprint(s)
	}
	return s
}

func date(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Local().Format("2006-01-02")
}

func dateTime(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Local().Format("2006-01-02 15:04")
}

// relativeDurationFormat formats d with at most two units, e.g., 3d4h or 25m.
func relativeDurationFormat(d time.Duration) string {
	var buf bytes.Buffer
	t := d / (24 * time.Hour)
	if t != 0 {
		fmt.Fprintf(&buf, "%dd", t)
	}
	d -= t * 24 * time.Hour
	t = d / time.Hour
	if t != 0 {
		fmt.Fprintf(&buf, "%dh", t)
	}
	d -= t * time.Hour
	if buf.Len() == 0 {
		t = d / time.Minute
		fmt.Fprintf(&buf, "%dm", t)
	}
	return buf.String()
}

func listStatus(l *height.List) string {
	if l.Archived() {
		return hintStyle.Sprint("(archived)")
	}
	return goodStyle.Sprint("(active)")
}

func taskStatus(t *height.Task) string {
	if t.Completed {
		return goodStyle.Sprint("(completed)")
	}
	return warnStyle.Sprint("(active)")
}

func listRow(l height.List, selected bool) string {
	row := highlight(l.Name, selected) + " " + listStatus(&l)
	if l.Description != "" {
		row += hintStyle.Sprint(" - " + truncate(l.Description, descriptionWidth))
	}
	return row
}

func taskRow(t height.Task, selected bool) string {
	row := highlight(t.Name, selected) + " " + hintStyle.Sprint(t.Number()) + " " + taskStatus(&t)
	if t.Description != "" {
		row += hintStyle.Sprint(" - " + truncate(t.Description, descriptionWidth))
	}
	return row
}

func activityRow(a height.Activity, selected bool) string {
	row := highlight(a.Type, selected) + " " + dateTime(a.CreatedAt) + " by " + a.CreatedUserID
	if a.Message != "" {
		row += hintStyle.Sprint(" - " + truncate(a.Message, descriptionWidth))
	}
	return row
}

func field(w io.Writer, label string, value interface{}) {
	_, _ = fmt.Fprintf(w, "%s %v\n", labelStyle.Sprint(label+":"), value)
}

func printListDetails(w io.Writer, l *height.List) {
	_, _ = fmt.Fprintf(w, "%s\n\n", titleStyle.Sprint("List details"))
	field(w, "Name", color.New(color.Bold).Sprint(l.Name))
	field(w, "ID", l.ID)
	field(w, "Type", l.Type)
	field(w, "Created", date(l.CreatedAt))
	field(w, "Updated", date(l.UpdatedAt))
	if l.Archived() {
		field(w, "Status", badStyle.Sprint("Archived"))
	} else {
		field(w, "Status", goodStyle.Sprint("Active"))
	}
	if l.Description != "" {
		field(w, "Description", l.Description)
	}
	field(w, "URL", linkStyle.Sprint(l.URL))
}

func orNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}

func printTaskDetails(w io.Writer, t *height.Task) {
	_, _ = fmt.Fprintf(w, "%s\n\n", titleStyle.Sprint("Task details"))
	field(w, "Name", color.New(color.Bold).Sprint(t.Name))
	field(w, "ID", t.ID)
	field(w, "Task Number", t.Number())
	field(w, "Status", t.Status)
	field(w, "Created", date(t.CreatedAt))
	lastActivity := date(t.LastActivityAt)
	if last := t.LastActivity(); !last.IsZero() {
		lastActivity += hintStyle.Sprintf(" (%s ago)", relativeDurationFormat(time.Since(last)))
	}
	field(w, "Last Activity", lastActivity)
	if t.Completed {
		field(w, "Completed", goodStyle.Sprint("Yes"))
		field(w, "Completed At", date(t.CompletedAt))
	} else {
		field(w, "Completed", badStyle.Sprint("No"))
	}
	if t.Description != "" {
		field(w, "Description", t.Description)
	}
	field(w, "URL", linkStyle.Sprint(t.URL))
	field(w, "Assignees", orNone(t.AssigneesIDs))
	field(w, "Lists", orNone(t.ListIDs))
}

func printActivityDetails(w io.Writer, a *height.Activity) error {
	_, _ = fmt.Fprintf(w, "%s\n\n", titleStyle.Sprint("Activity details"))
	field(w, "ID", a.ID)
	field(w, "Type", color.New(color.Bold).Sprint(a.Type))
	field(w, "Created", dateTime(a.CreatedAt))
	field(w, "User", a.CreatedUserID)
	field(w, "Task ID", a.TaskID)
	if a.Message != "" {
		field(w, "Message", a.Message)
	}
	if len(a.Data) > 0 {
		b, err := json.MarshalIndent(a.Data, "", "  ")
		if err != nil {
			return fmt.Errorf("print activity %s: %w", a.ID, err)
		}
		_, _ = fmt.Fprintf(w, "%s\n%s\n", labelStyle.Sprint("Data:"), hintStyle.Sprint(string(b)))
	}
	return nil
}

// printEmpty explains why a collection might have come back empty.
func printEmpty(w io.Writer, what string, reasons ...string) {
	_, _ = fmt.Fprintf(w, "%s\n", warnStyle.Sprintf("No %s found. This could mean:", what))
	for _, r := range reasons {
		_, _ = fmt.Fprintf(w, "%s\n", hintStyle.Sprint("   - "+r))
	}
}

func printLists(w io.Writer, lists []height.List) {
	for _, l := range lists {
		status := "active"
		if l.Archived() {
			status = "archived"
		}
		_, _ = fmt.Fprintf(w, "%v\t%v\t%v\n", l.ID, status, l.Name)
	}
}

func printTasks(w io.Writer, tasks []height.Task) {
	for _, t := range tasks {
		lastActivity := ""
		if last := t.LastActivity(); !last.IsZero() {
			lastActivity = relativeDurationFormat(time.Since(last))
		}
		_, _ = fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", t.Number(), t.Status, lastActivity, t.Name)
	}
}

func printListExportSummary(w io.Writer, path string, x *export.ListExport, withActivities bool) {
	m := x.Metadata
	_, _ = fmt.Fprintf(w, "%s\n", goodStyle.Sprintf("Exported %d tasks from %q", m.TotalTasks, x.List.Name))
	_, _ = fmt.Fprintf(w, "%s\n", hintStyle.Sprint("Export summary:"))
	_, _ = fmt.Fprintf(w, "%s\n", hintStyle.Sprintf("   List: %s", x.List.Name))
	_, _ = fmt.Fprintf(w, "%s\n", hintStyle.Sprintf("   Tasks: %d (%d completed, %d active)", m.TotalTasks, m.CompletedTasks, m.ActiveTasks))
	if withActivities {
		_, _ = fmt.Fprintf(w, "%s\n", hintStyle.Sprintf("   Activities: %d across %d tasks", m.TotalActivities, m.TasksWithActivities))
		if m.FailedTasks > 0 {
			_, _ = fmt.Fprintf(w, "%s\n", warnStyle.Sprintf("   Could not fetch activities for %d tasks, exported without", m.FailedTasks))
		}
	}
	_, _ = fmt.Fprintf(w, "%s\n", hintStyle.Sprintf("   File: %s", path))
}

func printTaskExportSummary(w io.Writer, path string, x *export.TaskExport, withActivities bool) {
	_, _ = fmt.Fprintf(w, "%s\n", goodStyle.Sprintf("Exported %s %q", x.Metadata.TaskNumber, x.Task.Name))
	_, _ = fmt.Fprintf(w, "%s\n", hintStyle.Sprint("Export summary:"))
	_, _ = fmt.Fprintf(w, "%s\n", hintStyle.Sprintf("   Task: %s", x.Task.Name))
	_, _ = fmt.Fprintf(w, "%s\n", hintStyle.Sprintf("   Task Number: %s", x.Metadata.TaskNumber))
	if withActivities {
		_, _ = fmt.Fprintf(w, "%s\n", hintStyle.Sprintf("   Activities: %d", x.Metadata.TotalActivities))
	}
	_, _ = fmt.Fprintf(w, "%s\n", hintStyle.Sprintf("   File: %s", path))
}

// printListExport describes a list export file read back from disk.
func printListExport(w io.Writer, x *export.ListExport) {
	m := x.Metadata
	field(w, "List", x.List.Name)
	field(w, "Exported", m.ExportedAt)
	field(w, "Export ID", m.ExportID)
	field(w, "Tasks", fmt.Sprintf("%d (%d completed, %d active)", m.TotalTasks, m.CompletedTasks, m.ActiveTasks))
	field(w, "Activities", fmt.Sprintf("%d across %d tasks", m.TotalActivities, m.TasksWithActivities))
	if m.FailedTasks > 0 {
		field(w, "Failed", warnStyle.Sprintf("%d tasks without activities", m.FailedTasks))
	}
}

func printTaskExport(w io.Writer, x *export.TaskExport) {
	field(w, "Task", fmt.Sprintf("%s %s", x.Metadata.TaskNumber, x.Task.Name))
	field(w, "Exported", x.Metadata.ExportedAt)
	field(w, "Export ID", x.Metadata.ExportID)
	field(w, "Activities", x.Metadata.TotalActivities)
}
