package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/nicolagi/height"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeDurationFormat(t *testing.T) {
	testCases := []struct {
		d        time.Duration
		expected string
	}{
		{d: 0, expected: "0m"},
		{d: 59 * time.Second, expected: "0m"},
		{d: 25 * time.Minute, expected: "25m"},
		{d: 2*time.Hour + 25*time.Minute, expected: "2h"},
		{d: 24 * time.Hour, expected: "1d"},
		{d: 3*24*time.Hour + 4*time.Hour + 5*time.Minute, expected: "3d4h"},
	}
	for _, tc := range testCases {
		t.Run(tc.d.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, relativeDurationFormat(tc.d))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "one two", truncate("one\n  two", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	// Wide characters take two columns each.
	assert.Equal(t, "日本...", truncate("日本語のテキスト", 8))
}

func TestRows(t *testing.T) {
	l := height.List{Name: "Roadmap", Description: "Where we are going"}
	assert.Equal(t, "Roadmap (active) - Where we are going", listRow(l, false))
	l.ArchivedAt = "2023-06-01T10:00:00.000Z"
	assert.Equal(t, "Roadmap (archived) - Where we are going", listRow(l, true))

	task := height.Task{Index: 7, Name: "Fix login", Completed: true}
	assert.Equal(t, "Fix login T-7 (completed)", taskRow(task, false))

	a := height.Activity{Type: "comment", CreatedAt: "not a date", CreatedUserID: "u1", Message: "Looks\ngood"}
	assert.Equal(t, "comment not a date by u1 - Looks good", activityRow(a, false))
}

func TestPrintEmpty(t *testing.T) {
	var buf bytes.Buffer
	printEmpty(&buf, "lists", noListsReasons...)
	assert.Equal(t, "No lists found. This could mean:\n"+
		"   - No lists exist in your Height workspace\n"+
		"   - The API token doesn't have access to lists\n", buf.String())
}

func TestPrintActivityDetails(t *testing.T) {
	var buf bytes.Buffer
	a := &height.Activity{
		ID:            "a1",
		TaskID:        "t1",
		Type:          "statusChange",
		CreatedAt:     "bogus",
		CreatedUserID: "u2",
		Data:          map[string]interface{}{"to": "done"},
	}
	require.Nil(t, printActivityDetails(&buf, a))
	assert.Contains(t, buf.String(), "Type: statusChange\n")
	assert.Contains(t, buf.String(), "Data:\n{\n  \"to\": \"done\"\n}\n")
	assert.NotContains(t, buf.String(), "Message:")
}
