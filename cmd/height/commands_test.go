package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/nicolagi/height"
	"github.com/nicolagi/height/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the user's configuration and environment out of the test.
func isolate(t *testing.T) {
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HEIGHT_CONFIG_PATH", t.TempDir())
	for _, name := range []string{"HEIGHT_API_TOKEN", "HEIGHT_TOKEN", "HEIGHT_ENDPOINT", "HEIGHT_EXPORT_DIR", "HEIGHT_LOG_LEVEL"} {
		t.Setenv(name, "")
		require.Nil(t, os.Unsetenv(name))
	}
	t.Setenv("HEIGHT_FETCH_CHUNK_DELAY", "0s")
	t.Setenv("HEIGHT_FETCH_RETRY_DELAY", "0s")
}

func execute(args ...string) (string, error) {
	out, _, err := executeApp(args...)
	return out, err
}

func executeApp(args ...string) (string, *app, error) {
	var out bytes.Buffer
	a := newApp(strings.NewReader(""), &out)
	defer a.close()
	root := newRootCommand(a)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), a, err
}

func TestListsCommand(t *testing.T) {
	isolate(t)
	srv := workspace(t)
	out, err := execute("lists", "--token", "secret", "--endpoint", srv.URL, "--export-dir", t.TempDir())
	require.Nil(t, err)
	assert.Equal(t, "l2\tarchived\tArchive\nl1\tactive\tRoadmap\n", out)
}

func TestListsCommandTokenFromEnvironment(t *testing.T) {
	isolate(t)
	srv := workspace(t)
	t.Setenv("HEIGHT_API_TOKEN", "secret")
	_, err := execute("lists", "--endpoint", srv.URL)
	assert.Nil(t, err)
}

func TestMissingToken(t *testing.T) {
	isolate(t)
	srv := workspace(t)
	_, err := execute("lists", "--endpoint", srv.URL)
	assert.ErrorIs(t, err, config.ErrMissingToken)
}

func TestTasksCommand(t *testing.T) {
	isolate(t)
	srv := workspace(t)
	testCases := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
		err      error
	}{
		{
			name:     "all",
			contains: []string{"T-1\tdone\t", "\tWrite docs\n", "T-2\tinProgress\t", "\tFix login\n"},
		},
		{
			name:     "completed",
			args:     []string{"--completed"},
			contains: []string{"\tWrite docs\n"},
			excludes: []string{"Fix login"},
		},
		{
			name:     "active",
			args:     []string{"--active"},
			contains: []string{"\tFix login\n"},
			excludes: []string{"Write docs"},
		},
		{
			name:     "search description",
			args:     []string{"--search", "blank page"},
			contains: []string{"\tFix login\n"},
			excludes: []string{"Write docs"},
		},
		{
			name:     "negated status",
			args:     []string{"-s", "-@inProgress"},
			contains: []string{"\tWrite docs\n"},
			excludes: []string{"Fix login"},
		},
		{
			name:     "nothing found",
			args:     []string{"-s", "nothing like this"},
			contains: []string{"No tasks found. This could mean:"},
		},
		{
			name: "bad search",
			args: []string{"-s", "+bogus"},
			err:  errBadSearch,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"tasks", "Roadmap", "--token", "secret", "--endpoint", srv.URL}, tc.args...)
			out, err := execute(args...)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.Nil(t, err)
			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tc.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestTasksCommandFlagsExclusive(t *testing.T) {
	isolate(t)
	_, err := execute("tasks", "Roadmap", "--token", "secret", "--completed", "--active")
	assert.NotNil(t, err)
}

func TestTasksCommandUnknownList(t *testing.T) {
	isolate(t)
	srv := workspace(t)
	_, err := execute("tasks", "Backlog", "--token", "secret", "--endpoint", srv.URL)
	assert.NotNil(t, err)
}

func TestExportThenShow(t *testing.T) {
	isolate(t)
	srv := workspace(t)
	dir := t.TempDir()
	common := []string{"--token", "secret", "--endpoint", srv.URL, "--export-dir", dir}

	out, err := execute(append([]string{"export", "list", "l1"}, common...)...)
	require.Nil(t, err)
	assert.Contains(t, out, `Exported 2 tasks from "Roadmap"`)
	assert.Contains(t, out, "Tasks: 2 (1 completed, 1 active)")

	out, err = execute(append([]string{"export", "task", "t1", "--no-activities"}, common...)...)
	require.Nil(t, err)
	assert.Contains(t, out, `Exported T-1 "Write docs"`)
	assert.NotContains(t, out, "Activities:")

	// Reading exports back needs no token.
	out, err = execute("exports", "--export-dir", dir)
	require.Nil(t, err)
	names := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, names, 2)
	assert.True(t, strings.HasPrefix(names[0], "roadmap_activities_incl_"), names[0])
	assert.True(t, strings.HasPrefix(names[1], "tasks/write-docs_T-1_"), names[1])

	out, err = execute("show", names[0], "--export-dir", dir)
	require.Nil(t, err)
	assert.Contains(t, out, "List: Roadmap")
	assert.Contains(t, out, "Activities: 2 across 1 tasks")

	out, err = execute("show", names[1], "--export-dir", dir)
	require.Nil(t, err)
	assert.Contains(t, out, "Task: T-1 Write docs")
	assert.Contains(t, out, "Activities: 0")
}

func TestExportsEmpty(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	out, err := execute("exports", "--export-dir", dir)
	require.Nil(t, err)
	assert.Equal(t, "No exports in "+dir+"\n", out)
}

func TestShowMissing(t *testing.T) {
	isolate(t)
	_, err := execute("show", "nothing.json", "--export-dir", t.TempDir())
	assert.NotNil(t, err)
}

func TestClientClosedAfterFailure(t *testing.T) {
	isolate(t)
	srv := workspace(t)
	wireLog := filepath.Join(t.TempDir(), "wire.log")
	_, a, err := executeApp("tasks", "Backlog", "--token", "secret", "--endpoint", srv.URL, "--wire-log", wireLog)
	assert.ErrorIs(t, err, height.ErrNotFound)
	assert.Nil(t, a.client)
	b, err := os.ReadFile(wireLog)
	require.Nil(t, err)
	assert.Contains(t, string(b), `"type":"response"`)
}
