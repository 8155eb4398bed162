package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nicolagi/height"
	"github.com/nicolagi/height/selector"
	log "github.com/sirupsen/logrus"
)

type screen int

const (
	screenMain screen = iota
	screenLists
	screenListActions
	screenTasks
	screenTaskActions
	screenActivities
	screenActivity
	screenExportList
	screenExportListBare
	screenExportTask
	screenExportTaskBare
	screenExports
	screenExit
)

func (s screen) String() string {
	switch s {
	case screenMain:
		return "main"
	case screenLists:
		return "lists"
	case screenListActions:
		return "listActions"
	case screenTasks:
		return "tasks"
	case screenTaskActions:
		return "taskActions"
	case screenActivities:
		return "activities"
	case screenActivity:
		return "activity"
	case screenExportList:
		return "exportList"
	case screenExportListBare:
		return "exportListBare"
	case screenExportTask:
		return "exportTask"
	case screenExportTaskBare:
		return "exportTaskBare"
	case screenExports:
		return "exports"
	case screenExit:
		return "exit"
	default:
		log.WithField("screen", int(s)).Error("Missing screen string, returning as number")
		return fmt.Sprintf("%d", int(s))
	}
}

// choice is a menu entry leading to another screen.
type choice struct {
	label string
	next  screen
}

func choiceRow(c choice, selected bool) string {
	return highlight(c.label, selected)
}

var (
	toMain = choice{label: "Back to main menu", next: screenMain}
	toExit = choice{label: "Exit", next: screenExit}
)

// browser is the interactive program: a loop over screens, each of which is a selector.
type browser struct {
	*app

	// The current list, task, and activity, as picked on previous screens.
	list     *height.List
	task     *height.Task
	activity *height.Activity

	// Cached for going back: tasks of list, activities of task.
	tasks      []height.Task
	activities []height.Activity
}

func newBrowser(a *app) *browser {
	return &browser{app: a}
}

func pick[T any](b *browser, title string, header string, items []T, row func(T, bool) string, fields ...selector.Field[T]) (T, error) {
	return selector.New(title, row, fields...).
		WithHeader(header).
		WithIO(b.in, b.out).
		WithTerminal(b.term).
		Select(items)
}

func (b *browser) menu(header string, choices ...choice) (screen, error) {
	c, err := pick(b, "Actions", header, choices, choiceRow, selector.Text(func(c choice) string { return c.label }))
	if err != nil {
		return screenExit, err
	}
	return c.next, nil
}

func (b *browser) run(ctx context.Context) error {
	for s := screenMain; s != screenExit; {
		log.WithField("screen", s).Debug("Showing")
		next, err := b.show(ctx, s)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		s = next
	}
	_, _ = fmt.Fprintf(b.out, "%s\n", goodStyle.Sprint(goodbye))
	return nil
}

func (b *browser) show(ctx context.Context, s screen) (screen, error) {
	switch s {
	case screenMain:
		header := titleStyle.Sprint("Height") + "\n" + hintStyle.Sprint("Browse and export your Height workspace")
		return b.menu(header,
			choice{label: "Browse Height lists", next: screenLists},
			choice{label: "Browse exports", next: screenExports},
			toExit)
	case screenLists:
		return b.showLists(ctx)
	case screenListActions:
		return b.menu(b.listHeader(),
			choice{label: fmt.Sprintf("Browse tasks of %q", b.list.Name), next: screenTasks},
			choice{label: "Export list with activities", next: screenExportList},
			choice{label: "Export list without activities", next: screenExportListBare},
			choice{label: "Back to lists", next: screenLists},
			toMain,
			toExit)
	case screenTasks:
		return b.showTasks(ctx)
	case screenTaskActions:
		var buf bytes.Buffer
		printTaskDetails(&buf, b.task)
		return b.menu(buf.String(),
			choice{label: "Browse activities", next: screenActivities},
			choice{label: "Export task with activities", next: screenExportTask},
			choice{label: "Export task without activities", next: screenExportTaskBare},
			choice{label: "Back to tasks", next: screenTasks},
			choice{label: "Back to list", next: screenListActions},
			toMain,
			toExit)
	case screenActivities:
		return b.showActivities(ctx)
	case screenActivity:
		var buf bytes.Buffer
		if err := printActivityDetails(&buf, b.activity); err != nil {
			return b.failed(ctx, "show activity", err)
		}
		return b.menu(buf.String(),
			choice{label: "Back to activities", next: screenActivities},
			choice{label: "Back to task", next: screenTaskActions},
			toMain,
			toExit)
	case screenExportList, screenExportListBare:
		return b.exportList(ctx, s == screenExportList)
	case screenExportTask, screenExportTaskBare:
		return b.exportTask(ctx, s == screenExportTask)
	case screenExports:
		return b.showExports(ctx)
	default:
		return screenExit, nil
	}
}

func (b *browser) listHeader() string {
	var buf bytes.Buffer
	printListDetails(&buf, b.list)
	return buf.String()
}

// failed reports err and lets the user go back to the main menu. A cancelled context ends the program instead.
func (b *browser) failed(ctx context.Context, op string, err error) (screen, error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return screenExit, err
	}
	log.WithFields(log.Fields{
		"op":    op,
		"cause": err,
	}).Warning("Failed")
	header := badStyle.Sprintf("Could not %s: %v", op, err)
	return b.menu(header, toMain, toExit)
}

func (b *browser) loading(what string) {
	_, _ = fmt.Fprintf(b.out, "%s\n", titleStyle.Sprintf("Loading %s from Height...", what))
}

func (b *browser) empty(what string, reasons []string, choices ...choice) (screen, error) {
	var buf bytes.Buffer
	printEmpty(&buf, what, reasons...)
	return b.menu(buf.String(), choices...)
}

// showLists creates the client: every screen that talks to Height is reached through it.
func (b *browser) showLists(ctx context.Context) (screen, error) {
	if err := b.connect(); err != nil {
		return b.failed(ctx, "connect", err)
	}
	b.loading("lists")
	lists, err := b.client.Lists(ctx)
	if err != nil {
		return b.failed(ctx, "load lists", err)
	}
	if len(lists) == 0 {
		return b.empty("lists", noListsReasons, toMain, toExit)
	}
	sort.Sort(listsByName(lists))
	l, err := pick(b, "Lists", "", lists, listRow,
		selector.Text(func(l height.List) string { return l.Name }),
		selector.Optional(func(l height.List) string { return l.Description }))
	if err != nil {
		return screenExit, err
	}
	if b.list == nil || b.list.ID != l.ID {
		b.tasks = nil
	}
	b.list = &l
	return screenListActions, nil
}

func (b *browser) showTasks(ctx context.Context) (screen, error) {
	if b.tasks == nil {
		b.loading("tasks")
		tasks, err := b.client.Tasks(ctx, b.list.ID)
		if err != nil {
			return b.failed(ctx, "load tasks", err)
		}
		sort.Sort(tasksByIndex(tasks))
		b.tasks = tasks
	}
	if len(b.tasks) == 0 {
		return b.empty("tasks", noTasksReasons, choice{label: "Back to list", next: screenListActions}, toMain, toExit)
	}
	t, err := pick(b, "Tasks", "", b.tasks, taskRow,
		selector.Text(func(t height.Task) string { return t.Name }),
		selector.Optional(func(t height.Task) string { return t.Description }),
		selector.Text(func(t height.Task) string { return t.Number() }))
	if err != nil {
		return screenExit, err
	}
	if b.task == nil || b.task.ID != t.ID {
		b.activities = nil
	}
	b.task = &t
	return screenTaskActions, nil
}

func (b *browser) showActivities(ctx context.Context) (screen, error) {
	if b.activities == nil {
		b.loading("activities")
		activities, err := b.exporter.Fetcher().FetchOne(ctx, b.task.ID)
		if err != nil {
			return b.failed(ctx, "load activities", err)
		}
		sort.Stable(activitiesByCreated(activities))
		b.activities = activities
	}
	back := choice{label: "Back to task", next: screenTaskActions}
	if len(b.activities) == 0 {
		return b.empty("activities", noActivitiesReasons, back, toMain, toExit)
	}
	a, err := pick(b, "Activities", "", b.activities, activityRow,
		selector.Text(func(a height.Activity) string { return a.Type }),
		selector.Optional(func(a height.Activity) string { return a.Message }),
		selector.Optional(func(a height.Activity) string { return a.CreatedUserID }))
	if err != nil {
		return screenExit, err
	}
	b.activity = &a
	return screenActivity, nil
}

func (b *browser) exportList(ctx context.Context, withActivities bool) (screen, error) {
	_, _ = fmt.Fprintf(b.out, "%s\n", titleStyle.Sprintf("Exporting %q...", b.list.Name))
	path, x, err := b.exporter.ExportList(ctx, *b.list, withActivities)
	if err != nil {
		return b.failed(ctx, "export list", err)
	}
	var buf bytes.Buffer
	printListExportSummary(&buf, path, x, withActivities)
	return b.menu(buf.String(), choice{label: "Back to list", next: screenListActions}, toMain, toExit)
}

func (b *browser) exportTask(ctx context.Context, withActivities bool) (screen, error) {
	_, _ = fmt.Fprintf(b.out, "%s\n", titleStyle.Sprintf("Exporting %s...", b.task.Number()))
	path, x, err := b.exporter.ExportTask(ctx, *b.task, withActivities)
	if err != nil {
		return b.failed(ctx, "export task", err)
	}
	var buf bytes.Buffer
	printTaskExportSummary(&buf, path, x, withActivities)
	return b.menu(buf.String(), choice{label: "Back to task", next: screenTaskActions}, toMain, toExit)
}

func (b *browser) showExports(ctx context.Context) (screen, error) {
	names := b.exportNames(ctx)
	if len(names) == 0 {
		return b.menu(warnStyle.Sprintf("No exports in %s", b.store.Dir()), toMain, toExit)
	}
	name, err := pick(b, "Exports", hintStyle.Sprint(b.store.Dir()), names,
		func(name string, selected bool) string { return highlight(name, selected) },
		selector.Text(func(name string) string { return name }))
	if err != nil {
		return screenExit, err
	}
	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "%s\n\n", titleStyle.Sprint(name))
	if err := b.showExport(&buf, name); err != nil {
		return b.failed(ctx, "read export", err)
	}
	return b.menu(strings.TrimRight(buf.String(), "\n"),
		choice{label: "Back to exports", next: screenExports},
		toMain,
		toExit)
}
