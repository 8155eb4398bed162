package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nicolagi/height"
	"github.com/nicolagi/height/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newRootCommand builds the command tree around a. The caller closes a after the command runs, also when it fails.
func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "height",
		Short:         "Browse and export a Height workspace",
		Long:          "Browse the lists, tasks and activities of a Height workspace and export them to JSON files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.browse(cmd)
		},
	}
	root.SetOut(a.out)
	if err := config.AddFlags(a.v, root.PersistentFlags()); err != nil {
		log.WithField("cause", err).Fatal("Could not bind flags")
	}
	root.AddCommand(
		newBrowseCommand(a),
		newListsCommand(a),
		newTasksCommand(a),
		newExportCommand(a),
		newExportsCommand(a),
		newShowCommand(a),
	)
	return root
}

func newBrowseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse lists, tasks and activities interactively (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.browse(cmd)
		},
	}
}

func (a *app) browse(cmd *cobra.Command) error {
	if err := setLogLevel(a.cfg.LogLevel, log.WarnLevel); err != nil {
		return err
	}
	return newBrowser(a).run(cmd.Context())
}

func newListsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Print all lists: id, status, name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(); err != nil {
				return err
			}
			lists, err := a.client.Lists(cmd.Context())
			if err != nil {
				return err
			}
			if len(lists) == 0 {
				printEmpty(a.out, "lists", noListsReasons...)
				return nil
			}
			sort.Sort(listsByName(lists))
			printLists(a.out, lists)
			return nil
		},
	}
}

func newTasksCommand(a *app) *cobra.Command {
	var completed, active bool
	var search string
	cmd := &cobra.Command{
		Use:   "tasks <list>",
		Short: "Print the tasks of a list: number, status, time since last activity, name",
		Long: `Print the tasks of a list, given by id or name.

The search expression is made of terms separated by colons, all of which must match. A term starting with @
matches any of the comma-separated statuses that follow, +completed and +deleted match the corresponding flag,
and any other term looks for a substring of the name or description. A leading minus negates a term.`,
		Example: `  height tasks Roadmap --active
  height tasks Roadmap --search '@inProgress,review:-login'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if completed && active {
				return fmt.Errorf("tasks: --completed and --active are mutually exclusive")
			}
			if err := a.connect(); err != nil {
				return err
			}
			list, err := a.client.ListByRef(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tasks, err := a.client.Tasks(cmd.Context(), list.ID)
			if err != nil {
				return err
			}
			scan := height.SearchTasks(tasks)
			switch {
			case completed:
				scan.WithCompleted(true)
			case active:
				scan.WithCompleted(false).WithDeleted(false)
			}
			if tasks, err = searchTasks(scan.Results(), search); err != nil {
				return err
			}
			if len(tasks) == 0 {
				printEmpty(a.out, "tasks", noTasksReasons...)
				return nil
			}
			sort.Sort(tasksByIndex(tasks))
			printTasks(a.out, tasks)
			return nil
		},
	}
	cmd.Flags().BoolVar(&completed, "completed", false, "only completed tasks")
	cmd.Flags().BoolVar(&active, "active", false, "only tasks neither completed nor deleted")
	cmd.Flags().StringVarP(&search, "search", "s", "", "search expression")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a list or a task to a JSON file",
	}
	var noActivities bool
	list := &cobra.Command{
		Use:   "list <list>",
		Short: "Export a list, given by id or name, with all of its tasks and their activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(); err != nil {
				return err
			}
			l, err := a.client.ListByRef(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.out, "%s\n", titleStyle.Sprintf("Exporting %q...", l.Name))
			path, x, err := a.exporter.ExportList(cmd.Context(), *l, !noActivities)
			if err != nil {
				return err
			}
			printListExportSummary(a.out, path, x, !noActivities)
			return nil
		},
	}
	task := &cobra.Command{
		Use:   "task <task-id>",
		Short: "Export a task with its activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(); err != nil {
				return err
			}
			t, err := a.client.Task(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.out, "%s\n", titleStyle.Sprintf("Exporting %s %q...", t.Number(), t.Name))
			path, x, err := a.exporter.ExportTask(cmd.Context(), *t, !noActivities)
			if err != nil {
				return err
			}
			printTaskExportSummary(a.out, path, x, !noActivities)
			return nil
		},
	}
	cmd.PersistentFlags().BoolVar(&noActivities, "no-activities", false, "do not fetch activities")
	cmd.AddCommand(list, task)
	return cmd
}

// exportNames lists all export files, task exports with their directory prefix.
func (a *app) exportNames(ctx context.Context) []string {
	names := a.store.ListExports(ctx)
	for _, name := range a.store.ListTaskExports(ctx) {
		names = append(names, taskExportPrefix+name)
	}
	return names
}

const taskExportPrefix = "tasks/"

func newExportsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exports",
		Short: "List the export files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := a.exportNames(cmd.Context())
			if len(names) == 0 {
				_, _ = fmt.Fprintf(a.out, "No exports in %s\n", a.store.Dir())
				return nil
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(a.out, name)
			}
			return nil
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Summarize an export file, named as printed by the exports command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showExport(a.out, args[0])
		},
	}
}

func (a *app) showExport(w io.Writer, name string) error {
	if strings.HasPrefix(name, taskExportPrefix) {
		x, err := a.store.ReadTaskExport(strings.TrimPrefix(name, taskExportPrefix))
		if err != nil {
			return err
		}
		printTaskExport(w, x)
		return nil
	}
	x, err := a.store.ReadListExport(name)
	if err != nil {
		return err
	}
	printListExport(w, x)
	return nil
}

var (
	noListsReasons = []string{
		"No lists exist in your Height workspace",
		"The API token doesn't have access to lists",
	}
	noTasksReasons = []string{
		"No tasks exist in this list",
		"The API token doesn't have access to tasks",
	}
	noActivitiesReasons = []string{
		"No activities exist for this task",
		"The API token doesn't have access to activities",
	}
)
