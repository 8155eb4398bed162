// Package export writes Height lists and tasks to local JSON files and reads them back.
//
// A list export holds the list, all of its tasks and, optionally, every task's activities keyed by task ID. A task
// export holds one task and, optionally, its activities. Activities are fetched through a batch.Fetcher so that
// the upstream rate limits are respected and transient failures are retried.
//
// An export file is written once, after all of its data has been gathered; a failure leaves no file behind.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/nicolagi/height"
	"github.com/nicolagi/height/batch"
	uuid "github.com/nu7hatch/gouuid"
	log "github.com/sirupsen/logrus"
)

// Source provides the tasks and activities to export. It is satisfied by *height.Client.
//
//go:generate mockgen -package=export_test -destination=mock_source_test.go github.com/nicolagi/height/export Source
type Source interface {
	Tasks(ctx context.Context, listID string) ([]height.Task, error)
	Activities(ctx context.Context, taskID string) ([]height.Activity, error)
}

// ListExport is the content of a list export file.
type ListExport struct {
	List       height.List                  `json:"list"`
	Tasks      []height.Task                `json:"tasks"`
	Activities map[string][]height.Activity `json:"activities"`
	Metadata   ListMetadata                 `json:"exportMetadata"`
}

// ListMetadata summarizes a list export. FailedTasks counts the tasks whose activities could not be fetched even
// after retrying; their entries in Activities are empty.
type ListMetadata struct {
	ExportedAt          string `json:"exportedAt"`
	ExportID            string `json:"exportId"`
	TotalTasks          int    `json:"totalTasks"`
	CompletedTasks      int    `json:"completedTasks"`
	ActiveTasks         int    `json:"activeTasks"`
	TotalActivities     int    `json:"totalActivities"`
	TasksWithActivities int    `json:"tasksWithActivities"`
	FailedTasks         int    `json:"failedTasks"`
}

// TaskExport is the content of a task export file.
type TaskExport struct {
	Task       height.Task       `json:"task"`
	Activities []height.Activity `json:"activities"`
	Metadata   TaskMetadata      `json:"exportMetadata"`
}

// TaskMetadata summarizes a task export.
type TaskMetadata struct {
	ExportedAt      string `json:"exportedAt"`
	ExportID        string `json:"exportId"`
	TotalActivities int    `json:"totalActivities"`
	TaskSlug        string `json:"taskSlug"`
	TaskNumber      string `json:"taskNumber"`
}

// Exporter gathers data from a Source and writes it to a Store.
type Exporter struct {
	source  Source
	fetcher *batch.Fetcher[string, height.Activity]
	store   *Store
	now     func() time.Time
}

// NewExporter creates an Exporter. The options configure the activities fetcher.
func NewExporter(source Source, store *Store, opts ...batch.Option) *Exporter {
	return &Exporter{
		source:  source,
		fetcher: batch.New[string, height.Activity](source.Activities, opts...),
		store:   store,
		now:     time.Now,
	}
}

// WithClock replaces the clock used for timestamps and file names.
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	e.now = now
	return e
}

// Store returns the store the exporter writes to.
func (e *Exporter) Store() *Store {
	return e.store
}

// Fetcher returns the activities fetcher, to browse activities with the same limits the exports use.
func (e *Exporter) Fetcher() *batch.Fetcher[string, height.Activity] {
	return e.fetcher
}

func newExportID() string {
	id, err := uuid.NewV4()
	if err != nil {
		log.WithFields(log.Fields{
			"op":    "export",
			"cause": err,
		}).Warning("Could not generate export id")
		return ""
	}
	return id.String()
}

// ExportList fetches the tasks of list and, if withActivities is set, their activities, then writes a list export.
// It returns the path of the file written along with its content.
func (e *Exporter) ExportList(ctx context.Context, list height.List, withActivities bool) (string, *ListExport, error) {
	tasks, err := e.source.Tasks(ctx, list.ID)
	if err != nil {
		return "", nil, fmt.Errorf("export list %q: %w", list.Name, err)
	}
	if tasks == nil {
		tasks = []height.Task{}
	}
	at := e.now()
	x := &ListExport{
		List:       list,
		Tasks:      tasks,
		Activities: make(map[string][]height.Activity),
		Metadata: ListMetadata{
			ExportedAt: timestamp(at),
			ExportID:   newExportID(),
			TotalTasks: len(tasks),
		},
	}
	for _, t := range tasks {
		if t.Completed {
			x.Metadata.CompletedTasks++
		}
	}
	x.Metadata.ActiveTasks = x.Metadata.TotalTasks - x.Metadata.CompletedTasks

	if withActivities && len(tasks) > 0 {
		ids := make([]string, 0, len(tasks))
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}
		for id, o := range e.fetcher.FetchAllOutcomes(ctx, ids) {
			x.Activities[id] = o.Results
			x.Metadata.TotalActivities += len(o.Results)
			if len(o.Results) > 0 {
				x.Metadata.TasksWithActivities++
			}
			if o.Err != nil {
				x.Metadata.FailedTasks++
			}
		}
	}

	// Activities of a cancelled fetch are incomplete.
	if err := ctx.Err(); err != nil {
		return "", nil, fmt.Errorf("export list %q: %w", list.Name, err)
	}
	key := ListFilename(list.Name, withActivities, at)
	if err := e.store.write(key, x); err != nil {
		return "", nil, fmt.Errorf("export list %q: %w", list.Name, err)
	}
	log.WithFields(log.Fields{
		"op":         "export",
		"list":       list.Name,
		"tasks":      x.Metadata.TotalTasks,
		"activities": x.Metadata.TotalActivities,
		"failed":     x.Metadata.FailedTasks,
		"key":        key,
	}).Info("Exported list")
	return e.store.Path(key), x, nil
}

// ExportTask writes a task export, with the task's activities if withActivities is set. Unlike a list export, a
// task export fails if the activities can't be fetched.
func (e *Exporter) ExportTask(ctx context.Context, task height.Task, withActivities bool) (string, *TaskExport, error) {
	activities := []height.Activity{}
	if withActivities {
		var err error
		if activities, err = e.fetcher.FetchOne(ctx, task.ID); err != nil {
			return "", nil, fmt.Errorf("export task %s: %w", task.Number(), err)
		}
		if activities == nil {
			activities = []height.Activity{}
		}
	}
	if err := ctx.Err(); err != nil {
		return "", nil, fmt.Errorf("export task %s: %w", task.Number(), err)
	}
	at := e.now()
	x := &TaskExport{
		Task:       task,
		Activities: activities,
		Metadata: TaskMetadata{
			ExportedAt:      timestamp(at),
			ExportID:        newExportID(),
			TotalActivities: len(activities),
			TaskSlug:        TaskSlug(task.Name),
			TaskNumber:      task.Number(),
		},
	}
	key := tasksDir + "/" + TaskFilename(task.Name, task.Number(), at)
	if err := e.store.write(key, x); err != nil {
		return "", nil, fmt.Errorf("export task %s: %w", task.Number(), err)
	}
	log.WithFields(log.Fields{
		"op":         "export",
		"task":       task.Number(),
		"activities": len(activities),
		"key":        key,
	}).Info("Exported task")
	return e.store.Path(key), x, nil
}

// ListExports returns the names of the list export files, sorted.
func (s *Store) ListExports(ctx context.Context) []string {
	return s.names(ctx, "")
}

// ListTaskExports returns the names of the task export files, sorted.
func (s *Store) ListTaskExports(ctx context.Context) []string {
	return s.names(ctx, tasksDir)
}

// ReadListExport reads the list export file with the given name, as returned by ListExports.
func (s *Store) ReadListExport(name string) (*ListExport, error) {
	var x ListExport
	if err := s.read(name, &x); err != nil {
		return nil, err
	}
	return &x, nil
}

// ReadTaskExport reads the task export file with the given name, as returned by ListTaskExports.
func (s *Store) ReadTaskExport(name string) (*TaskExport, error) {
	var x TaskExport
	if err := s.read(tasksDir+"/"+name, &x); err != nil {
		return nil, err
	}
	return &x, nil
}
