package height

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// Task partially describes a task in Height. It only includes a subset of the fields. It is used to deserialize
// the responses to Tasks and Task and should be treated as read-only.
type Task struct {
	ID             string   `json:"id"`
	Model          string   `json:"model"`
	Index          int      `json:"index"`
	ListIDs        []string `json:"listIds"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	AssigneesIDs   []string `json:"assigneesIds"`
	Deleted        bool     `json:"deleted"`
	Completed      bool     `json:"completed"`
	CompletedAt    string   `json:"completedAt,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	CreatedUserID  string   `json:"createdUserId"`
	LastActivityAt string   `json:"lastActivityAt"`
	URL            string   `json:"url"`
	ParentTaskID   string   `json:"parentTaskId,omitempty"`
}

// Number is the human friendly task reference shown in the Height UI, e.g., T-42.
func (t *Task) Number() string {
	return fmt.Sprintf("T-%d", t.Index)
}

// Created parses CreatedAt, returning the zero time if it can't be parsed.
func (t *Task) Created() time.Time {
	return parseTime(t.CreatedAt)
}

// LastActivity is analogous to Created.
func (t *Task) LastActivity() time.Time {
	return parseTime(t.LastActivityAt)
}

// CompletedTime is analogous to Created.
func (t *Task) CompletedTime() time.Time {
	return parseTime(t.CompletedAt)
}

type valuesFilter struct {
	Values []string `json:"values"`
}

type taskFilters struct {
	ListIDs valuesFilter `json:"listIds"`
}

// Tasks searches for all tasks in the given list.
func (c *Client) Tasks(ctx context.Context, listID string) ([]Task, error) {
	b, err := json.Marshal(taskFilters{ListIDs: valuesFilter{Values: []string{listID}}})
	if err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}
	query := make(url.Values)
	query.Set("filters", string(b))
	return getList[Task](ctx, c, "tasks", "/tasks", query)
}

// Task gets a single task by id.
func (c *Client) Task(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := c.get(ctx, "task", "/tasks/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
