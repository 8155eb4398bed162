package height

import (
	"context"
	"net/url"
	"time"
)

// Activity holds a subset of the attributes of a Height activity: comments, status changes, and other system
// messages attached to a task. Data is kept opaque.
type Activity struct {
	ID            string                 `json:"id"`
	Model         string                 `json:"model"`
	TaskID        string                 `json:"taskId"`
	Type          string                 `json:"type"`
	CreatedAt     string                 `json:"createdAt"`
	CreatedUserID string                 `json:"createdUserId"`
	Message       string                 `json:"message,omitempty"`
	Data          map[string]interface{} `json:"data,omitempty"`
}

// Created parses CreatedAt, returning the zero time if it can't be parsed.
func (a *Activity) Created() time.Time {
	return parseTime(a.CreatedAt)
}

// Activities gets all activities of a task. This is the call the batch fetcher retries.
func (c *Client) Activities(ctx context.Context, taskID string) ([]Activity, error) {
	return getList[Activity](ctx, c, "activities", "/tasks/"+url.PathEscape(taskID)+"/activities", nil)
}
