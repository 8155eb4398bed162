package height

import (
	"context"
	"fmt"
	"time"
)

// List partially describes a list in Height. It only includes a subset of the fields available and must only be
// used to parse API responses.
type List struct {
	ID          string `json:"id"`
	Model       string `json:"model"`
	Type        string `json:"type"`
	Key         string `json:"key,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	ArchivedAt  string `json:"archivedAt,omitempty"`
}

// Archived reports whether the list has been archived.
func (l *List) Archived() bool {
	return l.ArchivedAt != ""
}

// Created parses CreatedAt, returning the zero time if it can't be parsed.
func (l *List) Created() time.Time {
	return parseTime(l.CreatedAt)
}

// Updated is analogous to Created.
func (l *List) Updated() time.Time {
	return parseTime(l.UpdatedAt)
}

// Lists returns all the lists in the workspace. There is no API to get a specific list, see ListByRef.
func (c *Client) Lists(ctx context.Context) ([]List, error) {
	return getList[List](ctx, c, "lists", "/lists", nil)
}

// ListByRef finds a list by its id or, failing that, its exact name.
func (c *Client) ListByRef(ctx context.Context, ref string) (*List, error) {
	lists, err := c.Lists(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		if lists[i].ID == ref {
			return &lists[i], nil
		}
	}
	for i := range lists {
		if lists[i].Name == ref {
			return &lists[i], nil
		}
	}
	return nil, fmt.Errorf("list %q: %w", ref, ErrNotFound)
}

func parseTime(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}
