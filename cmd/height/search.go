package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nicolagi/height"
)

var errBadSearch = errors.New("bad search term")

// searchTasks filters tasks with a search expression: terms separated by colons must all match. A term starting
// with @ matches any of the comma-separated statuses that follow, +completed and +deleted match the
// corresponding flag, and any other term is a case-insensitive substring of the name or description. A leading
// minus negates a term.
//
// For example, "@inProgress,review:-+completed:login" finds active tasks in progress or in review that mention
// login.
func searchTasks(tasks []height.Task, expr string) ([]height.Task, error) {
	search := height.SearchTasks(tasks)
	for _, term := range strings.Split(expr, ":") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if err := addSearchTerm(search, term); err != nil {
			return nil, err
		}
	}
	return search.Results(), nil
}

func addSearchTerm(s *height.TaskScan, term string) error {
	if term == "" {
		return fmt.Errorf("empty term: %w", errBadSearch)
	}
	switch term[0] {
	case '-':
		if err := addSearchTerm(s, term[1:]); err != nil {
			return err
		}
		s.Not()
	case '@':
		var statuses []string
		for _, status := range strings.Split(term[1:], ",") {
			if status = strings.TrimSpace(status); status != "" {
				statuses = append(statuses, status)
			}
		}
		if len(statuses) == 0 {
			return fmt.Errorf("%q: no status: %w", term, errBadSearch)
		}
		s.WithStatus(statuses...)
	case '+':
		switch term[1:] {
		case "completed":
			s.WithCompleted(true)
		case "deleted":
			s.WithDeleted(true)
		default:
			return fmt.Errorf("%q: unknown flag: %w", term, errBadSearch)
		}
	default:
		s.WithText(term)
	}
	return nil
}
