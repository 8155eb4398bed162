package height

import "strings"

type taskPredicate func(*Task) bool

func negate(p taskPredicate) taskPredicate {
	return func(task *Task) bool {
		return !p(task)
	}
}

// TaskScan filters a slice of tasks already fetched with Tasks. No remote calls are made.
type TaskScan struct {
	tasks      []Task
	predicates []taskPredicate
}

// SearchTasks starts a scan over the given tasks. With no predicates added, Results returns all of them.
func SearchTasks(tasks []Task) *TaskScan {
	return &TaskScan{
		tasks: tasks,
	}
}

// Not negates the last predicate added.  It will panic if no predicates were added.
func (s *TaskScan) Not() *TaskScan {
	i := len(s.predicates) - 1
	s.predicates[i] = negate(s.predicates[i])
	return s
}

func (s *TaskScan) WithCompleted(value bool) *TaskScan {
	s.predicates = append(s.predicates, func(task *Task) bool {
		return task.Completed == value
	})
	return s
}

func (s *TaskScan) WithDeleted(value bool) *TaskScan {
	s.predicates = append(s.predicates, func(task *Task) bool {
		return task.Deleted == value
	})
	return s
}

// WithStatus looks for tasks in any of the given statuses, that is, arguments are ORed together.
func (s *TaskScan) WithStatus(value ...string) *TaskScan {
	s.predicates = append(s.predicates, func(task *Task) bool {
		for _, status := range value {
			if task.Status == status {
				return true
			}
		}
		return false
	})
	return s
}

// WithText looks for tasks whose name or description contain the given substring, case-insensitive.
func (s *TaskScan) WithText(needle string) *TaskScan {
	needle = strings.ToLower(needle)
	s.predicates = append(s.predicates, func(task *Task) bool {
		return strings.Contains(strings.ToLower(task.Name), needle) ||
			strings.Contains(strings.ToLower(task.Description), needle)
	})
	return s
}

// Results returns the matching tasks in their original order.
func (s *TaskScan) Results() []Task {
	var results []Task
	for i := range s.tasks {
		if s.match(&s.tasks[i]) {
			results = append(results, s.tasks[i])
		}
	}
	return results
}

// Count is len(Results()) without the allocation.
func (s *TaskScan) Count() int {
	n := 0
	for i := range s.tasks {
		if s.match(&s.tasks[i]) {
			n++
		}
	}
	return n
}

func (s *TaskScan) match(task *Task) bool {
	for _, match := range s.predicates {
		if !match(task) {
			return false
		}
	}
	return true
}
