package models

import (
	"fmt"
	"strings"
)

// Status identifies one of the fixed kanban board columns (e.g., "todo", "done").
// Columns are not stored entities: a column is the set of cards sharing a Status.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists every column in board order (left to right)
var Statuses = []Status{StatusBacklog, StatusTodo, StatusInProgress, StatusDone}

var statusLabels = map[Status]string{
	StatusBacklog:    "Backlog",
	StatusTodo:       "Todo",
	StatusInProgress: "In Progress",
	StatusDone:       "Done",
}

// Valid reports whether s is part of the fixed enumeration
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Rank returns the column's board order, or -1 for unknown statuses
func (s Status) Rank() int {
	for i, status := range Statuses {
		if status == s {
			return i
		}
	}
	return -1
}

// Label returns the human-readable column name
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStatus resolves a status by key or by label (case-insensitive).
// "In Progress", "in_progress" and "in-progress" all resolve to StatusInProgress.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	s := Status(normalized)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}
