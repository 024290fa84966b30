package models

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"todo", StatusTodo},
		{"Todo", StatusTodo},
		{"In Progress", StatusInProgress},
		{"in-progress", StatusInProgress},
		{" done ", StatusDone},
		{"BACKLOG", StatusBacklog},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.input)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	_, err := ParseStatus("archived")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStatusRankFollowsBoardOrder(t *testing.T) {
	for i, s := range Statuses {
		if s.Rank() != i {
			t.Errorf("%s.Rank() = %d, want %d", s, s.Rank(), i)
		}
	}
	if Status("nope").Rank() != -1 {
		t.Error("unknown status should rank -1")
	}
}

func TestValidateReorder(t *testing.T) {
	tests := []struct {
		name  string
		items []ReorderItem
		cause error
	}{
		{"empty batch", nil, ErrEmptyReorder},
		{"duplicate id", []ReorderItem{{ID: "a", Status: StatusTodo}, {ID: "a", Status: StatusDone, Position: 1}}, ErrDuplicateItem},
		{"unknown status", []ReorderItem{{ID: "a", Status: "archived"}}, ErrInvalidStatus},
		{"negative position", []ReorderItem{{ID: "a", Status: StatusTodo, Position: -1}}, ErrInvalidPosition},
		{"empty id", []ReorderItem{{Status: StatusTodo}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReorder(tt.items)
			if !errors.Is(err, ErrInvalidReorder) {
				t.Fatalf("expected ErrInvalidReorder, got %v", err)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("expected cause %v, got %v", tt.cause, err)
			}
			if errors.Is(err, ErrCardNotFound) {
				t.Errorf("validation must not look like a missing card: %v", err)
			}
		})
	}
}

func TestValidateReorderAcceptsWellFormedBatch(t *testing.T) {
	items := []ReorderItem{
		{ID: "a", Status: StatusTodo, Position: 0},
		{ID: "b", Status: StatusTodo, Position: 1},
		{ID: "c", Status: StatusDone, Position: 0},
	}
	if err := ValidateReorder(items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
