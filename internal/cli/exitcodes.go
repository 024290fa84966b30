package cli

import (
	"context"
	"errors"

	"github.com/thenoetrevino/cardsort/internal/client"
	"github.com/thenoetrevino/cardsort/internal/models"
	"github.com/thenoetrevino/cardsort/internal/services/reorder"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, network errors, timeouts, unexpected failures.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or invalid flag combinations.
	ExitUsage = 2

	// ExitNotFound indicates a requested card was not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty titles, unknown statuses, negative positions.
	ExitValidation = 5

	// ExitConflict indicates the board changed underneath the command.
	// Retrying after a fresh list usually succeeds.
	ExitConflict = 6
)

// ErrUsage marks errors caused by how a command was invoked
var ErrUsage = errors.New("usage error")

var validationErrors = []error{
	models.ErrInvalidReorder,
	models.ErrInvalidStatus,
	models.ErrInvalidPosition,
	reorder.ErrEmptyTitle,
	reorder.ErrTitleTooLong,
	reorder.ErrInvalidCardID,
	reorder.ErrInvalidOwnerID,
	client.ErrBadRequest,
}

// ExitCode maps a command error to its process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, models.ErrCardNotFound):
		return ExitNotFound
	case errors.Is(err, models.ErrConflict):
		return ExitConflict
	case errors.Is(err, context.DeadlineExceeded):
		return ExitError
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return ExitValidation
		}
	}
	return ExitError
}
