package events

import (
	"log/slog"
	"time"
)

// PublishWithRetry sends event, retrying with exponential backoff
// (50ms, 100ms, 200ms, ...) up to maxRetries attempts. It returns the error
// from the final attempt. A nil client is a no-op.
func PublishWithRetry(client EventPublisher, event Event, maxRetries int) error {
	if client == nil {
		return nil
	}

	var lastErr error
	baseDelay := 50 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := client.SendEvent(event)
		if err == nil {
			if attempt > 0 {
				slog.Debug("event published after retry",
					"attempt", attempt+1,
					"event_type", event.Type,
					"owner_id", event.OwnerID)
			}
			return nil
		}

		lastErr = err

		if attempt < maxRetries-1 {
			delay := baseDelay * (1 << attempt)
			slog.Debug("event publish failed, retrying",
				"attempt", attempt+1,
				"max_retries", maxRetries,
				"retry_delay", delay,
				"error", err)
			time.Sleep(delay)
		}
	}

	// Warn: remote sessions will not see this write until their next resync
	slog.Warn("event publish failed after all retries",
		"attempts", maxRetries,
		"event_type", event.Type,
		"owner_id", event.OwnerID,
		"error", lastErr)

	return lastErr
}

// BoardChanged builds the notification for a write to ownerID's board
func BoardChanged(ownerID string) Event {
	return Event{Type: EventBoardChanged, OwnerID: ownerID, Timestamp: time.Now()}
}
