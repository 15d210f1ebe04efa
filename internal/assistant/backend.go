// Package assistant forwards free-text questions to a hosted conversational
// assistant and cleans up its answers.
package assistant

import (
	"context"
	"errors"
)

var (
	// ErrRunFailed is returned when a run ends as failed, expired or cancelled.
	ErrRunFailed = errors.New("assistant: run did not complete")
	// ErrRunTimeout is returned when a run is still pending after the poll budget.
	ErrRunTimeout = errors.New("assistant: run timed out")
	// ErrNoMessage is returned when a completed run produced no readable answer.
	ErrNoMessage = errors.New("assistant: no response message")
)

// RunStatus is the lifecycle state of an assistant run.
type RunStatus string

const (
	RunQueued         RunStatus = "queued"
	RunInProgress     RunStatus = "in_progress"
	RunRequiresAction RunStatus = "requires_action"
	RunCancelling     RunStatus = "cancelling"
	RunCancelled      RunStatus = "cancelled"
	RunFailed         RunStatus = "failed"
	RunCompleted      RunStatus = "completed"
	RunIncomplete     RunStatus = "incomplete"
	RunExpired        RunStatus = "expired"
)

// Terminal reports whether polling can stop.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunCompleted, RunFailed, RunExpired, RunCancelled, RunIncomplete:
		return true
	}
	return false
}

// Backend is a threaded assistant: a context holds the conversation, messages
// are posted into it and a run produces the next answer.
type Backend interface {
	CreateContext(ctx context.Context) (string, error)
	PostMessage(ctx context.Context, token, text string) error
	Run(ctx context.Context, token string) (string, error)
	RunStatus(ctx context.Context, token, runID string) (RunStatus, error)
	LatestMessage(ctx context.Context, token string) (string, error)
}
