package comment

import (
	"context"
	"fmt"
)

// API is the remote comment surface Reconcile writes through.
type API interface {
	// CreateComment attaches a new comment to the pull request and returns its ID.
	CreateComment(ctx context.Context, number int, body string) (int64, error)
	// UpdateComment replaces the body of an existing comment.
	UpdateComment(ctx context.Context, id int64, body string) error
}

// Action names the operation a reconciliation run performed.
type Action string

const (
	// ActionCreated means a new comment was attached to the pull request.
	ActionCreated Action = "created"
	// ActionUpdated means the previously posted comment was replaced in place.
	ActionUpdated Action = "updated"
	// ActionSkipped means no remote write was issued.
	ActionSkipped Action = "skipped"
)

// Outcome describes the result of a single reconciliation run.
type Outcome struct {
	// Action is the operation that was performed.
	Action Action
	// CommentID is the remote comment ID for created/updated outcomes.
	CommentID int64
	// Reason explains a skipped outcome.
	Reason string
}

// RemoteError wraps a failed remote comment operation with the operation name.
// Remote failures are fatal to the run; retry policy belongs to the caller.
type RemoteError struct {
	// Operation is "list", "create" or "update".
	Operation string
	Err       error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s comment: %v", e.Operation, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Options controls reconciliation behaviour for a single run.
type Options struct {
	// SkipOnNoChanges suppresses any remote write when the plan has no changes.
	SkipOnNoChanges bool
	// HasChanges is the change signal derived from the plan artifact.
	HasChanges bool
}

// Reconcile issues the minimal remote operation for the rendered body: update
// the existing comment when one was found, create a new one otherwise, or
// skip entirely when configured to stay quiet on no-change plans. A skip
// leaves any comment from a prior run untouched. Exactly zero or one remote
// write happens per run.
//
// Two runs racing to create the first comment for the same marker can both
// observe no existing comment and produce two comments. That is an accepted
// limitation: the marker lookup converges on the earliest comment on the next
// run, and cross-run locking would require coordination state outside this
// tool.
func Reconcile(ctx context.Context, api API, number int, body Body, existing *Existing, opts Options) (Outcome, error) {
	if opts.SkipOnNoChanges && !opts.HasChanges {
		return Outcome{Action: ActionSkipped, Reason: "no changes"}, nil
	}

	text := body.Text()

	if existing != nil {
		if err := api.UpdateComment(ctx, existing.ID, text); err != nil {
			return Outcome{}, &RemoteError{Operation: "update", Err: err}
		}
		return Outcome{Action: ActionUpdated, CommentID: existing.ID}, nil
	}

	id, err := api.CreateComment(ctx, number, text)
	if err != nil {
		return Outcome{}, &RemoteError{Operation: "create", Err: err}
	}
	return Outcome{Action: ActionCreated, CommentID: id}, nil
}
