package comment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plan-comment/planctl/internal/plan"
)

// fakeAPI records remote calls so tests can assert the exact operations issued.
type fakeAPI struct {
	nextID     int64
	created    []string
	updated    map[int64]string
	failCreate error
	failUpdate error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 100, updated: make(map[int64]string)}
}

func (f *fakeAPI) CreateComment(_ context.Context, _ int, body string) (int64, error) {
	if f.failCreate != nil {
		return 0, f.failCreate
	}
	f.nextID++
	f.created = append(f.created, body)
	return f.nextID, nil
}

func (f *fakeAPI) UpdateComment(_ context.Context, id int64, body string) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	f.updated[id] = body
	return nil
}

func (f *fakeAPI) callCount() int { return len(f.created) + len(f.updated) }

func TestReconcileCreatesWhenNoExisting(t *testing.T) {
	api := newFakeAPI()
	body := Format(plan.Result{RawMarkdown: "~ update resource X", HasChanges: true}, "📝 Infra Plan", 0)

	outcome, err := Reconcile(context.Background(), api, 42, body, nil, Options{HasChanges: true})
	require.NoError(t, err)

	assert.Equal(t, ActionCreated, outcome.Action)
	assert.Equal(t, int64(101), outcome.CommentID)
	require.Len(t, api.created, 1)
	assert.Contains(t, api.created[0], Marker("📝 Infra Plan"))
	assert.Contains(t, api.created[0], "```diff\n~ update resource X\n```")
}

func TestReconcileUpdatesExisting(t *testing.T) {
	api := newFakeAPI()
	body := Format(plan.Result{RawMarkdown: "+ create thing", HasChanges: true}, "h", 0)
	existing := &Existing{ID: 7, Body: "old body"}

	outcome, err := Reconcile(context.Background(), api, 42, body, existing, Options{HasChanges: true})
	require.NoError(t, err)

	assert.Equal(t, ActionUpdated, outcome.Action)
	assert.Equal(t, int64(7), outcome.CommentID)
	assert.Empty(t, api.created)
	assert.Equal(t, body.Text(), api.updated[7])
}

func TestReconcileSkipsOnNoChanges(t *testing.T) {
	body := Format(plan.Result{RawMarkdown: "No changes."}, "📝 Infra Plan", 0)
	opts := Options{SkipOnNoChanges: true, HasChanges: false}

	// Skip regardless of whether a prior comment exists; it is left untouched.
	for _, existing := range []*Existing{nil, {ID: 1, Body: Marker("📝 Infra Plan")}} {
		api := newFakeAPI()
		outcome, err := Reconcile(context.Background(), api, 42, body, existing, opts)
		require.NoError(t, err)

		assert.Equal(t, ActionSkipped, outcome.Action)
		assert.Equal(t, "no changes", outcome.Reason)
		assert.Zero(t, outcome.CommentID)
		assert.Zero(t, api.callCount())
	}
}

func TestReconcilePostsNoChangesWhenNotSkipping(t *testing.T) {
	api := newFakeAPI()
	body := Format(plan.Result{RawMarkdown: "No changes."}, "h", 0)

	outcome, err := Reconcile(context.Background(), api, 42, body, nil, Options{HasChanges: false})
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, outcome.Action)
}

func TestReconcileConvergesOnSingleComment(t *testing.T) {
	api := newFakeAPI()
	marker := Marker("staging")
	body := Format(plan.Result{RawMarkdown: "~ update resource X", HasChanges: true}, "staging", 0)
	opts := Options{HasChanges: true}

	first, err := Reconcile(context.Background(), api, 42, body, Find(nil, marker), opts)
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, first.Action)

	// Feed the created comment back as the listing of the second run.
	listing := []Existing{{ID: first.CommentID, Body: api.created[0]}}
	second, err := Reconcile(context.Background(), api, 42, body, Find(listing, marker), opts)
	require.NoError(t, err)

	assert.Equal(t, ActionUpdated, second.Action)
	assert.Equal(t, first.CommentID, second.CommentID)
	require.Len(t, api.created, 1)
}

func TestReconcileWrapsRemoteErrors(t *testing.T) {
	cause := errors.New("boom")
	body := Format(plan.Result{RawMarkdown: "+ thing", HasChanges: true}, "h", 0)

	api := newFakeAPI()
	api.failCreate = cause
	_, err := Reconcile(context.Background(), api, 42, body, nil, Options{HasChanges: true})
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "create", remoteErr.Operation)
	assert.ErrorIs(t, err, cause)

	api = newFakeAPI()
	api.failUpdate = cause
	_, err = Reconcile(context.Background(), api, 42, body, &Existing{ID: 1}, Options{HasChanges: true})
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "update", remoteErr.Operation)
}
