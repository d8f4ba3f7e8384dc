package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dancove/ministry-rota/pkg/core/model"
)

// fakeClock fires every After immediately so poll loops run without delay
type fakeClock struct {
	mu     sync.Mutex
	afters int
}

func (c *fakeClock) Now() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.afters++
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

type fakeSubmitter struct {
	submitErr error
	submits   int
	polls     int
	sequence  []model.DispatchJob // successive poll responses; last repeats
	gate      chan struct{}       // when non-nil, poll blocks until closed
	entered   chan struct{}       // closed when the first poll is reached
	enterOnce sync.Once
	pollMu    sync.Mutex
}

func (f *fakeSubmitter) SubmitDispatch(ctx context.Context, linkID string, category model.NotificationCategory, testMode bool, testContact string) (model.DispatchJob, error) {
	f.submits++
	if f.submitErr != nil {
		return model.DispatchJob{}, f.submitErr
	}
	return model.DispatchJob{ID: "job1", Category: category, Status: model.DispatchQueued}, nil
}

func (f *fakeSubmitter) PollDispatch(ctx context.Context, linkID, jobID string) (model.DispatchJob, error) {
	if f.entered != nil {
		f.enterOnce.Do(func() { close(f.entered) })
	}
	if f.gate != nil {
		<-f.gate
	}
	f.pollMu.Lock()
	defer f.pollMu.Unlock()
	idx := f.polls
	f.polls++
	if idx >= len(f.sequence) {
		idx = len(f.sequence) - 1
	}
	return f.sequence[idx], nil
}

func job(status model.DispatchStatus) model.DispatchJob {
	return model.DispatchJob{ID: "job1", Status: status}
}

func completedJob(sent, errs int, warning string) model.DispatchJob {
	j := job(model.DispatchCompleted)
	j.Result = &model.DispatchResult{Sent: sent, Errors: errs, Warning: warning}
	return j
}

func TestSubmit_TestModeWithoutContactRejectedLocally(t *testing.T) {
	submitter := &fakeSubmitter{}
	o := NewOrchestrator(submitter, &fakeClock{}, 1, zap.NewNop())

	_, err := o.Submit(context.Background(), "link1", model.CategoryFullSchedule, true, "")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	// Zero network calls made
	assert.Equal(t, 0, submitter.submits)
	assert.Equal(t, 0, submitter.polls)
}

func TestSubmit_NoChannelsConfiguredRejectedLocally(t *testing.T) {
	submitter := &fakeSubmitter{}
	o := NewOrchestrator(submitter, &fakeClock{}, 0, zap.NewNop())

	_, err := o.Submit(context.Background(), "link1", model.CategoryFullSchedule, false, "")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, submitter.submits)
}

func TestSubmit_QueuedRunningCompleted_ExactlyThreePolls(t *testing.T) {
	submitter := &fakeSubmitter{sequence: []model.DispatchJob{
		job(model.DispatchQueued),
		job(model.DispatchRunning),
		completedJob(12, 0, ""),
	}}
	o := NewOrchestrator(submitter, &fakeClock{}, 1, zap.NewNop())

	outcome, err := o.Submit(context.Background(), "link1", model.CategoryFullSchedule, false, "")
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 3, outcome.Polls)
	assert.Equal(t, 3, submitter.polls)
	assert.False(t, outcome.PartialFailure())
	assert.Equal(t, 12, outcome.Result.Sent)
}

func TestSubmit_AllRunning_TimesOutAtAttempt120(t *testing.T) {
	submitter := &fakeSubmitter{sequence: []model.DispatchJob{job(model.DispatchRunning)}}
	o := NewOrchestrator(submitter, &fakeClock{}, 1, zap.NewNop())

	outcome, err := o.Submit(context.Background(), "link1", model.CategoryReminder1d, false, "")
	require.NoError(t, err)

	assert.Equal(t, OutcomeTimedOut, outcome.Kind)
	assert.Equal(t, 120, outcome.Polls)
	assert.Equal(t, 120, submitter.polls)
}

func TestSubmit_PartialFailureSurfacesExactCounts(t *testing.T) {
	// queued -> running x5 -> completed {sent: 8, errors: 2}
	sequence := []model.DispatchJob{job(model.DispatchQueued)}
	for i := 0; i < 5; i++ {
		sequence = append(sequence, job(model.DispatchRunning))
	}
	sequence = append(sequence, completedJob(8, 2, ""))

	submitter := &fakeSubmitter{sequence: sequence}
	o := NewOrchestrator(submitter, &fakeClock{}, 1, zap.NewNop())

	outcome, err := o.Submit(context.Background(), "link1", model.CategoryFullSchedule, false, "")
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, outcome.Kind)
	assert.True(t, outcome.PartialFailure())
	assert.Equal(t, 8, outcome.Result.Sent)
	assert.Equal(t, 2, outcome.Result.Errors)
	assert.Equal(t, 7, outcome.Polls)
}

func TestSubmit_TerminalFailureStopsImmediately(t *testing.T) {
	failed := job(model.DispatchFailed)
	failed.Error = "provider rejected the batch"
	submitter := &fakeSubmitter{sequence: []model.DispatchJob{
		job(model.DispatchQueued),
		failed,
	}}
	o := NewOrchestrator(submitter, &fakeClock{}, 1, zap.NewNop())

	outcome, err := o.Submit(context.Background(), "link1", model.CategoryFullSchedule, false, "")
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, outcome.Kind)
	assert.Equal(t, "provider rejected the batch", outcome.Error)
	assert.Equal(t, 2, outcome.Polls)
}

func TestSubmit_SameCategoryInFlightRejected(t *testing.T) {
	gate := make(chan struct{})
	submitter := &fakeSubmitter{
		sequence: []model.DispatchJob{completedJob(1, 0, "")},
		gate:     gate,
		entered:  make(chan struct{}),
	}
	o := NewOrchestrator(submitter, &fakeClock{}, 1, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := o.Submit(context.Background(), "link1", model.CategoryFullSchedule, false, "")
		done <- err
	}()

	// Wait until the first dispatch is provably in flight
	<-submitter.entered
	_, err := o.Submit(context.Background(), "link1", model.CategoryFullSchedule, false, "")
	assert.ErrorIs(t, err, ErrInFlight)

	close(gate)
	require.NoError(t, <-done)

	// Once the first dispatch finished, the category is free again
	_, err = o.Submit(context.Background(), "link1", model.CategoryFullSchedule, false, "")
	require.NoError(t, err)
}

func TestSubmit_ContextCancellationSurfacesCtxError(t *testing.T) {
	submitter := &fakeSubmitter{sequence: []model.DispatchJob{job(model.DispatchRunning)}}

	// A clock whose After never fires, so cancellation is the only exit
	ctx, cancel := context.WithCancel(context.Background())
	blocked := blockedClock{}
	o := NewOrchestrator(submitter, blocked, 1, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := o.Submit(ctx, "link1", model.CategoryFullSchedule, false, "")
		done <- err
	}()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

type blockedClock struct{}

func (blockedClock) Now() time.Time                         { return time.Time{} }
func (blockedClock) After(d time.Duration) <-chan time.Time { return make(chan time.Time) }

func TestStatus_TracksObservableProgress(t *testing.T) {
	submitter := &fakeSubmitter{sequence: []model.DispatchJob{
		job(model.DispatchRunning),
		completedJob(3, 0, ""),
	}}
	o := NewOrchestrator(submitter, &fakeClock{}, 1, zap.NewNop())

	_, err := o.Submit(context.Background(), "link1", model.CategoryFullSchedule, false, "")
	require.NoError(t, err)

	status, ok := o.Status(model.CategoryFullSchedule)
	require.True(t, ok)
	assert.Equal(t, model.DispatchCompleted, status)
}
