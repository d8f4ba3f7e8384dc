package worker

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dancove/ministry-rota/pkg/core/model"
	"github.com/dancove/ministry-rota/pkg/db"
)

type fakeStore struct {
	claimed   *db.ClaimedJob
	published *model.ScheduleSnapshot
	roster    []model.Volunteer

	completed map[string]model.DispatchResult
	failed    map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		completed: map[string]model.DispatchResult{},
		failed:    map[string]string{},
	}
}

func (s *fakeStore) ClaimQueuedDispatch(ctx context.Context) (*db.ClaimedJob, error) {
	claimed := s.claimed
	s.claimed = nil
	return claimed, nil
}

func (s *fakeStore) GetPublished(ctx context.Context, linkID string) (*model.ScheduleSnapshot, error) {
	return s.published, nil
}

func (s *fakeStore) ListVolunteers(ctx context.Context, linkID string) ([]model.Volunteer, error) {
	return s.roster, nil
}

func (s *fakeStore) CompleteDispatch(ctx context.Context, jobID string, result model.DispatchResult) error {
	s.completed[jobID] = result
	return nil
}

func (s *fakeStore) FailDispatch(ctx context.Context, jobID, reason string) error {
	s.failed[jobID] = reason
	return nil
}

type sentSMS struct {
	to   string
	body string
}

type fakeSMS struct {
	sent    []sentSMS
	failFor map[string]bool
}

func (f *fakeSMS) SendSMS(ctx context.Context, to, body string) error {
	if f.failFor[to] {
		return fmt.Errorf("provider rejected message")
	}
	f.sent = append(f.sent, sentSMS{to: to, body: body})
	return nil
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

type fakeEmail struct {
	sent []sentEmail
}

func (f *fakeEmail) SendEmail(ctx context.Context, to, subject, body string) error {
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

func testSnapshot() *model.ScheduleSnapshot {
	return &model.ScheduleSnapshot{
		Status: model.StatusPublished,
		Slots: []model.Slot{
			{
				ID: "slot-1", Category: model.CategoryService, Label: "Sunday Service",
				Date: "2025-06-08", TimeOfDay: "morning", SortOrder: 1,
				Assignments: []model.Assignment{
					{Role: "sound", VolunteerID: "v1", VolunteerName: "Amy Archer"},
					{Role: "projection", VolunteerID: "v2", VolunteerName: "Ben Berry"},
					{Role: "stage", VolunteerID: "v3", VolunteerName: "Cara Cole"},
				},
			},
		},
	}
}

func testWorkerRoster() []model.Volunteer {
	return []model.Volunteer{
		{ID: "v1", FirstName: "Amy", LastName: "Archer", Phone: "07700900001"},
		{ID: "v2", FirstName: "Ben", LastName: "Berry", Phone: "07700900002"},
		{ID: "v3", FirstName: "Cara", LastName: "Cole", Phone: ""},
	}
}

func claimedJob(testMode bool, testContact string) *db.ClaimedJob {
	return &db.ClaimedJob{
		Job: model.DispatchJob{
			ID:       "job-1",
			Category: model.CategoryFullSchedule,
			Status:   model.DispatchRunning,
		},
		LinkID:      "link-1",
		TestMode:    testMode,
		TestContact: testContact,
	}
}

func newTestWorker(store Store, sms SMSSender, email EmailSender, digest string) *Worker {
	return New(store, sms, email, digest, "Hope Church", 1000, zap.NewNop())
}

func TestRunOnce_EmptyQueue(t *testing.T) {
	store := newFakeStore()
	w := newTestWorker(store, &fakeSMS{}, nil, "")

	processed, err := w.RunOnce(context.Background())

	require.NoError(t, err)
	assert.False(t, processed)
	assert.Empty(t, store.completed)
	assert.Empty(t, store.failed)
}

func TestRunOnce_SendsToEveryRecipientWithContact(t *testing.T) {
	store := newFakeStore()
	store.claimed = claimedJob(false, "")
	store.published = testSnapshot()
	store.roster = testWorkerRoster()
	sms := &fakeSMS{}
	w := newTestWorker(store, sms, nil, "")

	processed, err := w.RunOnce(context.Background())

	require.NoError(t, err)
	assert.True(t, processed)

	result, ok := store.completed["job-1"]
	require.True(t, ok)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, result.Errors)
	assert.Equal(t, "1 volunteers have no contact number", result.Warning)

	require.Len(t, sms.sent, 2)
	assert.Equal(t, "07700900001", sms.sent[0].to)
	assert.Contains(t, sms.sent[0].body, "Hi Amy!")
	assert.Contains(t, sms.sent[0].body, "Sunday Service")
	assert.Contains(t, sms.sent[0].body, "sound")
}

func TestRunOnce_CountsDeliveryErrors(t *testing.T) {
	store := newFakeStore()
	store.claimed = claimedJob(false, "")
	store.published = testSnapshot()
	store.roster = testWorkerRoster()
	sms := &fakeSMS{failFor: map[string]bool{"07700900002": true}}
	w := newTestWorker(store, sms, nil, "")

	_, err := w.RunOnce(context.Background())
	require.NoError(t, err)

	result := store.completed["job-1"]
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Errors)
	assert.Empty(t, store.failed, "delivery errors must not fail the job")
}

func TestRunOnce_FailsJobWhenNothingPublished(t *testing.T) {
	store := newFakeStore()
	store.claimed = claimedJob(false, "")
	w := newTestWorker(store, &fakeSMS{}, nil, "")

	processed, err := w.RunOnce(context.Background())

	require.NoError(t, err)
	assert.True(t, processed)
	assert.Empty(t, store.completed)
	assert.Contains(t, store.failed["job-1"], "no published schedule")
}

func TestRunOnce_FailsJobWithoutChannels(t *testing.T) {
	store := newFakeStore()
	store.claimed = claimedJob(false, "")
	store.published = testSnapshot()
	store.roster = testWorkerRoster()
	w := newTestWorker(store, nil, nil, "")

	_, err := w.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Contains(t, store.failed["job-1"], "no delivery channel")
}

func TestRunOnce_TestModeSendsOnlyToTestContact(t *testing.T) {
	store := newFakeStore()
	store.claimed = claimedJob(true, "07700900999")
	store.published = testSnapshot()
	store.roster = testWorkerRoster()
	sms := &fakeSMS{}
	w := newTestWorker(store, sms, nil, "")

	_, err := w.RunOnce(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, sms.sent)
	for _, msg := range sms.sent {
		assert.Equal(t, "07700900999", msg.to)
	}

	result := store.completed["job-1"]
	assert.Equal(t, 3, result.Sent, "test mode covers contactless recipients too")
	assert.Empty(t, result.Warning)
}

func TestRunOnce_EmailsDigestToCoordinator(t *testing.T) {
	store := newFakeStore()
	store.claimed = claimedJob(false, "")
	store.published = testSnapshot()
	store.roster = testWorkerRoster()
	email := &fakeEmail{}
	w := newTestWorker(store, &fakeSMS{}, email, "coordinator@example.org")

	_, err := w.RunOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "coordinator@example.org", email.sent[0].to)
	assert.Contains(t, email.sent[0].subject, "full-schedule")
	assert.Contains(t, email.sent[0].body, "Sent: 2")
	assert.Contains(t, email.sent[0].body, "Amy Archer: sent")
}
