package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
)

type fakeRetentionRepo struct {
	deletedRows int64
	err         error
	called      int
	lastCutoff  time.Time
}

func (f *fakeRetentionRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

func newRetentionJob(t *testing.T, repo *fakeRetentionRepo, days int) *notificationRetentionJob {
	t.Helper()
	jobIface, err := NewNotificationRetentionJob(NotificationRetentionJobParams{
		Logger:        logger.New(logger.Options{ServiceName: "test"}),
		Repository:    repo,
		RetentionDays: days,
	})
	if err != nil {
		t.Fatalf("NewNotificationRetentionJob: %v", err)
	}
	job, ok := jobIface.(*notificationRetentionJob)
	if !ok {
		t.Fatalf("unexpected job type %T", jobIface)
	}
	return job
}

func TestNotificationRetentionJobDeletesExpiredRows(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	repo := &fakeRetentionRepo{deletedRows: 42}
	job := newRetentionJob(t, repo, 30)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.UTC().Add(-30 * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestNotificationRetentionJobDefaultsRetention(t *testing.T) {
	job := newRetentionJob(t, &fakeRetentionRepo{}, 0)
	if job.retention != defaultRetentionDays {
		t.Fatalf("expected default retention %d, got %d", defaultRetentionDays, job.retention)
	}
}

func TestNotificationRetentionJobPropagatesErrors(t *testing.T) {
	repo := &fakeRetentionRepo{err: errors.New("boom")}
	job := newRetentionJob(t, repo, 30)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
