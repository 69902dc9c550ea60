package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prophunter_backend/internal/model"
	"prophunter_backend/pkg/email"
)

type fakeCounter struct {
	counts map[model.LeadStatus]int64
	err    error
}

func (f fakeCounter) CountByStatus(ctx context.Context) (map[model.LeadStatus]int64, error) {
	return f.counts, f.err
}

type fakeSender struct {
	to   string
	data email.PipelineDigestData
}

func (f *fakeSender) SendPipelineDigest(ctx context.Context, to string, data email.PipelineDigestData) error {
	f.to = to
	f.data = data
	return nil
}

type fakeResyncer struct{}

func (fakeResyncer) Resync(ctx context.Context) error { return nil }

func TestSendDigest(t *testing.T) {
	sender := &fakeSender{}
	counter := fakeCounter{counts: map[model.LeadStatus]int64{
		model.LeadStatusNew:    4,
		model.LeadStatusClosed: 1,
	}}
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, SendDigest(context.Background(), counter, sender, "ops@example.com", now))

	assert.Equal(t, "ops@example.com", sender.to)
	assert.Equal(t, int64(5), sender.data.TotalLeads)
	assert.Equal(t, now, sender.data.Date)
	require.Len(t, sender.data.Columns, len(model.LeadStatuses))
	assert.Equal(t, email.DigestColumn{Label: "NEW", Count: 4}, sender.data.Columns[0])
}

func TestSendDigestCountError(t *testing.T) {
	sender := &fakeSender{}
	err := SendDigest(context.Background(), fakeCounter{err: errors.New("db down")}, sender, "x", time.Now())

	assert.Error(t, err)
	assert.Empty(t, sender.to)
}

func TestAddJobsValidateSpec(t *testing.T) {
	c := NewScheduler()

	assert.NoError(t, AddResyncJob(c, "*/5 * * * *", fakeResyncer{}))
	assert.Error(t, AddResyncJob(c, "every five minutes", fakeResyncer{}))
	assert.Error(t, AddDigestJob(c, "bad", fakeCounter{}, &fakeSender{}, "x"))
	assert.Len(t, c.Entries(), 1)
}
