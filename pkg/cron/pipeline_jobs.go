package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"prophunter_backend/internal/model"
	"prophunter_backend/pkg/email"
)

const jobTimeout = 2 * time.Minute

type Resyncer interface {
	Resync(ctx context.Context) error
}

type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[model.LeadStatus]int64, error)
}

type DigestSender interface {
	SendPipelineDigest(ctx context.Context, to string, data email.PipelineDigestData) error
}

func NewScheduler() *cron.Cron {
	return cron.New()
}

// AddResyncJob reloads the pipeline board from the store on schedule.
func AddResyncJob(c *cron.Cron, spec string, r Resyncer) error {
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := r.Resync(ctx); err != nil {
			slog.Error("scheduled resync failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("could not schedule resync %q: %w", spec, err)
	}
	return nil
}

// AddDigestJob mails pipeline counts to one recipient on schedule.
func AddDigestJob(c *cron.Cron, spec string, counter StatusCounter, sender DigestSender, to string) error {
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := SendDigest(ctx, counter, sender, to, time.Now()); err != nil {
			slog.Error("pipeline digest failed", "to", to, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("could not schedule digest %q: %w", spec, err)
	}
	return nil
}

func SendDigest(ctx context.Context, counter StatusCounter, sender DigestSender, to string, now time.Time) error {
	counts, err := counter.CountByStatus(ctx)
	if err != nil {
		return err
	}

	data := email.PipelineDigestData{Date: now}
	for _, s := range model.LeadStatuses {
		data.Columns = append(data.Columns, email.DigestColumn{Label: string(s), Count: counts[s]})
		data.TotalLeads += counts[s]
	}
	return sender.SendPipelineDigest(ctx, to, data)
}
