package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Glamslot/internal/clock"
	"github.com/codr1/Glamslot/internal/db"
	"github.com/codr1/Glamslot/internal/email"
	"github.com/codr1/Glamslot/internal/reports"
	"github.com/codr1/Glamslot/internal/revenue"
)

const (
	digestJobName        = "revenue_digest"
	cleanupJobName       = "availability_cleanup"
	cleanupCronExpr      = "15 3 * * *"
	digestJobTimeout     = 2 * time.Minute
	cleanupJobTimeout    = time.Minute
	availabilityDayShape = "2006-01-02"
)

type DigestOptions struct {
	CronExpr  string
	Recipient string
	SalonName string
}

// RegisterDigestJob schedules the revenue digest email.
func RegisterDigestJob(svc *Service, database *db.DB, sender email.EmailSender, opts DigestOptions, clk clock.Clock) error {
	if database == nil {
		return fmt.Errorf("digest job requires database")
	}
	clk = clock.OrReal(clk)

	jobLogger := log.With().
		Str("component", "revenue_digest_job").
		Str("job_name", digestJobName).
		Str("cron", opts.CronExpr).
		Logger()

	_, err := svc.AddJob(digestJobName, opts.CronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if sender == nil {
			jobLogger.Debug().Msg("Digest job skipped: email client not configured")
			return
		}
		if err := RunDigest(ctx, database.Queries, sender, opts, clk.Now()); err != nil {
			jobLogger.Error().Err(err).Msg("Revenue digest failed")
		}
	})
	return err
}

// RunDigest builds the digest as of now and emails it to opts.Recipient.
func RunDigest(ctx context.Context, q *db.Queries, sender email.EmailSender, opts DigestOptions, now time.Time) error {
	appts, err := q.ListAppointments(ctx)
	if err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}
	digest, err := reports.BuildDigest(revenue.FromAppointments(appts), now)
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}
	return email.SendDigest(ctx, sender, opts.Recipient, email.BuildDigestEmail(opts.SalonName, digest))
}

// RegisterAvailabilityCleanupJob schedules the nightly removal of past slots.
func RegisterAvailabilityCleanupJob(svc *Service, database *db.DB, clk clock.Clock) error {
	if database == nil {
		return fmt.Errorf("availability cleanup job requires database")
	}
	clk = clock.OrReal(clk)

	jobLogger := log.With().
		Str("component", "availability_cleanup_job").
		Str("job_name", cleanupJobName).
		Logger()

	_, err := svc.AddJob(cleanupJobName, cleanupCronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupJobTimeout)
		defer cancel()

		deleted, err := RunAvailabilityCleanup(ctx, database.Queries, clk.Now())
		if err != nil {
			jobLogger.Error().Err(err).Msg("Availability cleanup failed")
			return
		}
		jobLogger.Info().Int64("deleted", deleted).Msg("Past availability removed")
	})
	return err
}

// RunAvailabilityCleanup deletes slots on days before now's UTC day.
func RunAvailabilityCleanup(ctx context.Context, q *db.Queries, now time.Time) (int64, error) {
	return q.DeleteAvailabilityBefore(ctx, now.UTC().Format(availabilityDayShape))
}
