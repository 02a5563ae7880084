// Package schedule runs the monthly report export on a cron schedule.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/export"
	"github.com/Veraticus/stockroom/internal/metrics"
	"github.com/Veraticus/stockroom/internal/notify"
	"github.com/Veraticus/stockroom/internal/report"
	"github.com/Veraticus/stockroom/internal/service"
)

// DefaultSchedule runs at 06:00 on the first day of every month.
const DefaultSchedule = "0 6 1 * *"

// Config controls what a run produces and when runs happen.
type Config struct {
	Location  *time.Location
	Schedule  string
	OutputDir string
	Formats   []export.Format
}

// RunResult describes one completed run.
type RunResult struct {
	Period    report.Period
	Files     []string
	Records   int
	Delivered int
}

// Scheduler exports the previous month's report on every tick.
type Scheduler struct {
	store    service.RequestStore
	notifier notify.Notifier
	schedule cron.Schedule
	logger   *slog.Logger
	config   Config
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithNotifier delivers every exported document through n.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Scheduler) {
		s.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// ParseSchedule parses a standard 5-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("%w: schedule %q: %v", common.ErrInvalidConfig, expr, err)
	}
	return sched, nil
}

// New creates a Scheduler. Empty config fields get defaults: the default
// schedule, UTC, the working directory and every export format.
func New(store service.RequestStore, config Config, opts ...Option) (*Scheduler, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: request store", common.ErrMissingConfig)
	}
	if config.Schedule == "" {
		config.Schedule = DefaultSchedule
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.OutputDir == "" {
		config.OutputDir = "."
	}
	if len(config.Formats) == 0 {
		config.Formats = export.Formats()
	}

	sched, err := ParseSchedule(config.Schedule)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		store:    store,
		schedule: sched,
		logger:   slog.Default(),
		config:   config,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Next returns the first run time after t in the configured time zone.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.config.Location))
}

// RunOnce exports the month before the one containing now. Every format is
// attempted; failures are joined into the returned error.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (*RunResult, error) {
	period := report.PeriodOf(now.In(s.config.Location)).Previous()
	result := &RunResult{Period: period}

	records, err := s.store.GetRequestsByPeriod(ctx, period, s.config.Location)
	if err != nil {
		return result, fmt.Errorf("failed to load requests for %s: %w", period, err)
	}
	result.Records = len(records)
	summary := report.Summarize(records)

	if err := os.MkdirAll(s.config.OutputDir, 0o750); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	var errs []error
	for _, format := range s.config.Formats {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		exporter, err := export.ForFormat(format)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		doc, err := export.Render(exporter, records, summary, period)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		path := filepath.Join(s.config.OutputDir, doc.FileName)
		if err := os.WriteFile(path, doc.Data, 0o600); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", path, err))
			continue
		}
		result.Files = append(result.Files, path)
		s.logger.Info("wrote report", "period", period.String(), "format", string(format), "path", path, "records", len(records))

		if s.notifier == nil {
			continue
		}
		err = s.notifier.Deliver(ctx, doc, fmt.Sprintf("Monthly request report for %s", period.Title()))
		metrics.RecordDelivery(string(format), err)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result.Delivered++
	}

	return result, errors.Join(errs...)
}

// Run blocks, running RunOnce on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.config.Location))
	c.Schedule(s.schedule, cron.FuncJob(func() {
		s.tick(ctx)
	}))

	s.logger.Info("report schedule started",
		"schedule", s.config.Schedule,
		"timezone", s.config.Location.String(),
		"next", s.Next(time.Now()).Format(time.RFC3339))

	c.Start()
	<-ctx.Done()

	// Wait for a run in progress to finish.
	<-c.Stop().Done()
	s.logger.Info("report schedule stopped")
	return nil
}

func (s *Scheduler) tick(ctx context.Context) {
	result, err := s.RunOnce(ctx, time.Now())
	metrics.RecordScheduledRun(err)
	if err != nil {
		common.LogError(s.logger, err, "scheduled report run failed", common.Fields{
			"period": result.Period.String(),
		})
		return
	}
	s.logger.Info("scheduled report run complete",
		"period", result.Period.String(),
		"records", result.Records,
		"files", len(result.Files),
		"delivered", result.Delivered,
		"next", s.Next(time.Now()).Format(time.RFC3339))
}
