// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"

	xglog "github.com/ManuGH/coffeeshop/internal/log"
	"github.com/ManuGH/coffeeshop/internal/telemetry"
)

// jobTimeout bounds a single maintenance run.
const jobTimeout = 2 * time.Minute

var maintenanceRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "coffeeshop_maintenance_runs_total",
	Help: "Maintenance job runs by job and result",
}, []string{"job", "result"})

// JobFunc is a maintenance task. Errors are logged, never fatal.
type JobFunc func(ctx context.Context) error

// Maintenance runs periodic background jobs on cron schedules.
type Maintenance struct {
	cron   *cron.Cron
	logger zerolog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	jobs   []string
}

// NewMaintenance creates an idle scheduler.
func NewMaintenance(logger zerolog.Logger) *Maintenance {
	ctx, cancel := context.WithCancel(context.Background())
	return &Maintenance{
		cron:   cron.New(),
		logger: logger.With().Str("component", "maintenance").Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add schedules fn under name. An empty spec leaves the job disabled.
func (m *Maintenance) Add(name, spec string, fn JobFunc) error {
	if spec == "" {
		m.logger.Info().Str("job", name).Str(xglog.FieldEvent, "maintenance.job_disabled").Msg("maintenance job disabled")
		return nil
	}
	if _, err := m.cron.AddFunc(spec, func() { m.run(name, fn) }); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	m.mu.Lock()
	m.jobs = append(m.jobs, name)
	m.mu.Unlock()
	return nil
}

// Jobs returns the names of the scheduled jobs.
func (m *Maintenance) Jobs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.jobs...)
}

// Run starts the scheduler and blocks until ctx is done. Running jobs are
// cancelled and awaited before it returns.
func (m *Maintenance) Run(ctx context.Context) error {
	m.cron.Start()
	m.logger.Info().Strs("jobs", m.Jobs()).Msg("maintenance scheduler started")

	<-ctx.Done()

	m.cancel()
	<-m.cron.Stop().Done()
	m.logger.Info().Msg("maintenance scheduler stopped")
	return nil
}

func (m *Maintenance) run(name string, fn JobFunc) {
	ctx, cancel := context.WithTimeout(m.ctx, jobTimeout)
	defer cancel()

	ctx, span := telemetry.Tracer("coffeeshop-maintenance").Start(ctx, "maintenance."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(telemetry.ErrorAttributes(err)...)
		m.logger.Warn().
			Err(err).
			Str("job", name).
			Str(xglog.FieldEvent, "maintenance.job_failed").
			Dur("duration", time.Since(start)).
			Msg("maintenance job failed")
	} else {
		m.logger.Debug().
			Str("job", name).
			Str(xglog.FieldEvent, "maintenance.job_done").
			Dur("duration", time.Since(start)).
			Msg("maintenance job completed")
	}
	span.SetAttributes(telemetry.JobAttributes(name, status)...)
	maintenanceRuns.WithLabelValues(name, status).Inc()
}
