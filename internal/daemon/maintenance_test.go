// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/coffeeshop/internal/log"
)

func TestMaintenance_EmptySpecDisablesJob(t *testing.T) {
	m := NewMaintenance(log.WithComponent("test"))
	require.NoError(t, m.Add("noop", "", func(context.Context) error { return nil }))
	assert.Empty(t, m.Jobs())
}

func TestMaintenance_InvalidSpec(t *testing.T) {
	m := NewMaintenance(log.WithComponent("test"))
	err := m.Add("broken", "not a cron spec", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestMaintenance_RunCountsResults(t *testing.T) {
	m := NewMaintenance(log.WithComponent("test"))

	okBefore := testutil.ToFloat64(maintenanceRuns.WithLabelValues("test_job", "ok"))
	errBefore := testutil.ToFloat64(maintenanceRuns.WithLabelValues("test_job", "error"))

	m.run("test_job", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("job context must carry a deadline")
		}
		return nil
	})
	m.run("test_job", func(context.Context) error { return errors.New("disk on fire") })

	assert.Equal(t, okBefore+1, testutil.ToFloat64(maintenanceRuns.WithLabelValues("test_job", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(maintenanceRuns.WithLabelValues("test_job", "error")))
}

func TestMaintenance_RunFiresScheduledJobs(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewMaintenance(log.WithComponent("test"))
	fired := make(chan struct{}, 1)
	require.NoError(t, m.Add("tick", "@every 1s", func(context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}))
	assert.Equal(t, []string{"tick"}, m.Jobs())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled job did not fire")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestMaintenance_FailureLogCarriesEvent(t *testing.T) {
	var buf bytes.Buffer
	m := NewMaintenance(zerolog.New(&buf))

	m.run("log_job", func(context.Context) error { return errors.New("disk on fire") })

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "maintenance.job_failed", entry[log.FieldEvent])
	assert.Equal(t, "log_job", entry["job"])
	assert.Equal(t, "disk on fire", entry["error"])
}
