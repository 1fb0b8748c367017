package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

func TestSpinnerProgressReporter(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	r := newSpinnerProgressReporter(&out)
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageSubmitting, Message: "Submitting deployment transaction"})
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageWaiting, Message: "Waiting for 0x01", Spinner: true})
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageCompleted, Message: "done"})
	assert.False(t, r.spinner.Active())

	text := out.String()
	assert.Contains(t, text, "● Submitting Submitting deployment transaction")
	assert.Contains(t, text, "✓ Submitting")
	assert.Contains(t, text, "✓ Waiting")
}

func TestNewProgressSink(t *testing.T) {
	assert.IsType(t, usecase.NopProgress{}, NewProgressSink(&config.RuntimeConfig{JSON: true}))
	assert.IsType(t, usecase.NopProgress{}, NewProgressSink(&config.RuntimeConfig{NonInteractive: true}))
	assert.IsType(t, &SpinnerProgressReporter{}, NewProgressSink(&config.RuntimeConfig{}))
}
