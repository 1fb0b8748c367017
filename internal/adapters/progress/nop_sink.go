package progress

import (
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// NewProgressSink picks the spinner for interactive terminals and a no-op
// sink for JSON or non-interactive output
func NewProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.NonInteractive || cfg.JSON {
		return usecase.NopProgress{}
	}
	return NewSpinnerProgressReporter()
}
