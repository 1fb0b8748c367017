package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// ErrNonInteractive is returned when a confirmation is needed but prompts are disabled
var ErrNonInteractive = errors.New("confirmation required: rerun with --yes to proceed in non-interactive mode")

// ConfirmAdapter asks y/N questions on the terminal
type ConfirmAdapter struct {
	config *config.RuntimeConfig
	// run is replaced in tests
	run func(prompt promptui.Prompt) (string, error)
}

// NewConfirmAdapter creates a new confirm adapter
func NewConfirmAdapter(cfg *config.RuntimeConfig) *ConfirmAdapter {
	return &ConfirmAdapter{
		config: cfg,
		run:    func(p promptui.Prompt) (string, error) { return p.Run() },
	}
}

// Confirm returns true only on an explicit yes
func (c *ConfirmAdapter) Confirm(_ context.Context, label string) (bool, error) {
	if c.config.AssumeYes {
		return true, nil
	}
	if c.config.NonInteractive || c.config.JSON {
		return false, ErrNonInteractive
	}

	answer, err := c.run(promptui.Prompt{Label: label, IsConfirm: true})
	if err != nil {
		// promptui reports "no" as ErrAbort
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, fmt.Errorf("interrupted")
		}
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

var _ usecase.Confirmer = (*ConfirmAdapter)(nil)
