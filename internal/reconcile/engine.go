package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Engine runs one check -> compare -> remediate -> report pass over an
// ordered descriptor list. Descriptors are independent: a failure on
// one never aborts or reverts the others, and the pass is always
// exhaustive. There is no retry loop and no post-apply re-read - a
// successful Apply is trusted as-is.
type Engine struct{}

// New creates a new Engine.
func New() *Engine {
	return &Engine{}
}

// Run processes the descriptors in list order and returns the
// aggregated RunContext. Each descriptor's provider is invoked at most
// twice: one Read, then at most one Apply on mismatch.
func (e *Engine) Run(ctx context.Context, descriptors []Descriptor) *RunContext {
	rc := &RunContext{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Outcomes:  make([]Outcome, 0, len(descriptors)),
	}

	log.Debug().Str("run_id", rc.RunID).Int("descriptors", len(descriptors)).Msg("Reconciliation pass starting")

	for _, d := range descriptors {
		outcome := e.reconcileOne(ctx, d)
		rc.Outcomes = append(rc.Outcomes, outcome)
		if d.RequiresShellRestart && outcome.Remediation == RemediationSucceeded {
			rc.ChangesMade = true
		}
	}

	rc.FinishedAt = time.Now().UTC()
	log.Debug().
		Str("run_id", rc.RunID).
		Int("errors", rc.Errors()).
		Int("remediated", rc.Remediated()).
		Bool("changes_made", rc.ChangesMade).
		Msg("Reconciliation pass finished")
	return rc
}

func (e *Engine) reconcileOne(ctx context.Context, d Descriptor) Outcome {
	observed, err := d.Provider.Read(ctx)
	switch {
	case err == nil:
		// Value observed, fall through to comparison.
	case errors.Is(err, ErrAbsent):
		// Not configured yet; every kind treats absence as mismatch.
		observed = Absent()
	default:
		// Read failure: no remediation is attempted.
		return Outcome{
			SettingID:   d.ID,
			Kind:        d.Kind,
			Observed:    Absent(),
			Level:       LevelError,
			Detail:      "read failed: " + err.Error(),
			Remediated:  false,
			Remediation: RemediationNotAttempted,
		}
	}

	if Matches(d.Compare, d.Desired, observed) {
		return Outcome{
			SettingID:   d.ID,
			Kind:        d.Kind,
			Observed:    observed,
			Level:       LevelOK,
			Detail:      "already as desired",
			Remediated:  false,
			Remediation: RemediationNotAttempted,
		}
	}

	// Mismatch: exactly one remediation attempt.
	if err := d.Provider.Apply(ctx, d.Desired); err != nil {
		return Outcome{
			SettingID:   d.ID,
			Kind:        d.Kind,
			Observed:    observed,
			Level:       LevelError,
			Detail:      "remediation failed: " + err.Error(),
			Remediated:  true,
			Remediation: RemediationFailed,
		}
	}

	level := LevelOK
	detail := "remediated"
	if d.BestEffort {
		// Apply only guarantees the action was invoked, never that the
		// state actually changed.
		level = LevelWarn
		detail = "remediation invoked (result not verifiable in this pass)"
	}
	return Outcome{
		SettingID:   d.ID,
		Kind:        d.Kind,
		Observed:    observed,
		Level:       level,
		Detail:      detail,
		Remediated:  true,
		Remediation: RemediationSucceeded,
	}
}
