// Package report renders the outcomes of one reconciliation pass and
// performs the follow-up actions the pass requested. Presentation only:
// nothing here feeds back into the engine.
package report

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/deskmend/internal/ledger"
	"github.com/dokzlo13/deskmend/internal/reconcile"
	"github.com/dokzlo13/deskmend/internal/sysops"
)

// Reporter consumes a RunContext: one leveled line per outcome, an
// optional ledger append, and a single shell restart when the run made
// restart-requiring changes.
type Reporter struct {
	shell  sysops.Shell
	ledger *ledger.Ledger // nil when the run ledger is disabled
}

// New creates a Reporter. ledger may be nil.
func New(shell sysops.Shell, l *ledger.Ledger) *Reporter {
	return &Reporter{shell: shell, ledger: l}
}

// Report renders every outcome, records the run, and triggers the shell
// restart if any remediated setting requires one. The returned error
// only reflects the restart action; rendering and ledger problems are
// logged and swallowed so the report itself always completes.
func (r *Reporter) Report(ctx context.Context, rc *reconcile.RunContext) error {
	for _, o := range rc.Outcomes {
		// Raw observed value first, verdict second.
		log.Info().
			Str("setting", o.SettingID).
			Str("observed", o.Observed.String()).
			Msg("Observed value")
		r.verdict(o)
	}

	log.Info().
		Str("run_id", rc.RunID).
		Dur("took", rc.FinishedAt.Sub(rc.StartedAt)).
		Int("settings", len(rc.Outcomes)).
		Int("remediated", rc.Remediated()).
		Int("errors", rc.Errors()).
		Msg("Run complete")

	if r.ledger != nil {
		if err := r.ledger.AppendRun(rc); err != nil {
			log.Warn().Err(err).Msg("Failed to record run in ledger")
		}
	}

	if rc.ChangesMade {
		if err := r.shell.RestartExplorer(ctx); err != nil {
			return fmt.Errorf("report: shell restart: %w", err)
		}
	}
	return nil
}

func (r *Reporter) verdict(o reconcile.Outcome) {
	var evt *zerolog.Event
	switch o.Level {
	case reconcile.LevelError:
		evt = log.Error()
	case reconcile.LevelWarn:
		evt = log.Warn()
	default:
		evt = log.Info()
	}
	evt.
		Str("setting", o.SettingID).
		Bool("remediated", o.Remediated).
		Msgf("[%s] %s", o.Level, o.Detail)
}
