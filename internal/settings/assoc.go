package settings

import (
	"context"
	"errors"

	"github.com/dokzlo13/deskmend/internal/reconcile"
	"github.com/dokzlo13/deskmend/internal/sysops"
)

// Association reconciles one user default-application binding (a
// protocol handler or file-extension handler).
//
// Windows does not let user-default associations be written
// programmatically, so Apply is fire-and-forget: it opens the
// interactive default-apps surface and succeeds on invocation of that
// surface, never on a confirmed state change. The binding is not
// re-verified within the same pass; descriptors built on this provider
// carry the BestEffort flag so the asymmetry stays visible in the
// outcome level.
type Association struct {
	reg   sysops.Registry
	shell sysops.Shell
	key   string // UserChoice key holding the ProgId value
}

// NewAssociation creates a default-app provider for the UserChoice key.
func NewAssociation(reg sysops.Registry, shell sysops.Shell, userChoiceKey string) *Association {
	return &Association{reg: reg, shell: shell, key: userChoiceKey}
}

func (p *Association) Read(ctx context.Context) (reconcile.Value, error) {
	val, err := p.reg.QueryValue(ctx, p.key, "ProgId")
	if errors.Is(err, sysops.ErrValueNotFound) {
		return reconcile.Absent(), reconcile.ErrAbsent
	}
	if err != nil {
		return reconcile.Absent(), err
	}
	return reconcile.StrValue(val.Data), nil
}

func (p *Association) Apply(ctx context.Context, _ reconcile.Value) error {
	return p.shell.OpenDefaultAppsSettings(ctx)
}
