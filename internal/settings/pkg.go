package settings

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/deskmend/internal/reconcile"
	"github.com/dokzlo13/deskmend/internal/sysops"
)

// Package reconciles the presence of one installed package. Apply
// launches a silent installer run and succeeds on a clean launch; the
// post-install state is not confirmed in the same pass, so descriptors
// built on this provider carry the BestEffort flag.
type Package struct {
	mgr       sysops.PackageManager
	id        string
	userScope bool
}

// NewPackage creates a package-presence provider for the identifier.
func NewPackage(mgr sysops.PackageManager, id string, userScope bool) *Package {
	return &Package{mgr: mgr, id: id, userScope: userScope}
}

func (p *Package) Read(ctx context.Context) (reconcile.Value, error) {
	line, err := p.mgr.Installed(ctx, p.id)
	if errors.Is(err, sysops.ErrPackageNotFound) {
		return reconcile.Absent(), reconcile.ErrAbsent
	}
	if err != nil {
		return reconcile.Absent(), err
	}
	log.Debug().Str("package", p.id).Str("installed", line).Msg("Package present")
	return reconcile.StrValue(p.id), nil
}

func (p *Package) Apply(ctx context.Context, _ reconcile.Value) error {
	return p.mgr.Install(ctx, p.id, p.userScope)
}

// InstalledApp reconciles the presence of one application by scanning
// the per-user uninstall registry subtree for an entry whose
// DisplayName starts with the configured prefix. This is the one
// dynamic lookup of a run: a single enumeration at read time, never
// repeated. Remediation installs the application through the package
// manager.
type InstalledApp struct {
	reg          sysops.Registry
	mgr          sysops.PackageManager
	uninstallKey string
	namePrefix   string
	packageID    string
	userScope    bool
}

// NewInstalledApp creates an uninstall-subtree presence provider.
func NewInstalledApp(reg sysops.Registry, mgr sysops.PackageManager, uninstallKey, namePrefix, packageID string, userScope bool) *InstalledApp {
	return &InstalledApp{
		reg:          reg,
		mgr:          mgr,
		uninstallKey: uninstallKey,
		namePrefix:   namePrefix,
		packageID:    packageID,
		userScope:    userScope,
	}
}

func (p *InstalledApp) Read(ctx context.Context) (reconcile.Value, error) {
	subkeys, err := p.reg.Subkeys(ctx, p.uninstallKey)
	if errors.Is(err, sysops.ErrValueNotFound) {
		return reconcile.Absent(), reconcile.ErrAbsent
	}
	if err != nil {
		return reconcile.Absent(), err
	}

	for _, key := range subkeys {
		val, err := p.reg.QueryValue(ctx, key, "DisplayName")
		if errors.Is(err, sysops.ErrValueNotFound) {
			continue
		}
		if err != nil {
			return reconcile.Absent(), err
		}
		if strings.HasPrefix(val.Data, p.namePrefix) {
			return reconcile.StrValue(val.Data), nil
		}
	}
	return reconcile.Absent(), reconcile.ErrAbsent
}

func (p *InstalledApp) Apply(ctx context.Context, _ reconcile.Value) error {
	return p.mgr.Install(ctx, p.packageID, p.userScope)
}
