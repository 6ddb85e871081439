// Package catalog turns the loaded configuration into the ordered
// descriptor list one reconciliation pass runs over. Every location is
// resolved here, before the engine starts; descriptors themselves stay
// data only.
package catalog

import (
	"github.com/dokzlo13/deskmend/internal/config"
	"github.com/dokzlo13/deskmend/internal/lang"
	"github.com/dokzlo13/deskmend/internal/reconcile"
	"github.com/dokzlo13/deskmend/internal/settings"
	"github.com/dokzlo13/deskmend/internal/sysops"
)

// Registry locations of the reconciled user settings.
const (
	keyExplorerAdvanced = `HKCU\Software\Microsoft\Windows\CurrentVersion\Explorer\Advanced`
	keyPersonalize      = `HKCU\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`
	keyClipboard        = `HKCU\Software\Microsoft\Clipboard`
	keyUninstall        = `HKCU\Software\Microsoft\Windows\CurrentVersion\Uninstall`
	keyURLAssociations  = `HKCU\Software\Microsoft\Windows\Shell\Associations\UrlAssociations`
	keyFileExts         = `HKCU\Software\Microsoft\Windows\CurrentVersion\Explorer\FileExts`
)

// Deps are the OS capabilities the built providers drive.
type Deps struct {
	Registry  sysops.Registry
	Languages sysops.LanguageList
	Packages  sysops.PackageManager
	Shell     sysops.Shell
}

// Build assembles the descriptor list for one run. Optional dev-tool
// groups are included only when their flag is present in enabled;
// everything else is always part of the checklist. Descriptor order is
// the output order.
func Build(cfg *config.Config, deps Deps, enabled map[string]bool) []reconcile.Descriptor {
	var descriptors []reconcile.Descriptor

	descriptors = append(descriptors, browserDescriptors(cfg.Browser, deps)...)
	descriptors = append(descriptors, explorerDescriptors(cfg.Explorer, deps.Registry)...)
	descriptors = append(descriptors, localeDescriptors(cfg.Locales, deps.Languages)...)

	for _, tool := range cfg.DevTools {
		if !enabled[tool.Flag] {
			continue
		}
		descriptors = append(descriptors, reconcile.Descriptor{
			ID:         "devtool-" + tool.Flag,
			Kind:       reconcile.KindPackageInstalled,
			Desired:    reconcile.StrValue(tool.PackageID),
			Compare:    reconcile.CompareEquality,
			Provider:   settings.NewPackage(deps.Packages, tool.PackageID, tool.UserScope),
			BestEffort: true,
		})
	}

	return descriptors
}

func browserDescriptors(cfg config.BrowserConfig, deps Deps) []reconcile.Descriptor {
	var descriptors []reconcile.Descriptor

	if cfg.DisplayNamePrefix != "" && cfg.PackageID != "" {
		descriptors = append(descriptors, reconcile.Descriptor{
			ID:         "browser-installed",
			Kind:       reconcile.KindPackageInstalled,
			Desired:    reconcile.StrValue(cfg.DisplayNamePrefix),
			Compare:    reconcile.ComparePrefix,
			Provider:   settings.NewInstalledApp(deps.Registry, deps.Packages, keyUninstall, cfg.DisplayNamePrefix, cfg.PackageID, true),
			BestEffort: true,
		})
	}

	if cfg.ProgIDPrefix == "" {
		return descriptors
	}
	for _, proto := range cfg.Protocols {
		descriptors = append(descriptors, reconcile.Descriptor{
			ID:         "default-" + proto,
			Kind:       reconcile.KindDefaultAppAssociation,
			Desired:    reconcile.StrValue(cfg.ProgIDPrefix),
			Compare:    reconcile.ComparePrefix,
			Provider:   settings.NewAssociation(deps.Registry, deps.Shell, keyURLAssociations+`\`+proto+`\UserChoice`),
			BestEffort: true,
		})
	}
	for _, ext := range cfg.FileExts {
		descriptors = append(descriptors, reconcile.Descriptor{
			ID:         "default-" + ext,
			Kind:       reconcile.KindDefaultAppAssociation,
			Desired:    reconcile.StrValue(cfg.ProgIDPrefix),
			Compare:    reconcile.ComparePrefix,
			Provider:   settings.NewAssociation(deps.Registry, deps.Shell, keyFileExts+`\`+ext+`\UserChoice`),
			BestEffort: true,
		})
	}
	return descriptors
}

func explorerDescriptors(cfg config.ExplorerConfig, reg sysops.Registry) []reconcile.Descriptor {
	dword := func(id, key, name string, desired int64, restart bool) reconcile.Descriptor {
		return reconcile.Descriptor{
			ID:                   id,
			Kind:                 reconcile.KindRegistryInt,
			Desired:              reconcile.IntValue(desired),
			Compare:              reconcile.CompareEquality,
			Provider:             settings.NewRegistryInt(reg, key, name),
			RequiresShellRestart: restart,
		}
	}

	// Registry encodings: TaskbarAl 0 = left; *UsesLightTheme 0 = dark;
	// Hidden 1 = show, 2 = hide; HideFileExt 0 = show extensions.
	return []reconcile.Descriptor{
		dword("taskbar-alignment", keyExplorerAdvanced, "TaskbarAl", boolDWord(!cfg.TaskbarLeft), true),
		dword("dark-mode-apps", keyPersonalize, "AppsUseLightTheme", boolDWord(!cfg.DarkMode), false),
		dword("dark-mode-system", keyPersonalize, "SystemUsesLightTheme", boolDWord(!cfg.DarkMode), false),
		dword("clipboard-history", keyClipboard, "EnableClipboardHistory", boolDWord(cfg.ClipboardHistory), false),
		dword("show-hidden-files", keyExplorerAdvanced, "Hidden", hiddenDWord(cfg.ShowHiddenFiles), true),
		dword("show-file-extensions", keyExplorerAdvanced, "HideFileExt", boolDWord(!cfg.ShowFileExtensions), true),
	}
}

func localeDescriptors(cfg config.LocalesConfig, store sysops.LanguageList) []reconcile.Descriptor {
	var descriptors []reconcile.Descriptor

	for _, tag := range cfg.Tags {
		descriptors = append(descriptors, reconcile.Descriptor{
			ID:       "locale-" + tag,
			Kind:     reconcile.KindLocaleInstalled,
			Desired:  reconcile.StrValue(tag),
			Compare:  reconcile.CompareSetMembership,
			Provider: settings.NewLocaleInstalled(store, tag),
		})
	}

	// Input-method descriptors come after locale descriptors: the
	// second step reads the list the first one produced.
	for _, im := range cfg.InputMethods {
		descriptors = append(descriptors, reconcile.Descriptor{
			ID:       "input-method-" + im.Locale,
			Kind:     reconcile.KindInputMethodPresent,
			Desired:  reconcile.StrValue(lang.TipPrefix(im.Tip)),
			Compare:  reconcile.CompareSetMembership,
			Provider: settings.NewInputMethodPresent(store, im.Locale, im.Tip),
		})
	}
	return descriptors
}

func boolDWord(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// hiddenDWord maps the show-hidden-files intent onto Explorer's
// Hidden value, where 1 shows and 2 hides.
func hiddenDWord(show bool) int64 {
	if show {
		return 1
	}
	return 2
}
