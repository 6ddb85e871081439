package catalog

import (
	"testing"

	"github.com/dokzlo13/deskmend/internal/config"
	"github.com/dokzlo13/deskmend/internal/reconcile"
)

func testConfig() *config.Config {
	return &config.Config{
		Browser: config.BrowserConfig{
			ProgIDPrefix:      "Vivaldi",
			DisplayNamePrefix: "Vivaldi",
			PackageID:         "Vivaldi.Vivaldi",
			Protocols:         []string{"http", "https"},
			FileExts:          []string{".html"},
		},
		Explorer: config.ExplorerConfig{
			TaskbarLeft:        true,
			DarkMode:           true,
			ClipboardHistory:   true,
			ShowHiddenFiles:    true,
			ShowFileExtensions: true,
		},
		Locales: config.LocalesConfig{
			Tags: []string{"en-US", "ru-RU"},
			InputMethods: []config.InputMethodConfig{
				{Locale: "ru-RU", Tip: "0419:00000419"},
			},
		},
		DevTools: []config.DevToolConfig{
			{Name: "Git", Flag: "git", PackageID: "Git.Git", UserScope: true},
			{Name: "VS Code", Flag: "vscode", PackageID: "Microsoft.VisualStudioCode", UserScope: true},
		},
	}
}

func byID(descriptors []reconcile.Descriptor) map[string]reconcile.Descriptor {
	m := make(map[string]reconcile.Descriptor, len(descriptors))
	for _, d := range descriptors {
		m[d.ID] = d
	}
	return m
}

func TestBuildUniqueIDsAndResolvedProviders(t *testing.T) {
	descriptors := Build(testConfig(), Deps{}, map[string]bool{"git": true, "vscode": true})

	seen := make(map[string]bool)
	for _, d := range descriptors {
		if seen[d.ID] {
			t.Errorf("duplicate descriptor id %q", d.ID)
		}
		seen[d.ID] = true
		if d.Provider == nil {
			t.Errorf("descriptor %q has no provider bound", d.ID)
		}
		if d.Compare == "" {
			t.Errorf("descriptor %q has no comparison mode", d.ID)
		}
	}
}

func TestBuildDevToolsExcludedWithoutFlag(t *testing.T) {
	cfg := testConfig()

	none := byID(Build(cfg, Deps{}, nil))
	if _, ok := none["devtool-git"]; ok {
		t.Error("git group must be excluded when its flag is absent")
	}

	gitOnly := byID(Build(cfg, Deps{}, map[string]bool{"git": true}))
	if _, ok := gitOnly["devtool-git"]; !ok {
		t.Error("git group missing despite its flag")
	}
	if _, ok := gitOnly["devtool-vscode"]; ok {
		t.Error("vscode group must stay excluded")
	}
}

func TestBuildDescriptorShapes(t *testing.T) {
	m := byID(Build(testConfig(), Deps{}, nil))

	taskbar, ok := m["taskbar-alignment"]
	if !ok {
		t.Fatal("taskbar-alignment descriptor missing")
	}
	if !taskbar.RequiresShellRestart {
		t.Error("taskbar alignment must require a shell restart")
	}
	if taskbar.Desired.Int != 0 {
		t.Errorf("taskbar desired = %v, want 0 (left)", taskbar.Desired)
	}

	dark := m["dark-mode-apps"]
	if dark.Desired.Int != 0 {
		t.Errorf("dark mode desired = %v, want 0 (dark)", dark.Desired)
	}
	if dark.RequiresShellRestart {
		t.Error("theme flags apply live, no shell restart")
	}

	hidden := m["show-hidden-files"]
	if hidden.Desired.Int != 1 || !hidden.RequiresShellRestart {
		t.Errorf("show-hidden-files = %+v, want desired 1 with restart", hidden)
	}

	http := m["default-http"]
	if http.Compare != reconcile.ComparePrefix || !http.BestEffort {
		t.Errorf("default-http = %+v, want best-effort prefix match", http)
	}
	if http.Desired.Str != "Vivaldi" {
		t.Errorf("default-http desired = %v", http.Desired)
	}

	locale := m["locale-en-US"]
	if locale.Compare != reconcile.CompareSetMembership {
		t.Errorf("locale compare = %v", locale.Compare)
	}
	if locale.BestEffort || locale.RequiresShellRestart {
		t.Error("locale descriptors are verified point fixes")
	}

	tip := m["input-method-ru-RU"]
	if tip.Desired.Str != "0419:" {
		t.Errorf("input method desired = %v, want the tip prefix", tip.Desired)
	}
}

func TestBuildOrderLocalesBeforeInputMethods(t *testing.T) {
	descriptors := Build(testConfig(), Deps{}, nil)
	localeAt, tipAt := -1, -1
	for i, d := range descriptors {
		switch d.ID {
		case "locale-ru-RU":
			localeAt = i
		case "input-method-ru-RU":
			tipAt = i
		}
	}
	if localeAt < 0 || tipAt < 0 || localeAt > tipAt {
		t.Errorf("locale at %d, input method at %d: locale step must run first", localeAt, tipAt)
	}
}
