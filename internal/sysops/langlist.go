package sysops

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dokzlo13/deskmend/internal/lang"
)

// LanguageList reads and replaces the current user's language list.
// The store has no per-entry writes: Set always replaces the whole
// list, which is why callers prepare the complete updated list first.
type LanguageList interface {
	Get(ctx context.Context) ([]lang.Locale, error)
	Set(ctx context.Context, list []lang.Locale) error
}

// PSLanguageList drives the Windows language-list cmdlets through
// PowerShell, exchanging the list as compact JSON.
type PSLanguageList struct {
	runner Runner
}

// NewPSLanguageList creates a language-list store backed by the runner.
func NewPSLanguageList(runner Runner) *PSLanguageList {
	return &PSLanguageList{runner: runner}
}

const getLanguageListScript = `Get-WinUserLanguageList | ForEach-Object { [pscustomobject]@{ Tag = $_.LanguageTag; Tips = @($_.InputMethodTips) } } | ConvertTo-Json -Compress`

type psLocale struct {
	Tag  string   `json:"Tag"`
	Tips []string `json:"Tips"`
}

// Get returns the ordered user language list.
func (p *PSLanguageList) Get(ctx context.Context) ([]lang.Locale, error) {
	stdout, stderr, code, err := p.runPS(ctx, getLanguageListScript)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, fmt.Errorf("sysops: get language list: exit %d: %s", code, strings.TrimSpace(string(stderr)))
	}

	raw := strings.TrimSpace(string(stdout))
	if raw == "" {
		return nil, nil
	}
	// ConvertTo-Json emits a bare object for a single-entry list.
	if strings.HasPrefix(raw, "{") {
		raw = "[" + raw + "]"
	}

	var decoded []psLocale
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("sysops: malformed language list output: %w", err)
	}

	list := make([]lang.Locale, 0, len(decoded))
	for _, l := range decoded {
		list = append(list, lang.Locale{Tag: l.Tag, Tips: l.Tips})
	}
	return list, nil
}

// Set replaces the whole user language list in one write.
func (p *PSLanguageList) Set(ctx context.Context, list []lang.Locale) error {
	if len(list) == 0 {
		return fmt.Errorf("sysops: refusing to set an empty language list")
	}

	_, stderr, code, err := p.runPS(ctx, buildSetLanguageListScript(list))
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("sysops: set language list: exit %d: %s", code, strings.TrimSpace(string(stderr)))
	}
	return nil
}

func (p *PSLanguageList) runPS(ctx context.Context, script string) ([]byte, []byte, int, error) {
	stdout, stderr, code, err := p.runner.Run(ctx, "powershell.exe", "-NoProfile", "-NonInteractive", "-Command", script)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("sysops: powershell: %w", err)
	}
	return stdout, stderr, code, nil
}

// buildSetLanguageListScript reconstructs the full list and commits it
// with a single Set-WinUserLanguageList call. Locales without explicit
// tips keep the defaults New-WinUserLanguageList assigns.
func buildSetLanguageListScript(list []lang.Locale) string {
	var b strings.Builder
	fmt.Fprintf(&b, "$list = New-WinUserLanguageList %s;", psQuote(list[0].Tag))
	for _, l := range list[1:] {
		fmt.Fprintf(&b, " $list.Add(%s);", psQuote(l.Tag))
	}
	for i, l := range list {
		if len(l.Tips) == 0 {
			continue
		}
		fmt.Fprintf(&b, " $list[%d].InputMethodTips.Clear();", i)
		for _, tip := range l.Tips {
			fmt.Fprintf(&b, " $list[%d].InputMethodTips.Add(%s);", i, psQuote(tip))
		}
	}
	b.WriteString(" Set-WinUserLanguageList $list -Force")
	return b.String()
}

// psQuote single-quotes a string for PowerShell, doubling embedded quotes.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
