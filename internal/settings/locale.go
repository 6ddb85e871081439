package settings

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/deskmend/internal/lang"
	"github.com/dokzlo13/deskmend/internal/reconcile"
	"github.com/dokzlo13/deskmend/internal/sysops"
)

// LocaleInstalled reconciles the presence of one locale tag in the user
// language list. The list only supports whole-list replacement, so
// Apply is read whole list, append the missing tag, write the whole
// list back.
type LocaleInstalled struct {
	store sysops.LanguageList
	tag   string
}

// NewLocaleInstalled creates a provider ensuring tag is in the list.
func NewLocaleInstalled(store sysops.LanguageList, tag string) *LocaleInstalled {
	return &LocaleInstalled{store: store, tag: tag}
}

func (p *LocaleInstalled) Read(ctx context.Context) (reconcile.Value, error) {
	list, err := p.store.Get(ctx)
	if err != nil {
		return reconcile.Absent(), err
	}
	return reconcile.SetValue(lang.Tags(list)...), nil
}

func (p *LocaleInstalled) Apply(ctx context.Context, _ reconcile.Value) error {
	list, err := p.store.Get(ctx)
	if err != nil {
		return err
	}
	updated, added := lang.EnsureLocalesPresent([]string{p.tag}, list)
	if len(added) == 0 {
		// Already present; nothing to write.
		return nil
	}
	log.Debug().Strs("added", added).Msg("Appending locales to language list")
	return p.store.Set(ctx, updated)
}

// InputMethodPresent reconciles one input-method tip on one locale.
// It runs after that locale's LocaleInstalled descriptor within the
// same pass and reads the list the earlier step produced. Presence is
// a prefix check on the tip identifier; the descriptor's desired value
// is the tip prefix while the full tip to append lives here.
type InputMethodPresent struct {
	store sysops.LanguageList
	tag   string
	tip   string
}

// NewInputMethodPresent creates a provider ensuring the locale carries
// an input method matching the prefix of tip.
func NewInputMethodPresent(store sysops.LanguageList, tag, tip string) *InputMethodPresent {
	return &InputMethodPresent{store: store, tag: tag, tip: tip}
}

func (p *InputMethodPresent) Read(ctx context.Context) (reconcile.Value, error) {
	list, err := p.store.Get(ctx)
	if err != nil {
		return reconcile.Absent(), err
	}
	i := lang.Find(list, p.tag)
	if i < 0 {
		return reconcile.Absent(), reconcile.ErrAbsent
	}
	return reconcile.SetValue(list[i].Tips...), nil
}

func (p *InputMethodPresent) Apply(ctx context.Context, _ reconcile.Value) error {
	list, err := p.store.Get(ctx)
	if err != nil {
		return err
	}
	if lang.Find(list, p.tag) < 0 {
		return fmt.Errorf("settings: locale %s not in language list, cannot attach input method", p.tag)
	}
	updated, appended := lang.EnsureInputMethodPresent(p.tag, p.tip, list)
	if !appended {
		return nil
	}
	return p.store.Set(ctx, updated)
}
