package lang

import (
	"reflect"
	"testing"
)

func TestEnsureLocalesPresent(t *testing.T) {
	tests := []struct {
		name      string
		desired   []string
		current   []Locale
		wantTags  []string
		wantAdded []string
	}{
		{
			name:      "union_preserves_order_and_appends_missing",
			desired:   []string{"A", "B", "C"},
			current:   []Locale{{Tag: "X"}, {Tag: "A"}},
			wantTags:  []string{"X", "A", "B", "C"},
			wantAdded: []string{"B", "C"},
		},
		{
			name:      "all_present_is_noop",
			desired:   []string{"en-US", "ru-RU"},
			current:   []Locale{{Tag: "ru-RU"}, {Tag: "en-US"}},
			wantTags:  []string{"ru-RU", "en-US"},
			wantAdded: nil,
		},
		{
			name:      "empty_current",
			desired:   []string{"en-US", "ru-RU"},
			current:   nil,
			wantTags:  []string{"en-US", "ru-RU"},
			wantAdded: []string{"en-US", "ru-RU"},
		},
		{
			name:      "case_insensitive_tag_match",
			desired:   []string{"en-us"},
			current:   []Locale{{Tag: "en-US"}},
			wantTags:  []string{"en-US"},
			wantAdded: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, added := EnsureLocalesPresent(tt.desired, tt.current)
			if got := Tags(updated); !reflect.DeepEqual(got, tt.wantTags) {
				t.Errorf("tags = %v, want %v", got, tt.wantTags)
			}
			if !reflect.DeepEqual(added, tt.wantAdded) {
				t.Errorf("added = %v, want %v", added, tt.wantAdded)
			}
		})
	}
}

func TestEnsureLocalesPresentDoesNotMutateInput(t *testing.T) {
	current := []Locale{{Tag: "en-US", Tips: []string{"0409:00000409"}}}
	updated, _ := EnsureLocalesPresent([]string{"ru-RU"}, current)
	if len(current) != 1 {
		t.Fatalf("input list mutated: %v", current)
	}
	if len(updated) != 2 {
		t.Fatalf("updated = %v, want 2 entries", updated)
	}
}

func TestEnsureInputMethodPresent(t *testing.T) {
	base := []Locale{
		{Tag: "en-US", Tips: []string{"0409:00000409"}},
		{Tag: "ru-RU"},
	}

	t.Run("appends_missing_tip", func(t *testing.T) {
		updated, appended := EnsureInputMethodPresent("ru-RU", "0419:00000419", base)
		if !appended {
			t.Fatal("tip should have been appended")
		}
		i := Find(updated, "ru-RU")
		if !reflect.DeepEqual(updated[i].Tips, []string{"0419:00000419"}) {
			t.Errorf("tips = %v, want the new tip", updated[i].Tips)
		}
		// Other locales untouched.
		if !reflect.DeepEqual(updated[0].Tips, []string{"0409:00000409"}) {
			t.Errorf("en-US tips changed: %v", updated[0].Tips)
		}
	})

	t.Run("prefix_variant_counts_as_present", func(t *testing.T) {
		list := []Locale{{Tag: "ru-RU", Tips: []string{"0419:00010419"}}}
		updated, appended := EnsureInputMethodPresent("ru-RU", "0419:00000419", list)
		if appended {
			t.Error("regional variant shares the tip prefix, nothing to append")
		}
		if !reflect.DeepEqual(updated[0].Tips, []string{"0419:00010419"}) {
			t.Errorf("tips = %v, want unchanged", updated[0].Tips)
		}
	})

	t.Run("missing_locale_is_noop", func(t *testing.T) {
		_, appended := EnsureInputMethodPresent("ja-JP", "0411:00000411", base)
		if appended {
			t.Error("tip must not be appended for a locale not in the list")
		}
	})

	t.Run("input_not_mutated", func(t *testing.T) {
		_, _ = EnsureInputMethodPresent("ru-RU", "0419:00000419", base)
		if len(base[1].Tips) != 0 {
			t.Errorf("input tips mutated: %v", base[1].Tips)
		}
	})
}
