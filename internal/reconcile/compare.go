package reconcile

import "strings"

// Matches compares an observed value against the desired one under the
// given comparison mode. An absent observed value never matches.
func Matches(mode Comparison, desired, observed Value) bool {
	if observed.IsAbsent() {
		return false
	}

	switch mode {
	case CompareEquality:
		if desired.Kind != observed.Kind {
			return false
		}
		switch desired.Kind {
		case ValueInt:
			return desired.Int == observed.Int
		case ValueString:
			return desired.Str == observed.Str
		default:
			return false
		}

	case ComparePrefix:
		if desired.Kind != ValueString || observed.Kind != ValueString {
			return false
		}
		return strings.HasPrefix(observed.Str, desired.Str)

	case CompareSetMembership:
		if desired.Kind != ValueString || observed.Kind != ValueSet {
			return false
		}
		for _, elem := range observed.Set {
			if strings.HasPrefix(elem, desired.Str) {
				return true
			}
		}
		return false
	}

	return false
}
