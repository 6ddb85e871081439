// Package reconcile provides the reconciliation engine that makes live
// workstation settings match their declared desired state.
package reconcile

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrAbsent is returned by a Provider's Read when the target location
// exists in the store's schema but carries no value. It is a normal
// reconciliation input (treated as mismatch), not a read failure.
var ErrAbsent = errors.New("reconcile: value absent")

// Kind identifies the category of a reconcilable setting.
type Kind string

// Setting kinds
const (
	KindRegistryInt           Kind = "registry_int"
	KindRegistryString        Kind = "registry_string"
	KindPackageInstalled      Kind = "package_installed"
	KindDefaultAppAssociation Kind = "default_app_association"
	KindLocaleInstalled       Kind = "locale_installed"
	KindInputMethodPresent    Kind = "input_method_present"
)

// Comparison selects how an observed value is matched against the desired one.
type Comparison string

const (
	// CompareEquality requires an exact value match.
	CompareEquality Comparison = "equality"
	// ComparePrefix matches when the observed string starts with the
	// desired string (ProgIDs carry version/hash suffixes after the
	// vendor name).
	ComparePrefix Comparison = "prefix"
	// CompareSetMembership matches when some element of the observed
	// set starts with the desired string. Elements are matched by
	// prefix because regional input-method variants share a prefix;
	// a full tag is its own prefix, so exact members match too.
	CompareSetMembership Comparison = "set_membership"
)

// ValueKind tags the payload carried by a Value.
type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueInt
	ValueString
	ValueSet
)

// Value is the polymorphic observed/desired value of a setting:
// an integer for registry DWORDs, a string for ProgID prefixes and
// package identifiers, a set for locale tags and input-method tips.
type Value struct {
	Kind ValueKind
	Int  int64
	Str  string
	Set  []string
}

// IntValue wraps an integer setting value.
func IntValue(v int64) Value { return Value{Kind: ValueInt, Int: v} }

// StrValue wraps a string setting value.
func StrValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// SetValue wraps a set-of-strings setting value.
func SetValue(elems ...string) Value { return Value{Kind: ValueSet, Set: elems} }

// Absent is the observed value of a setting whose location holds nothing.
func Absent() Value { return Value{Kind: ValueAbsent} }

// IsAbsent reports whether the value carries no payload.
func (v Value) IsAbsent() bool { return v.Kind == ValueAbsent }

// String renders the value for human-readable output.
func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueString:
		return v.Str
	case ValueSet:
		return "[" + strings.Join(v.Set, " ") + "]"
	default:
		return "<absent>"
	}
}

// Provider is the read/write adapter for one kind of setting. Read
// returns ErrAbsent for "no value at this location"; any other error is
// a read failure and no remediation is attempted. Apply performs
// exactly one remediation of the single target location and must not
// touch any other provider's location.
type Provider interface {
	Read(ctx context.Context) (Value, error)
	Apply(ctx context.Context, desired Value) error
}

// Descriptor is the static declaration of one setting to check and
// enforce. Descriptors are data only; all behaviour lives in the
// engine and the bound Provider. IDs are unique within a run and every
// location is resolved before the engine starts.
type Descriptor struct {
	ID       string
	Kind     Kind
	Desired  Value
	Compare  Comparison
	Provider Provider

	// RequiresShellRestart marks settings whose remediation only
	// becomes visible after the desktop shell is relaunched.
	RequiresShellRestart bool

	// BestEffort marks providers whose Apply contract only guarantees
	// "action invoked", never "state changed" (interactive default-app
	// surface, package-manager launch). Their successful remediation
	// is reported at WARN, not OK.
	BestEffort bool
}

// Level is the severity of an Outcome.
type Level string

const (
	LevelOK    Level = "OK"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// RemediationResult records what happened to the single allowed
// remediation attempt of a descriptor.
type RemediationResult string

const (
	RemediationNotAttempted RemediationResult = "not_attempted"
	RemediationSucceeded    RemediationResult = "succeeded"
	RemediationFailed       RemediationResult = "failed"
)

// Outcome is the per-descriptor result of one reconciliation pass.
// Created once per descriptor, immutable after creation, never persisted
// by the engine itself.
type Outcome struct {
	SettingID   string
	Kind        Kind
	Observed    Value
	Level       Level
	Detail      string
	Remediated  bool
	Remediation RemediationResult
}

// RunContext aggregates the outcomes of one engine pass. It is scoped
// to a single invocation and discarded at process exit.
type RunContext struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Outcomes    []Outcome
	ChangesMade bool
}

// Errors counts outcomes at ERROR level.
func (rc *RunContext) Errors() int {
	n := 0
	for _, o := range rc.Outcomes {
		if o.Level == LevelError {
			n++
		}
	}
	return n
}

// Remediated counts outcomes whose remediation succeeded.
func (rc *RunContext) Remediated() int {
	n := 0
	for _, o := range rc.Outcomes {
		if o.Remediation == RemediationSucceeded {
			n++
		}
	}
	return n
}
