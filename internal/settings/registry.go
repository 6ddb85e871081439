// Package settings contains the per-kind providers that adapt OS
// mechanisms to the reconciler's read/apply contract. Each provider
// owns exactly one target location; Apply never touches anything else.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/dokzlo13/deskmend/internal/reconcile"
	"github.com/dokzlo13/deskmend/internal/sysops"
)

// RegistryInt reconciles a single REG_DWORD value.
type RegistryInt struct {
	reg  sysops.Registry
	key  string
	name string
}

// NewRegistryInt creates a DWORD provider for key\name.
func NewRegistryInt(reg sysops.Registry, key, name string) *RegistryInt {
	return &RegistryInt{reg: reg, key: key, name: name}
}

func (p *RegistryInt) Read(ctx context.Context) (reconcile.Value, error) {
	val, err := p.reg.QueryValue(ctx, p.key, p.name)
	if errors.Is(err, sysops.ErrValueNotFound) {
		return reconcile.Absent(), reconcile.ErrAbsent
	}
	if err != nil {
		return reconcile.Absent(), err
	}
	n, err := val.DWord()
	if err != nil {
		return reconcile.Absent(), fmt.Errorf("settings: %s\\%s: %w", p.key, p.name, err)
	}
	return reconcile.IntValue(n), nil
}

func (p *RegistryInt) Apply(ctx context.Context, desired reconcile.Value) error {
	return p.reg.SetDWord(ctx, p.key, p.name, desired.Int)
}

// RegistryString reconciles a single REG_SZ value.
type RegistryString struct {
	reg  sysops.Registry
	key  string
	name string
}

// NewRegistryString creates a string provider for key\name.
func NewRegistryString(reg sysops.Registry, key, name string) *RegistryString {
	return &RegistryString{reg: reg, key: key, name: name}
}

func (p *RegistryString) Read(ctx context.Context) (reconcile.Value, error) {
	val, err := p.reg.QueryValue(ctx, p.key, p.name)
	if errors.Is(err, sysops.ErrValueNotFound) {
		return reconcile.Absent(), reconcile.ErrAbsent
	}
	if err != nil {
		return reconcile.Absent(), err
	}
	return reconcile.StrValue(val.Data), nil
}

func (p *RegistryString) Apply(ctx context.Context, desired reconcile.Value) error {
	return p.reg.SetString(ctx, p.key, p.name, desired.Str)
}
