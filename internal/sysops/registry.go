package sysops

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrValueNotFound is returned when a registry key or value does not
// exist. Callers distinguish it from genuine read failures (permission
// denied, malformed data).
var ErrValueNotFound = errors.New("sysops: registry value not found")

// RegValue is one named registry value as reported by reg.exe.
type RegValue struct {
	Type string // REG_DWORD, REG_SZ, ...
	Data string // raw textual data, hex-prefixed for DWORDs
}

// DWord decodes the value as a 32-bit integer.
func (v RegValue) DWord() (int64, error) {
	data := strings.TrimSpace(v.Data)
	n, err := strconv.ParseInt(data, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("sysops: malformed DWORD data %q: %w", v.Data, err)
	}
	return n, nil
}

// Registry reads and writes named values of the current user's hive.
type Registry interface {
	QueryValue(ctx context.Context, key, name string) (RegValue, error)
	SetDWord(ctx context.Context, key, name string, value int64) error
	SetString(ctx context.Context, key, name, value string) error
	Subkeys(ctx context.Context, key string) ([]string, error)
}

// RegClient drives reg.exe through a Runner.
type RegClient struct {
	runner Runner
}

// NewRegClient creates a registry client backed by the given runner.
func NewRegClient(runner Runner) *RegClient {
	return &RegClient{runner: runner}
}

// QueryValue reads one named value under key. A missing key or value is
// ErrValueNotFound; any other failure is a read error.
func (c *RegClient) QueryValue(ctx context.Context, key, name string) (RegValue, error) {
	stdout, stderr, code, err := c.runner.Run(ctx, "reg.exe", "query", key, "/v", name)
	if err != nil {
		return RegValue{}, fmt.Errorf("sysops: reg query %s\\%s: %w", key, name, err)
	}
	if code != 0 {
		// reg.exe reports both "key not found" and "value not found"
		// with exit status 1.
		if code == 1 {
			return RegValue{}, ErrValueNotFound
		}
		return RegValue{}, fmt.Errorf("sysops: reg query %s\\%s: exit %d: %s", key, name, code, strings.TrimSpace(string(stderr)))
	}

	val, ok := parseRegQuery(string(stdout), name)
	if !ok {
		return RegValue{}, ErrValueNotFound
	}
	return val, nil
}

// SetDWord writes a REG_DWORD value, creating the key if needed.
func (c *RegClient) SetDWord(ctx context.Context, key, name string, value int64) error {
	return c.add(ctx, key, name, "REG_DWORD", strconv.FormatInt(value, 10))
}

// SetString writes a REG_SZ value, creating the key if needed.
func (c *RegClient) SetString(ctx context.Context, key, name, value string) error {
	return c.add(ctx, key, name, "REG_SZ", value)
}

func (c *RegClient) add(ctx context.Context, key, name, typ, data string) error {
	_, stderr, code, err := c.runner.Run(ctx, "reg.exe", "add", key, "/v", name, "/t", typ, "/d", data, "/f")
	if err != nil {
		return fmt.Errorf("sysops: reg add %s\\%s: %w", key, name, err)
	}
	if code != 0 {
		return fmt.Errorf("sysops: reg add %s\\%s: exit %d: %s", key, name, code, strings.TrimSpace(string(stderr)))
	}
	return nil
}

// Subkeys lists the immediate subkeys of key.
func (c *RegClient) Subkeys(ctx context.Context, key string) ([]string, error) {
	stdout, stderr, code, err := c.runner.Run(ctx, "reg.exe", "query", key)
	if err != nil {
		return nil, fmt.Errorf("sysops: reg query %s: %w", key, err)
	}
	if code == 1 {
		return nil, ErrValueNotFound
	}
	if code != 0 {
		return nil, fmt.Errorf("sysops: reg query %s: exit %d: %s", key, code, strings.TrimSpace(string(stderr)))
	}

	var keys []string
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimRight(line, "\r")
		// Subkeys are printed as full paths flush with the margin;
		// value lines are indented.
		if strings.HasPrefix(line, "HKEY_") && !strings.EqualFold(line, key) {
			keys = append(keys, line)
		}
	}
	return keys, nil
}

// parseRegQuery extracts the named value from `reg query /v` output:
//
//	HKEY_CURRENT_USER\...\Advanced
//	    TaskbarAl    REG_DWORD    0x0
func parseRegQuery(output, name string) (RegValue, bool) {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.EqualFold(fields[0], name) {
			continue
		}
		val := RegValue{Type: fields[1]}
		if len(fields) >= 3 {
			// Data may contain spaces (REG_SZ).
			val.Data = strings.Join(fields[2:], " ")
		}
		return val, true
	}
	return RegValue{}, false
}
