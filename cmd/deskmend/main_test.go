package main

import "testing"

func TestConfigPathFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "default", args: nil, want: "config.yaml"},
		{name: "config_separate", args: []string{"-config", "work.yaml"}, want: "work.yaml"},
		{name: "config_equals", args: []string{"--config=work.yaml"}, want: "work.yaml"},
		{name: "shorthand", args: []string{"-c", "work.yaml"}, want: "work.yaml"},
		{name: "mixed_with_group_flags", args: []string{"-git", "-config", "work.yaml", "-vscode"}, want: "work.yaml"},
		{name: "dangling_flag", args: []string{"-config"}, want: "config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := configPathFromArgs(tt.args); got != tt.want {
				t.Errorf("configPathFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}
