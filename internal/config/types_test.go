// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{
			name: "defaults are valid",
			cfg:  DefaultConfig(),
		},
		{
			name:    "empty modules",
			cfg:     &Config{},
			wantErr: ErrNoModules,
		},
		{
			name: "blank module identifier",
			cfg: &Config{
				Modules: []string{"volatility3.framework.contexts", "  "},
			},
			wantErr: errAny,
		},
		{
			name: "blank check name",
			cfg: &Config{
				Modules: DefaultModules,
				Checks:  []CheckEntry{{Name: "", Script: "true"}},
			},
			wantErr: ErrInvalidCheck,
		},
		{
			name: "blank check script",
			cfg: &Config{
				Modules: DefaultModules,
				Checks:  []CheckEntry{{Name: "x", Script: "  "}},
			},
			wantErr: ErrInvalidCheck,
		},
		{
			name: "duplicate check names",
			cfg: &Config{
				Modules: DefaultModules,
				Checks: []CheckEntry{
					{Name: "x", Script: "true"},
					{Name: "x", Script: "false"},
				},
			},
			wantErr: ErrInvalidCheck,
		},
		{
			name: "valid checks",
			cfg: &Config{
				Modules: DefaultModules,
				Checks: []CheckEntry{
					{Name: "vol cli", Script: "command -v vol"},
					{Name: "symbols dir", Script: "test -d \"$HOME/.cache/volatility3\""},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if tt.wantErr != errAny && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// errAny marks cases where any error is acceptable.
var errAny = errors.New("any error")

func TestDefaultConfig_CopiesModules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Modules[0] = "mutated"
	if DefaultModules[0] == "mutated" {
		t.Error("DefaultConfig() must copy DefaultModules, not alias it")
	}
}
