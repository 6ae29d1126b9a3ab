package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "minimal", cfg: Config{Root: "addons"}},
		{name: "full", cfg: Config{Root: "addons", Package: "pkg", LogLevel: "warn", LogFormat: "json", HostVersion: "4.2.1", HealthcheckPort: 8080}},
		{name: "missing root", cfg: Config{}, wantErr: "Root is a required"},
		{name: "bad level", cfg: Config{Root: "a", LogLevel: "loud"}, wantErr: "invalid log level"},
		{name: "bad format", cfg: Config{Root: "a", LogFormat: "xml"}, wantErr: "invalid log format"},
		{name: "bad host version", cfg: Config{Root: "a", HostVersion: "four"}, wantErr: "invalid host version"},
		{name: "negative port", cfg: Config{Root: "a", HealthcheckPort: -1}, wantErr: "invalid healthcheck port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Act ---
			cfg, err := NewConfig(tc.cfg)

			// --- Assert ---
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				require.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.cfg, *cfg)
		})
	}
}
