package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{name: "all flags", args: []string{"-a", "127.0.0.1:9090", "-i", "10", "-d", "/tmp/c.db", "-l", "debug"},
			expected: &Config{RemoteAddr: "127.0.0.1:9090", OnlineCheckInterval: 10 * time.Second, DatabasePath: "/tmp/c.db", LogLevel: "debug"}},
		{name: "foreign flags ignored", args: []string{"-x", "-a=h:1", "-c", "cfg.json"},
			expected: &Config{RemoteAddr: "h:1"}},
		{name: "incorrect check interval", args: []string{"-a", "127.0.0.1:9090", "-i", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
