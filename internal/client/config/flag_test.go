package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "http://127.0.0.1:9090", "-i", "10", "-t", "4",
			"-d", "x.db", "-s", "memory", "-f", "local", "-n", "9", "-l", "debug", "-p"}, expectPanic: false,
			expected: &Config{
				ServerURL:           "http://127.0.0.1:9090",
				OnlineCheckInterval: 10 * time.Second,
				RequestTimeout:      4 * time.Second,
				DBPath:              "x.db",
				Store:               StoreMemory,
				FavoritesMode:       FavoritesLocal,
				RandomCount:         9,
				LogLevel:            "debug",
				Seal:                true,
			}},
		{name: "Test2 incorrect check interval", args: []string{"cmd", "-a", "http://127.0.0.1:9090", "-i", "abc"}, expectPanic: true, expected: &Config{}},
		{name: "Test3 unknown flags ignored", args: []string{"cmd", "-x", "1", "-i", "2"}, expectPanic: false,
			expected: &Config{OnlineCheckInterval: 2 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlagsLeavesCommandLineAlone(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	before := flag.CommandLine
	os.Args = []string{"cmd", "-a", "http://127.0.0.1:9090", "-l", "debug"}

	for range 2 {
		require.NotPanics(t, func() { parseFlags(&Config{}) })
	}
	assert.Same(t, before, flag.CommandLine)
	assert.Nil(t, flag.Lookup("a"))
	assert.Nil(t, flag.Lookup("l"))
}
