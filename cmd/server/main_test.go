package main

import (
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	t.Setenv("USERDESK_CONFIG", "")

	tests := []struct {
		name        string
		args        []string
		wantConfig  string
		wantVersion bool
	}{
		{"defaults", nil, "", false},
		{"long config", []string{"--config", "/etc/userdesk.yaml"}, "/etc/userdesk.yaml", false},
		{"short config", []string{"-c", "cfg.yaml"}, "cfg.yaml", false},
		{"version", []string{"-v"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseOptions(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, opts.Config)
			assert.Equal(t, tt.wantVersion, opts.Version)
		})
	}
}

func TestParseOptions_ConfigFromEnv(t *testing.T) {
	t.Setenv("USERDESK_CONFIG", "/from/env.yaml")

	opts, err := parseOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, "/from/env.yaml", opts.Config)
}

func TestParseOptions_UnknownFlag(t *testing.T) {
	_, err := parseOptions([]string{"--nope"})

	var flagsErr *flags.Error
	require.ErrorAs(t, err, &flagsErr)
	assert.Equal(t, flags.ErrUnknownFlag, flagsErr.Type)
}

func TestRun_Version(t *testing.T) {
	assert.NoError(t, run([]string{"--version"}))
}
