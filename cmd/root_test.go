package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "seed", "districts", "export", "status"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "laundrymap", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestSeedCommand_Flags(t *testing.T) {
	for _, name := range []string{"file", "replace", "concurrency"} {
		assert.NotNil(t, seedCmd.Flags().Lookup(name), "seed should have --%s flag", name)
	}
	assert.Equal(t, "4", seedCmd.Flags().Lookup("concurrency").DefValue)
}

func TestDistrictsCommand_HasLoadSubcommand(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range districtsCmd.Commands() {
		names[c.Name()] = true
	}
	require.True(t, names["load"])

	for _, name := range []string{"input", "output", "name-field"} {
		assert.NotNil(t, districtsLoadCmd.Flags().Lookup(name), "districts load should have --%s flag", name)
	}
}

func TestExportCommand_Flags(t *testing.T) {
	flag := exportCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "laundries.xlsx", flag.DefValue)

	assert.NotNil(t, exportCmd.Flags().Lookup("format"))
	assert.NotNil(t, exportCmd.Flags().Lookup("districts"))
	assert.Equal(t, "price", exportCmd.Flags().Lookup("metric").DefValue)
}

func TestStatusCommand_Flags(t *testing.T) {
	assert.NotNil(t, statusCmd.Flags().Lookup("json"))
}
