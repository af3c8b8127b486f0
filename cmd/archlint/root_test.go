package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestExecuteNoArgsShowsUsage(t *testing.T) {
	oldRoot := rootCmd
	defer func() { rootCmd = oldRoot }()

	rootCmd = &cobra.Command{Use: "archlint"}
	rootCmd.AddCommand(&cobra.Command{Use: "validcommand"})

	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetArgs([]string{})
	require := assert.New(t)
	require.NoError(rootCmd.Execute())
	require.Contains(b.String(), "Usage:")
}

func TestExecuteInvalidCommandErrors(t *testing.T) {
	oldRoot := rootCmd
	defer func() { rootCmd = oldRoot }()

	rootCmd = &cobra.Command{Use: "archlint"}
	rootCmd.AddCommand(&cobra.Command{Use: "validcommand"})
	rootCmd.SetArgs([]string{"not-a-real-command"})
	assert.Error(t, Execute())
}

func TestRootCmdPersistentFlagsRegistered(t *testing.T) {
	for _, name := range []string{"disable-metrics", "no-banner", "verbose", "debug"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "expected persistent flag %q", name)
	}
}

func TestScanSubcommandRegistered(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "scan" {
			found = true
		}
	}
	assert.True(t, found, "expected scan subcommand to be registered")
}
