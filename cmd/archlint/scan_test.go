package main

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRejectsUnknownFormat(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("project", "", "")
	cmd.Flags().String("rules", "", "")
	cmd.Flags().String("format", "xml", "")
	cmd.Flags().String("output-file", "", "")
	cmd.Flags().String("env-file", "", "")
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().Bool("debug", false, "")
	cmd.SetContext(withTracker(context.Background(), nil))

	err := runScan(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--format")
}

func TestScanFailsFastWithoutSourceParser(t *testing.T) {
	oldParser := sourceParser
	defer func() { sourceParser = oldParser }()
	sourceParser = nil

	cmd := &cobra.Command{}
	cmd.Flags().String("project", t.TempDir(), "")
	cmd.Flags().String("rules", t.TempDir(), "")
	cmd.Flags().String("format", "text", "")
	cmd.Flags().String("output-file", "", "")
	cmd.Flags().String("env-file", "", "")
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().Bool("debug", false, "")
	cmd.SetContext(withTracker(context.Background(), nil))

	err := runScan(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source parser configured")
}

func TestScanFlagsRegistered(t *testing.T) {
	for _, name := range []string{"project", "rules", "format", "output-file", "env-file"} {
		assert.NotNil(t, scanCmd.Flags().Lookup(name), "expected flag %q", name)
	}
}
