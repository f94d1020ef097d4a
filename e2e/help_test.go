//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpFlag(t *testing.T) {
	t.Parallel()

	if _, err := os.Stat(binPath); os.IsNotExist(err) {
		t.Skip("Test binary not found - TestMain may not have run yet")
	}

	// Not through a PTY since it exits immediately
	out, err := exec.Command(binPath, "-h").CombinedOutput()
	require.NoError(t, err, "Help flag should exit cleanly")

	output := string(out)
	require.Contains(t, output, "Usage")
	require.Contains(t, output, "-location")
	require.Contains(t, output, "-config")
}
