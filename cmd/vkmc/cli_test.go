package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunThermalise_SmokeTest(t *testing.T) {
	dir := t.TempDir()
	f := runFlags{temp: 500, nsteps: 20, batch: 2, chunk: 5, seed: 1, checkpoint: filepath.Join(dir, "run.ckpt"), rateOracle: "builtin"}
	require.NoError(t, runThermalise(&f))

	_, err := os.Stat(filepath.Join(dir, "run.ckpt"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "run.ckpt.1"))
	require.NoError(t, err)
}

func TestRunTrajectory_SmokeTest(t *testing.T) {
	f := runFlags{temp: 500, nsteps: 10, batch: 1, chunk: 0, seed: 1, rateOracle: "builtin"}
	require.NoError(t, runTrajectory(&f))
}

func TestRunExpand_SmokeTest(t *testing.T) {
	f := runFlags{temp: 500, rateOracle: "builtin"}
	require.NoError(t, runExpand(&f))
}

func TestRunTrajectory_RejectsBadOracleMode(t *testing.T) {
	f := runFlags{temp: 500, nsteps: 1, rateOracle: "bogus"}
	require.Error(t, runTrajectory(&f))
}

func TestExitCodeFor(t *testing.T) {
	require.Equal(t, 0, exitCodeFor(nil))
}
