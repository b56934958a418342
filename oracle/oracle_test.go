package oracle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vkmc/vkmcerr"
)

func TestExternal_RateParsesLastLine(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "oracle.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho ignored\necho 0.2\n"), 0o755))

	o := NewExternal(script, dir, WithBeta(2.0))
	rate, ok, err := o.Rate([]int{0, 1}, 0, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 0.6703200460356393, rate, 1e-9) // exp(-0.2*2.0)
}

func TestExternal_NonZeroExitIsOracleError(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fail.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 1\n"), 0o755))

	o := NewExternal(script, dir)
	_, ok, err := o.Rate([]int{0}, 0, 0)
	require.False(t, ok)
	require.Error(t, err)
	oe, matched := vkmcerr.AsOracleError(err)
	require.True(t, matched)
	require.Equal(t, vkmcerr.OracleProcessFailed, oe.Kind)
}

func TestExternal_UnparseableOutputIsOracleError(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "garbage.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho not-a-number\n"), 0o755))

	o := NewExternal(script, dir)
	_, ok, err := o.Rate([]int{0}, 0, 0)
	require.False(t, ok)
	require.Error(t, err)
	oe, matched := vkmcerr.AsOracleError(err)
	require.True(t, matched)
	require.Equal(t, vkmcerr.OracleUnparseableOutput, oe.Kind)
}
