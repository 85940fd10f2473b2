package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobias-fritz/thermal-denaturation/dataset"
	"github.com/tobias-fritz/thermal-denaturation/synth"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DENATURE_DATA", "DENATURE_PLOT", "DENATURE_EXPORT",
		"DENATURE_MAX_ITER", "DENATURE_STRICT", "DENATURE_VERBOSE",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Chdir(t.TempDir())
}

func TestRunSynthThenAnalyze(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "sample.csv")
	plotPath := filepath.Join(dir, "sample.png")
	exportPath := filepath.Join(dir, "sample-fit.csv")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-synth", dataPath, "-seed", "9470"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), dataPath)

	tbl, err := dataset.Load(dataPath)
	require.NoError(t, err)
	assert.Equal(t, synth.SampleData(9470), tbl.Signal)

	stdout.Reset()
	code = run([]string{"-data", dataPath, "-plot", plotPath, "-export", exportPath, "-v"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "Enthalpy: ")
	assert.Contains(t, stdout.String(), "Midpoint temperature: ")
	assert.Contains(t, stdout.String(), "Residual RMS: ")
	assert.Contains(t, stderr.String(), "denature: ")

	for _, p := range []string{plotPath, exportPath} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Positive(t, info.Size(), p)
	}
}

func TestRunMissingDataFile(t *testing.T) {
	isolateEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-data", filepath.Join(t.TempDir(), "absent.csv")}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "No data file found\n", stdout.String())
}

func TestRunDefaultsFromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DENATURE_DATA", filepath.Join(t.TempDir(), "env.csv"))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitOK, run(nil, &stdout, &stderr))
	assert.Equal(t, "No data file found\n", stdout.String())
}

func TestRunMalformedData(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("temperature / K,absorbance\n300,1\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-data", path, "-plot", ""}, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "malformed schema")
}

func TestRunUsageErrors(t *testing.T) {
	tests := map[string][]string{
		"unknown flag":   {"-nope"},
		"positional arg": {"extra"},
		"bad max-iter":   {"-max-iter", "0"},
	}

	for name, argv := range tests {
		t.Run(name, func(t *testing.T) {
			isolateEnv(t)
			var stdout, stderr bytes.Buffer
			assert.Equal(t, exitUsage, run(argv, &stdout, &stderr))
		})
	}
}

func TestRunInvalidEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DENATURE_STRICT", "sometimes")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitUsage, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "DENATURE_STRICT")
}

func TestRunHelp(t *testing.T) {
	isolateEnv(t)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitOK, run([]string{"-h"}, &stdout, &stderr))
	assert.True(t, strings.HasPrefix(stderr.String(), "Usage: denature"))
}
