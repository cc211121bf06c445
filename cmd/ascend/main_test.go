package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runMain(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"ascend"}, args...)

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

	stdOut := &bytes.Buffer{}
	stdErr := &bytes.Buffer{}
	exitCode := doMain(stdOut, stdErr)
	return exitCode, stdOut.String(), stdErr.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := runMain(t, []string{"version"})
	require.Equal(t, 0, code)
	require.Equal(t, version+"\n", out)
}

func TestUsage_noArgs(t *testing.T) {
	code, _, _ := runMain(t, nil)
	require.Equal(t, 0, code)
}

func TestInvalidCommand(t *testing.T) {
	code, _, stdErr := runMain(t, []string{"bogus"})
	require.Equal(t, 1, code)
	require.Contains(t, stdErr, "invalid command")
}

func TestCompile_missingFixtureFlag(t *testing.T) {
	code, _, stdErr := runMain(t, []string{"compile"})
	require.Equal(t, 1, code)
	require.Contains(t, stdErr, "Available fixtures")
}

func TestCompile_unknownFixture(t *testing.T) {
	code, _, stdErr := runMain(t, []string{"compile", "-fixture", "nope"})
	require.Equal(t, 1, code)
	require.Contains(t, stdErr, `unknown fixture "nope"`)
}

func TestCompile_addFixtureToFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "add.wasm")
	code, _, stdErr := runMain(t, []string{"compile", "-fixture", "add", "-o", outPath})
	require.Equal(t, 0, code, stdErr)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, out[:8])
}

func TestCompile_counterFixture(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "counter.wasm")
	code, _, stdErr := runMain(t, []string{"compile", "-fixture", "counter", "-o", outPath})
	require.Equal(t, 0, code, stdErr)

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(8))
}

func TestFixtureNames_sorted(t *testing.T) {
	require.Equal(t, []string{"add", "counter"}, fixtureNames())
}
