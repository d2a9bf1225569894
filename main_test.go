package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenprep/fencesplit/internal/iotest"
)

func TestMainCmd_help(t *testing.T) {
	t.Parallel()

	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"-h"})
	assert.Zero(t, exitCode, "-h should have zero status code")
}

func TestMainCmd_version(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: &buff,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-version"})
	assert.Zero(t, exitCode, "-version should have zero status code")

	assert.Contains(t, buff.String(), "fencesplit")
	assert.Contains(t, buff.String(), _version)
}

func TestMainCmd_unknownFlag(t *testing.T) {
	t.Parallel()

	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"--this-flag-does-not-exist"})
	assert.NotZero(t, exitCode, "unknown flag should have non-zero status code")
}

// splitJSON runs the command over input with -format json
// and decodes its output.
func splitJSON(t *testing.T, input string, args ...string) []jsonSpan {
	t.Helper()

	var stdout bytes.Buffer
	cmd := mainCmd{
		Stdin:  strings.NewReader(input),
		Stdout: &stdout,
		Stderr: iotest.Writer(t),
	}
	exitCode := cmd.Run(append([]string{"-format", "json"}, args...))
	require.Zero(t, exitCode)

	var spans []jsonSpan
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &spans))
	return spans
}

func TestMainCmd_splitStdin(t *testing.T) {
	t.Parallel()

	const input = "Here is code:\n```python\nx = 1\n```\nMore text."

	spans := splitJSON(t, input)
	require.GreaterOrEqual(t, len(spans), 4)

	var joined strings.Builder
	cursor := 0
	for _, sp := range spans {
		assert.Equal(t, cursor, sp.Start, "gap or overlap at %v", sp)
		assert.Greater(t, sp.End, sp.Start, "empty span %v", sp)
		cursor = sp.End
		joined.WriteString(sp.Text)
	}
	assert.Equal(t, input, joined.String(),
		"spans must reassemble the input exactly")
}

func TestMainCmd_langOverride(t *testing.T) {
	t.Parallel()

	const input = "```python\nx = 1\n```"

	// With -lang rust, python is no longer configured:
	// the block body must stay a single opaque span.
	spans := splitJSON(t, input, "-lang", "rust")
	require.Len(t, spans, 3)
	assert.Equal(t, "x = 1\n", spans[1].Text)

	// The default configuration refines the same body.
	spans = splitJSON(t, input)
	assert.Greater(t, len(spans), 3)
}

func TestMainCmd_configFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fencesplit.json")
	require.NoError(t,
		os.WriteFile(path, []byte(`{"languages": ["rust"]}`), 0o644))

	const input = "```rust\nfn x(){}\n```"

	var stdout, stderr bytes.Buffer
	cmd := mainCmd{
		Stdin:  strings.NewReader(input),
		Stdout: &stdout,
		Stderr: &stderr,
	}
	exitCode := cmd.Run([]string{"-config", path, "-debug"})
	require.Zero(t, exitCode)

	// rust is configured but has no backend:
	// opaque block plus a diagnostic.
	assert.Contains(t, stderr.String(), `no lexer for language "rust"`)
	assert.Contains(t, stdout.String(), `"fn x(){}\n"`)
}

func TestMainCmd_files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t,
		os.WriteFile(path, []byte("plain text only"), 0o644))

	var stdout bytes.Buffer
	cmd := mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: iotest.Writer(t),
	}
	exitCode := cmd.Run([]string{path})
	require.Zero(t, exitCode)

	assert.Equal(t, "0\t15\t\"plain text only\"\n", stdout.String())
}

func TestMainCmd_missingFile(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	cmd := mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}
	exitCode := cmd.Run([]string{filepath.Join(t.TempDir(), "missing.md")})
	assert.NotZero(t, exitCode)
	assert.Contains(t, stderr.String(), "fencesplit:")
}

func TestMainCmd_badConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	var stderr bytes.Buffer
	cmd := mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}
	exitCode := cmd.Run([]string{"-config", path})
	assert.NotZero(t, exitCode)
	assert.Contains(t, stderr.String(), "parse config")
}

func TestMainCmd_debugFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "debug.log")

	const input = "```ruby\nputs 1\n```"

	var stdout bytes.Buffer
	cmd := mainCmd{
		Stdin:  strings.NewReader(input),
		Stdout: &stdout,
		Stderr: iotest.Writer(t),
	}
	exitCode := cmd.Run([]string{"-lang", "ruby", "-debug=" + path})
	require.Zero(t, exitCode)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), `no lexer for language "ruby"`)
}
