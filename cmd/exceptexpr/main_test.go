package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestEvalCommand(t *testing.T) {
	out, err := execute(t, "", "eval", "1 + 2")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestEvalCommand_Fallback(t *testing.T) {
	out, err := execute(t, "", "eval", `[1, 2][5] except IndexError: "fallback"`)
	require.NoError(t, err)
	assert.Equal(t, "\"fallback\"\n", out)
}

func TestEvalCommand_UnhandledFailure(t *testing.T) {
	_, err := execute(t, "", "eval", "1 / 0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZeroDivisionError")
}

func TestEvalCommand_Stdin(t *testing.T) {
	out, err := execute(t, "10 % 3\n", "eval")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.xp")
	prog := `items = [10, 20, 30]
total = items[0] + items[1]
total except Error: -1
`
	require.NoError(t, os.WriteFile(path, []byte(prog), 0644))

	out, err := execute(t, "", "run", path)
	require.NoError(t, err)
	assert.Equal(t, "30\n", out)
}

func TestRunCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "", "run", filepath.Join(t.TempDir(), "absent.xp"))
	require.Error(t, err)
}

func TestSourceFromArgsOrStdin(t *testing.T) {
	src, err := sourceFromArgsOrStdin([]string{"1 + 1"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "1 + 1", src)

	src, err = sourceFromArgsOrStdin(nil, strings.NewReader("  2 * 3  \n"))
	require.NoError(t, err)
	assert.Equal(t, "2 * 3", src)

	_, err = sourceFromArgsOrStdin(nil, strings.NewReader("   \n"))
	require.Error(t, err)
}
