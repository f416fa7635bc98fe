package finder

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestScanFile_SimpleCandidates(t *testing.T) {
	f := New()
	result, err := f.ScanFile(context.Background(), filepath.Join("testdata", "simple.py"))
	require.NoError(t, err)

	require.Len(t, result.Candidates, 2)

	assert.Equal(t, 2, result.Candidates[0].Line)
	assert.Equal(t, "assignment", result.Candidates[0].Kind)
	assert.Equal(t, "value", result.Candidates[0].Key)

	assert.Equal(t, 10, result.Candidates[1].Line)
	assert.Equal(t, "return_statement", result.Candidates[1].Kind)
	assert.Equal(t, "(easy)", result.Candidates[1].Key)

	assert.Equal(t, 2, result.Stats.Excepts)
	assert.Equal(t, 0, result.Stats.ExceptsWithAs)
	assert.Equal(t, 2, result.Stats.SimpleExcepts)
}

func TestScanFile_Rejections(t *testing.T) {
	f := New()
	result, err := f.ScanFile(context.Background(), filepath.Join("testdata", "rejects.py"))
	require.NoError(t, err)

	assert.Empty(t, result.Candidates)
	assert.Equal(t, 8, result.Stats.Excepts)
	assert.Equal(t, 0, result.Stats.SimpleExcepts)
}

func TestScanFile_Varieties(t *testing.T) {
	f := New()
	result, err := f.ScanFile(context.Background(), filepath.Join("testdata", "varieties.py"))
	require.NoError(t, err)

	require.Len(t, result.Candidates, 3)

	// Handler binds the failure with `as`, targets still match.
	assert.Equal(t, 2, result.Candidates[0].Line)
	assert.Equal(t, "assignment", result.Candidates[0].Kind)
	assert.Equal(t, "x", result.Candidates[0].Key)

	// Augmented assignments merge only on equal target and operator.
	assert.Equal(t, 16, result.Candidates[1].Line)
	assert.Equal(t, "augmented_assignment", result.Candidates[1].Kind)
	assert.Equal(t, "total +=", result.Candidates[1].Key)

	// Bare expression statements always share the permissive key.
	assert.Equal(t, 24, result.Candidates[2].Line)
	assert.Equal(t, "expression_statement", result.Candidates[2].Kind)
	assert.Equal(t, "(maybe)", result.Candidates[2].Key)

	assert.Equal(t, 4, result.Stats.Excepts)
	assert.Equal(t, 1, result.Stats.ExceptsWithAs)
	assert.Equal(t, 3, result.Stats.SimpleExcepts)
	assert.Equal(t, 1, result.Stats.SimpleExceptsWithAs)
}

func TestScan_Directory(t *testing.T) {
	f := New()
	report, err := f.Scan(context.Background(), []string{"testdata"}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Files)
	assert.Equal(t, 0, report.Skipped)
	assert.Len(t, report.Candidates, 5)
	assert.Equal(t, 14, report.Stats.Excepts)
	assert.Equal(t, 1, report.Stats.ExceptsWithAs)
	assert.Equal(t, 5, report.Stats.SimpleExcepts)
	assert.Equal(t, 1, report.Stats.SimpleExceptsWithAs)
}

func TestScan_Excludes(t *testing.T) {
	f := New()
	report, err := f.Scan(context.Background(), []string{"testdata"}, []string{"**/rejects.py"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 6, report.Stats.Excepts)
}

func TestResolveFiles(t *testing.T) {
	files, err := ResolveFiles([]string{"testdata", filepath.Join("testdata", "simple.py")}, nil)
	require.NoError(t, err)

	// Directory walk already found simple.py; the explicit argument must
	// not duplicate it.
	assert.Len(t, files, 3)

	_, err = ResolveFiles([]string{"testdata/no_such_file.py"}, nil)
	assert.Error(t, err)
}

func TestResolveFiles_Glob(t *testing.T) {
	files, err := ResolveFiles([]string{filepath.Join("testdata", "*.py")}, nil)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestReport_WriteText(t *testing.T) {
	r := NewReport()
	r.Candidates = []Candidate{
		{File: "a.py", Line: 3, Kind: "assignment", Key: "x"},
	}
	r.Stats = Stats{Excepts: 4, ExceptsWithAs: 1, SimpleExcepts: 2, SimpleExceptsWithAs: 1}

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "a.py:3: assignment: x")
	assert.Contains(t, out, "Of 4 except clauses, 1 use the 'as' clause: 25.0%")
	assert.Contains(t, out, "Simple excepts: 1 / 2 = 50.0%")
}

func TestReport_WriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReport().WriteText(&buf))
	assert.Empty(t, buf.String())
}

func TestReport_WriteYAML(t *testing.T) {
	r := NewReport()
	r.Files = 2
	r.Candidates = []Candidate{{File: "b.py", Line: 7, Kind: "return_statement", Key: "(easy)"}}

	var buf bytes.Buffer
	require.NoError(t, r.WriteYAML(&buf))

	var decoded Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.RunID, decoded.RunID)
	assert.Equal(t, 2, decoded.Files)
	require.Len(t, decoded.Candidates, 1)
	assert.Equal(t, "b.py", decoded.Candidates[0].File)
}

func TestShouldSkipPath(t *testing.T) {
	skipped := []string{
		filepath.Join("venv", "lib", "mod.py"),
		filepath.Join("pkg", "__pycache__", "mod.py"),
		filepath.Join(".hidden", "mod.py"),
		filepath.Join("x", "node_modules", "y.py"),
	}
	for _, path := range skipped {
		assert.True(t, shouldSkipPath(path), path)
	}

	kept := []string{
		filepath.Join("pkg", "mod.py"),
		"./toplevel.py",
	}
	for _, path := range kept {
		assert.False(t, shouldSkipPath(path), path)
	}
}

func TestCandidateString(t *testing.T) {
	c := Candidate{File: "m.py", Line: 12, Kind: "assignment", Key: "value"}
	assert.True(t, strings.HasPrefix(c.String(), "m.py:12:"))
	assert.Equal(t, "m.py:12: assignment: value", c.String())
}
