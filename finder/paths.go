package finder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// resolvePattern expands one path argument to concrete files. Plain files
// resolve to themselves, directories to every .py file beneath them, and
// glob patterns (with ** support) to their matches.
func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return []string{pattern}, nil
		}
		return walkPythonFiles(pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.IsDir() {
			sub, err := walkPythonFiles(match)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
			continue
		}
		files = append(files, match)
	}
	return files, nil
}

// walkPythonFiles collects every .py file under root, pruning skipped
// directories so virtual environments are never descended into.
func walkPythonFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && shouldSkipPath(filepath.Base(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".py") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return files, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// doublestarMatch matches path against pattern using ** semantics. Both the
// path as given and its slash form are tried so patterns work regardless of
// platform separators.
func doublestarMatch(pattern, path string) (bool, error) {
	return doublestar.Match(pattern, filepath.ToSlash(path))
}
