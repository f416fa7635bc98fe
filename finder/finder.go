package finder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Finder locates try/except statements that could be rewritten as
// except-expressions. A statement qualifies when the try body and every
// handler body hold exactly one statement each, the statements are of the
// same kind, their comparison keys agree, and the statement carries no
// else or finally clause.
type Finder struct {
	parser  *sitter.Parser
	logger  *slog.Logger
	verbose bool

	// unknown tracks statement kinds with no comparison rule so each is
	// reported once per run.
	unknown map[string]bool
}

// Option configures a Finder.
type Option func(*Finder)

// WithLogger sets the logger used for skipped files and unknown kinds.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) { f.logger = logger }
}

// WithVerbose enables logging of files that fail to parse.
func WithVerbose(verbose bool) Option {
	return func(f *Finder) { f.verbose = verbose }
}

// New creates a Finder backed by a tree-sitter Python parser.
func New(opts ...Option) *Finder {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())

	f := &Finder{
		parser:  p,
		logger:  slog.Default(),
		unknown: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Scan resolves the given path patterns to Python files and analyzes each
// one. Files that cannot be read or parsed are counted as skipped; the scan
// continues with the remaining files.
func (f *Finder) Scan(ctx context.Context, patterns []string, excludes []string) (*Report, error) {
	files, err := ResolveFiles(patterns, excludes)
	if err != nil {
		return nil, err
	}

	report := NewReport()
	for _, path := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result, err := f.ScanFile(ctx, path)
		if err != nil {
			report.Skipped++
			if f.verbose {
				f.logger.Warn("skipping file", "path", path, "error", err)
			}
			continue
		}

		report.Files++
		report.Candidates = append(report.Candidates, result.Candidates...)
		report.Stats.add(result.Stats)
	}

	return report, nil
}

// FileResult holds the candidates and statistics for a single file.
type FileResult struct {
	Path       string
	Candidates []Candidate
	Stats      Stats
}

// ScanFile analyzes one Python file.
func (f *Finder) ScanFile(ctx context.Context, path string) (*FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	tree, err := f.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}
	defer tree.Close()

	result := &FileResult{Path: path}
	f.walk(tree.RootNode(), content, result)
	return result, nil
}

// walk visits every node in the tree, analyzing try statements as it finds
// them.
func (f *Finder) walk(node *sitter.Node, src []byte, result *FileResult) {
	if node.Type() == "try_statement" {
		f.analyzeTry(node, src, result)
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		f.walk(node.NamedChild(i), src, result)
	}
}

// handler is one except clause of a try statement.
type handler struct {
	body  *sitter.Node
	hasAs bool
}

// analyzeTry applies the candidacy rules to a single try statement and
// updates the per-file statistics.
func (f *Finder) analyzeTry(node *sitter.Node, src []byte, result *FileResult) {
	var handlers []handler
	hasOther := false // else, finally, or except* present

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "except_clause":
			h, ok := splitExceptClause(child)
			if !ok {
				return
			}
			handlers = append(handlers, h)
			result.Stats.Excepts++
			if h.hasAs {
				result.Stats.ExceptsWithAs++
			}
		case "else_clause", "finally_clause", "except_group_clause":
			hasOther = true
		}
	}

	if len(handlers) != 1 || hasOther {
		return
	}

	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() != 1 {
		return
	}
	tryStmt := body.NamedChild(0)

	h := handlers[0]
	if h.body.NamedChildCount() != 1 {
		return
	}
	handlerStmt := h.body.NamedChild(0)

	tryKind, tryKey, ok := f.compareKey(tryStmt, src)
	if !ok {
		return
	}
	handlerKind, handlerKey, ok := f.compareKey(handlerStmt, src)
	if !ok {
		return
	}
	if tryKind != handlerKind || tryKey != handlerKey {
		return
	}

	result.Stats.SimpleExcepts++
	if h.hasAs {
		result.Stats.SimpleExceptsWithAs++
	}

	result.Candidates = append(result.Candidates, Candidate{
		File: result.Path,
		Line: int(node.StartPoint().Row) + 1,
		Kind: tryKind,
		Key:  tryKey,
	})
}

// splitExceptClause picks apart an except clause: its named children are
// zero, one, or two expressions followed by the handler block. Two
// expressions means the failure is bound with `as`. A clause with no block
// (syntactically broken input) disqualifies the whole statement.
func splitExceptClause(clause *sitter.Node) (handler, bool) {
	var h handler
	exprs := 0
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		if child.Type() == "block" {
			h.body = child
		} else {
			exprs++
		}
	}
	if h.body == nil {
		return handler{}, false
	}
	h.hasAs = exprs == 2
	return h, true
}

// compareKey classifies a statement and returns the key two statements must
// share to be merged into one except-expression. The bool reports whether
// the statement kind is expressible at all.
//
// Assignments must target the same names; augmented assignments must also
// use the same operator. Returns always merge. Bare expressions might merge,
// so they get a permissive shared key. Imports, pass, raise, and control
// flow can never be written as expressions.
func (f *Finder) compareKey(stmt *sitter.Node, src []byte) (kind, key string, ok bool) {
	switch stmt.Type() {
	case "expression_statement":
		if stmt.NamedChildCount() != 1 {
			return "", "", false
		}
		inner := stmt.NamedChild(0)
		switch inner.Type() {
		case "assignment":
			left := inner.ChildByFieldName("left")
			if left == nil {
				return "", "", false
			}
			return "assignment", left.Content(src), true
		case "augmented_assignment":
			left := inner.ChildByFieldName("left")
			op := inner.ChildByFieldName("operator")
			if left == nil || op == nil {
				return "", "", false
			}
			return "augmented_assignment", left.Content(src) + " " + op.Content(src), true
		default:
			return "expression_statement", "(maybe)", true
		}
	case "return_statement":
		return "return_statement", "(easy)", true
	case "import_statement", "import_from_statement", "future_import_statement",
		"pass_statement", "raise_statement", "if_statement", "for_statement",
		"while_statement", "with_statement", "try_statement", "delete_statement",
		"assert_statement", "global_statement", "nonlocal_statement",
		"break_statement", "continue_statement", "function_definition",
		"class_definition", "decorated_definition":
		return "", "", false
	default:
		if !f.unknown[stmt.Type()] {
			f.unknown[stmt.Type()] = true
			f.logger.Warn("no comparison rule for statement kind", "kind", stmt.Type())
		}
		return "", "", false
	}
}

// ResolveFiles expands path arguments to a deduplicated list of Python
// files. An argument may be a file, a directory (searched recursively), or
// a glob pattern with doublestar support. Hidden directories, virtual
// environments, and build output are skipped, as are paths matching any
// exclude pattern.
func ResolveFiles(patterns []string, excludes []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if seen[path] || !strings.HasSuffix(path, ".py") {
			return
		}
		if shouldSkipPath(path) || matchesAny(excludes, path) {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, pattern := range patterns {
		matches, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			add(m)
		}
	}

	return files, nil
}

// shouldSkipPath reports whether any path component marks the file as
// generated, vendored, or environment-local.
func shouldSkipPath(path string) bool {
	parts := strings.Split(path, string(filepath.Separator))
	for _, part := range parts {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
		switch part {
		case "venv", "env", "__pycache__", "node_modules", "vendor",
			"dist", "build", "site-packages":
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestarMatch(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
