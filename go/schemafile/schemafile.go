/*
 * Schema File Loading
 *
 * Reads DDL from a file or a directory of .sql files and runs the parser
 * over it. All filesystem access goes through afero so tests run on a
 * memory filesystem.
 */

package schemafile

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/aidanmorri810/pgschemadiff/go/parser"
	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
)

// Result aggregates the parse output of one load: every table and type
// that parsed, plus per-file parse errors.
type Result struct {
	Tables []*ast.CreateTableStmt
	Types  []*ast.CreateTypeStmt
	Errors []FileError
}

// HasErrors reports whether any file produced parse errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// FileError ties a parse error to the file it came from.
type FileError struct {
	File string
	Err  parser.ParseError
}

func (e FileError) Error() string {
	return e.File + ": " + e.Err.Error()
}

// Load parses DDL from path. A directory loads every .sql file directly
// inside it, in name order; anything else is read as a single file.
func Load(fs afero.Fs, path string) (*Result, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = sqlFiles(fs, path)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .sql files in %s", path)
		}
	}

	result := &Result{}
	for _, file := range files {
		content, err := afero.ReadFile(fs, file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		parsed := parser.Parse(string(content))
		result.Tables = append(result.Tables, parsed.Tables...)
		result.Types = append(result.Types, parsed.Types...)
		for _, perr := range parsed.Errors {
			result.Errors = append(result.Errors, FileError{File: file, Err: perr})
		}
	}
	return result, nil
}

func sqlFiles(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("reading schema directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".sql") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
