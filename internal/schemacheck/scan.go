package schemacheck

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"llmgate/internal/common/fsutil"
)

// Usage maps a table name referenced in code to the columns referenced on it.
type Usage map[string][]string

// ScanOptions controls which files ScanCodebase reads.
type ScanOptions struct {
	// Extensions lists the file extensions to read, with leading dot.
	Extensions []string
	// SkipDirs names directories that are never descended into.
	SkipDirs []string
}

// DefaultScanOptions reads JavaScript, SQL, JSON, Python and EJS sources.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Extensions: []string{".js", ".sql", ".json", ".py", ".ejs"},
		SkipDirs:   []string{".git", "node_modules", "vendor"},
	}
}

var (
	tableRe  = regexp.MustCompile(`(?i)\bfrom\s+([A-Za-z0-9_]+)`)
	columnRe = regexp.MustCompile(`\b([A-Za-z0-9_]+)\.([A-Za-z0-9_]+)\b`)
)

// ScanCodebase walks root and records `FROM <table>` and `<table>.<column>`
// references. The scan is purely lexical, so dotted identifiers that are not
// columns (file names, object fields) are recorded too.
func ScanCodebase(root string, opts ScanOptions) (Usage, error) {
	if len(opts.Extensions) == 0 {
		opts = DefaultScanOptions()
	}
	skip := make(map[string]bool, len(opts.SkipDirs))
	for _, d := range opts.SkipDirs {
		skip[d] = true
	}
	sets := map[string]map[string]struct{}{}
	touch := func(table string) map[string]struct{} {
		s, ok := sets[table]
		if !ok {
			s = map[string]struct{}{}
			sets[table] = s
		}
		return s
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skip[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !fsutil.HasExt(d.Name(), opts.Extensions...) {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		for _, m := range tableRe.FindAllSubmatch(b, -1) {
			touch(string(m[1]))
		}
		for _, m := range columnRe.FindAllSubmatch(b, -1) {
			touch(string(m[1]))[string(m[2])] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	out := make(Usage, len(sets))
	for table, cols := range sets {
		list := make([]string, 0, len(cols))
		for c := range cols {
			list = append(list, c)
		}
		sort.Strings(list)
		out[table] = list
	}
	return out, nil
}
