package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"llmgate/internal/common/fsutil"
)

// ModelExt is the file extension of a loadable model.
const ModelExt = ".gguf"

// Entry is a model file found on disk.
type Entry struct {
	// Name is the filename without its extension, e.g. "llama2-7b.Q4_K_M".
	Name string
	// Path is the absolute file path.
	Path string
}

// LoadDir scans a directory for *.gguf files. Entries come back in filename
// order; subdirectories are not descended into.
func LoadDir(dir string) ([]Entry, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []Entry
	for _, e := range entries {
		if e.IsDir() || !fsutil.HasExt(e.Name(), ModelExt) {
			continue
		}
		out = append(out, Entry{Name: fsutil.TrimExt(e.Name()), Path: filepath.Join(abs, e.Name())})
	}
	return out, nil
}

// Find returns the entry called name, or false when no such model file exists.
func Find(dir, name string) (Entry, bool, error) {
	entries, err := LoadDir(dir)
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}
