package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ExpandPaths replaces each directory in paths with the regular files directly
// inside it, sorted by name. Hidden entries are skipped. Files keep their
// position and duplicates are dropped.
func ExpandPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		p = ResolvePath(p)
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			// Missing files are reported by the loader.
			add(p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", p, err)
		}
		var files []string
		for _, entry := range entries {
			if isHidden(entry.Name()) || !entry.Type().IsRegular() {
				continue
			}
			files = append(files, filepath.Join(p, entry.Name()))
		}
		sort.Strings(files)
		for _, f := range files {
			add(f)
		}
	}

	return out, nil
}
