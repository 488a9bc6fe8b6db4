package fs

import (
	"errors"
	"io/fs"
	"sort"
	"strings"

	"file-vault-api/internal/app/ports"
	stdos "os"
)

// ListEntries enumerates the immediate children of an already resolved
// directory. A directory that does not exist yet lists as empty, and an
// entry that cannot be classified is skipped; partial results beat a
// failed listing.
func ListEntries(fsys ports.FilesystemService, resolvedDir string) ([]ports.DirectoryEntry, error) {
	raw, err := fsys.ReadDir(resolvedDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ports.DirectoryEntry{}, nil
		}
		return nil, err
	}

	entries := make([]ports.DirectoryEntry, 0, len(raw))
	for _, e := range raw {
		// ignore symlinks: DirEntry.Type doesn't follow them
		if e.Type()&stdos.ModeSymlink != 0 {
			continue
		}
		if _, err := e.Info(); err != nil {
			continue
		}
		entries = append(entries, ports.DirectoryEntry{
			Name:         e.Name(),
			IsDir:        e.IsDir(),
			RelativePath: e.Name(),
		})
	}
	SortEntries(entries)
	return entries, nil
}

// SortEntries orders directories before files, each group
// case-insensitively by name, ties by the raw name for determinism.
func SortEntries(entries []ports.DirectoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		al, bl := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if al != bl {
			return al < bl
		}
		return a.Name < b.Name
	})
}
