package fs

import (
	"fmt"
	"path/filepath"
	"strings"

	"file-vault-api/internal/app/ports"
)

// ResolveUnder maps a client-supplied relative path onto a trusted root.
// The result is guaranteed to be the root itself or a strict descendant
// of it; anything else yields ports.ErrInvalidPath. The check runs on
// the fully normalized join, never on the raw string, so segmented or
// mixed-separator traversal ("a/../../etc", "..\\..") cannot slip
// through. Symlinks are not canonicalized here.
func ResolveUnder(root, requested string) (string, error) {
	cleanRoot := filepath.Clean(root)

	// Treat backslashes as separators too; clients are not trusted to
	// use the platform convention.
	req := filepath.FromSlash(strings.ReplaceAll(requested, "\\", "/"))
	if filepath.IsAbs(req) || filepath.VolumeName(req) != "" {
		return "", fmt.Errorf("%w: absolute path not allowed", ports.ErrInvalidPath)
	}

	joined := filepath.Clean(filepath.Join(cleanRoot, req))
	if joined != cleanRoot && !strings.HasPrefix(joined, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: escapes storage root", ports.ErrInvalidPath)
	}
	return joined, nil
}
