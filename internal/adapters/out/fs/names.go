package fs

import (
	"fmt"
	"path"
	"strings"

	"file-vault-api/internal/app/ports"
)

// SanitizeName reduces a client-supplied file or folder name to a
// single filesystem-safe component: directory parts, parent references
// and control characters are stripped, leading/trailing dots and
// spaces trimmed. Returns ErrInvalidInput when nothing usable remains.
func SanitizeName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(path.Clean("/" + name))

	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), " .")
	if out == "" || out == "/" {
		return "", fmt.Errorf("%w: empty name after sanitization", ports.ErrInvalidInput)
	}
	return out, nil
}

// isSafeToken reports whether a registry-assigned token (username,
// root folder) can be used as a single path component.
func isSafeToken(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, "/\\")
}
