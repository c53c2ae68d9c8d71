package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SanitizeName reduces a client supplied file name to a safe base name:
// directories are dropped, the name is folded to NFKD ASCII, whitespace
// becomes "_", anything outside [A-Za-z0-9._-] is removed and leading dots
// are stripped. It returns "" when nothing usable is left.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		switch {
		case r > unicode.MaxASCII:
			// drops combining marks left by decomposition
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case r == '.' || r == '_' || r == '-',
			'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "._")
}

// sanitizeKey validates a stored file key. Keys are flat names; separators
// and relative components are rejected.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || filepath.Base(key) != key {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return key, nil
}
