package storage

import (
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// SanitizeFilename reduces a client-supplied name to a single safe path
// element. It returns "" when nothing usable remains.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	name = strings.TrimLeft(strings.TrimSpace(name), ".")
	if name == "" || name == "/" {
		return ""
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return ""
		}
	}
	return name
}

// NewKey returns a fresh storage key that keeps the lower-cased extension of
// filename, e.g. "3f0c...-....png".
func NewKey(filename string) string {
	return uuid.NewString() + extension(filename)
}

// ValidKey reports whether key is a single path element NewKey could produce.
func ValidKey(key string) bool {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(key, extension(key)))
	return err == nil
}

func extension(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
