package tmpfile

import (
	"os"
	"strings"
)

// validateName checks what can be checked before asking the OS.
//
// With files on disk the name becomes part of the filename,
// which is why 'onDisk' rejects path separators, too.
func validateName(name string, onDisk bool) error {
	if strings.IndexByte(name, 0) >= 0 {
		return &Error{Kind: ErrInvalidName, Op: "validate", Name: name}
	}
	if !onDisk {
		return nil
	}
	if strings.IndexByte(name, '/') >= 0 || strings.ContainsRune(name, os.PathSeparator) {
		return &Error{Kind: ErrInvalidName, Op: "validate", Name: name}
	}
	return nil
}
