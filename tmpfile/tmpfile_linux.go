package tmpfile

// File is the variant used on this platform: memory-backed.
type File = MemFile

// New creates a temporary file that can be addressed by its Path.
//
// 'name' is cosmetic: it helps to identify the file in tools like lsof.
// It must not contain NUL bytes. Portable callers avoid path separators, too.
func New(name string) (*File, error) {
	return NewMemFile(name)
}
