//go:build !linux

package tmpfile

// File is the variant used on this platform: a file in os.TempDir.
type File = DiskFile

// New creates a temporary file that can be addressed by its Path.
//
// 'name' becomes the prefix of the filename. It must neither contain NUL bytes
// nor path separators.
func New(name string) (*File, error) {
	return NewDiskFile(name)
}
