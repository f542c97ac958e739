//go:build !linux

package protofile

// SizeWillBe asks the filesystem to reserve some space for this file's contents.
// This could result in a sparse file if less than anticipated gets written.
func (p *generalizedProtoFile) SizeWillBe(numBytes uint64) error {
	if numBytes <= reserveFileSizeThreshold {
		return nil
	}
	if numBytes <= maxInt64 {
		return p.Truncate(int64(numBytes))
	}
	return p.Truncate(maxInt64)
}
