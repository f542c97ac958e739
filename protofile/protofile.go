// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protofile

import (
	"io"
	"os"
	"path/filepath"
)

const (
	// If a file is expected to be smaller than this (in bytes) no space
	// will be reserved in advance.
	reserveFileSizeThreshold = 1 << 15

	// needed for file allocations
	maxInt64 = 1<<63 - 1

	permBitsDir  = 0o750
	permBitsFile = 0o640
)

// ProtoFile is a sink for writes, which emerges as regular file on Persist.
type ProtoFile interface {
	// Zap discards a file that has not yet been persisted.
	Zap() error

	// Persist emerges the file under its final name, and closes it.
	Persist() error

	// SizeWillBe reserves space on disk for the file contents.
	SizeWillBe(numBytes uint64) error

	io.Writer
}

// IntentNew results in a sink for writes to 'dir/filename',
// which will be visible under that name only after Persist.
//
// Depending on operating- and filesystem a degraded implementation will be used.
var IntentNew func(dir, filename string) (ProtoFile, error) = intentNewUniversal

// generalizedProtoFile is a dot-file that gets renamed.
type generalizedProtoFile struct {
	*os.File

	persisted bool
	finalName string
}

func intentNewUniversal(dir, filename string) (ProtoFile, error) {
	if err := os.MkdirAll(dir, permBitsDir); err != nil {
		return nil, err
	}
	t, err := os.CreateTemp(dir, "."+filename)
	if err != nil {
		return nil, err
	}
	return &generalizedProtoFile{
		File:      t,
		finalName: filepath.Join(dir, filename),
	}, nil
}

// Zap removes the file. If it has already been persisted this is a NOP.
func (p *generalizedProtoFile) Zap() error {
	if p.persisted {
		return nil
	}
	os.Remove(p.File.Name())
	return p.File.Close()
}

// Persist renames the dot-file to its final name.
func (p *generalizedProtoFile) Persist() error {
	if err := p.File.Sync(); err != nil {
		return err
	}
	if err := p.File.Close(); err != nil {
		return err
	}
	if err := os.Rename(p.File.Name(), p.finalName); err != nil {
		return err
	}
	p.persisted = true
	return nil
}
