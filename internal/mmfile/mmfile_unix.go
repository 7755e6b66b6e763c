//go:build unix

package mmfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// Open maps the file at path read-only.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() // the mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if err := checkSize(path, info.Size()); err != nil {
		return nil, err
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &Image{
		Path:  path,
		Data:  data,
		unmap: func() error { return unix.Munmap(data) },
	}, nil
}
