//go:build linux

package input

import "golang.org/x/sys/unix"

// fadviseSequential hints to the kernel that the file will be read
// sequentially, enlarging readahead.
// Best-effort: errors are silently ignored.
func fadviseSequential(fd int, offset, length int64) {
	_ = unix.Fadvise(fd, offset, length, unix.FADV_SEQUENTIAL)
}

// madviseSequential applies the same hint to the mapping and asks the
// kernel to start faulting it in, since every record is read once.
// Best-effort: errors are silently ignored.
func madviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	_ = unix.Madvise(data, unix.MADV_WILLNEED)
}
