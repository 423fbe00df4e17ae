// Package mmap provides read-only memory-mapped access to lookup files.
//
// A Mapping is opened per query and closed when the query completes; no
// mapping outlives the call that created it.
//
//	m, err := mmap.Open("codes.txt")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// On Unix the file is mapped with mmap(2) and the kernel is hinted with
// madvise(2). Other platforms fall back to reading the file into memory.
package mmap
