// Package mmap provides read-only memory-mapped file access.
//
// It backs blobstore.LocalStore, which serves snapshot blobs straight from
// the page cache.
//
//	f, err := mmap.Open("snapshot.jldb")
//	if err != nil { ... }
//	defer f.Close()
//
// Unix platforms use mmap(2); Windows uses CreateFileMapping/MapViewOfFile.
package mmap
