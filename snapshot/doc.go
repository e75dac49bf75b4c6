// Package snapshot persists triple sets as self-describing binary frames.
//
// A snapshot frame is laid out as
//
//	magic "JLDB" | version u8 | compression u8 | codec name len u8 | codec name |
//	payload len u64 | crc32c(payload) u32 | payload
//
// where payload is the codec output, optionally compressed with LZ4 or
// Zstandard. All integers are little-endian. The checksum covers the
// stored (compressed) bytes, so corruption is detected before
// decompression.
//
// Save, Load, Publish and LoadCurrent move frames through a
// blobstore.BlobStore; Publish also repoints the CURRENT blob.
package snapshot
