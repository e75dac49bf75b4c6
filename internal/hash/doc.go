// Package hash provides checksums for persisted snapshot payloads.
//
// # CRC32-Castagnoli (CRC32C)
//
// Snapshot frames carry a CRC32C of their payload. The Castagnoli
// polynomial is hardware accelerated on x86 (SSE4.2) and ARM (CRC
// extension) and is the checksum S3 and most storage engines expose
// natively, so blob stores can verify uploads with the same value.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
