package snapshot

import "errors"

var (
	// ErrCorrupt is returned when a frame fails header or checksum validation.
	ErrCorrupt = errors.New("corrupt snapshot")
	// ErrUnknownCodec is returned when a frame names a codec that is not registered.
	ErrUnknownCodec = errors.New("unknown snapshot codec")
	// ErrUnknownCompression is returned when a compression name cannot be parsed.
	ErrUnknownCompression = errors.New("unknown snapshot compression")
)
