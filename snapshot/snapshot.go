package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"math"

	"github.com/hupe1980/jsonlddb/codec"
	"github.com/hupe1980/jsonlddb/internal/hash"
	"github.com/hupe1980/jsonlddb/model"
)

const (
	magic = "JLDB"
	// Version is the frame format version written by Write.
	Version uint8 = 1
)

// Option configures Write.
type Option func(*options)

type options struct {
	codec       codec.Codec
	compression Compression
}

// WithCodec sets the payload codec. Default: codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithCompression sets the payload compression. Default: CompressionNone.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// IsSnapshot reports whether data starts with a snapshot frame header.
func IsSnapshot(data []byte) bool {
	return bytes.HasPrefix(data, []byte(magic))
}

// Write encodes triples as a single snapshot frame.
func Write(w io.Writer, triples iter.Seq[model.Triple], optFns ...Option) error {
	opts := options{codec: codec.Default}
	for _, fn := range optFns {
		fn(&opts)
	}

	name := opts.codec.Name()
	if name == "" || len(name) > math.MaxUint8 {
		return fmt.Errorf("snapshot: invalid codec name %q", name)
	}

	var raw bytes.Buffer
	if err := opts.codec.Encode(&raw, triples); err != nil {
		return err
	}
	payload, err := compress(raw.Bytes(), opts.compression)
	if err != nil {
		return err
	}

	header := make([]byte, 0, len(magic)+3+len(name)+12)
	header = append(header, magic...)
	header = append(header, Version, byte(opts.compression), byte(len(name)))
	header = append(header, name...)
	header = binary.LittleEndian.AppendUint64(header, uint64(len(payload)))
	header = binary.LittleEndian.AppendUint32(header, hash.CRC32C(payload))

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// Snapshot is a decoded, checksum-verified frame.
type Snapshot struct {
	name        string
	codec       codec.Codec
	compression Compression
	payload     []byte
}

// Read reads and verifies one snapshot frame from r.
func Read(r io.Reader) (*Snapshot, error) {
	var fixed [len(magic) + 3]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}
	if string(fixed[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, fixed[:len(magic)])
	}
	if v := fixed[len(magic)]; v != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	compression := Compression(fixed[len(magic)+1])

	name := make([]byte, fixed[len(magic)+2])
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("%w: codec name: %w", ErrCorrupt, err)
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	var sizes [12]byte
	if _, err := io.ReadFull(r, sizes[:]); err != nil {
		return nil, fmt.Errorf("%w: payload header: %w", ErrCorrupt, err)
	}
	size := binary.LittleEndian.Uint64(sizes[:8])
	sum := binary.LittleEndian.Uint32(sizes[8:])
	if size > math.MaxInt64 {
		return nil, fmt.Errorf("%w: payload length %d", ErrCorrupt, size)
	}

	stored, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, err
	}
	if uint64(len(stored)) != size {
		return nil, fmt.Errorf("%w: payload truncated at %d of %d bytes", ErrCorrupt, len(stored), size)
	}
	if hash.CRC32C(stored) != sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	payload, err := decompress(stored, compression)
	if err != nil {
		return nil, err
	}

	return &Snapshot{codec: c, compression: compression, payload: payload}, nil
}

// Name returns the blob name the snapshot was loaded from, if any.
func (s *Snapshot) Name() string { return s.name }

// Codec returns the payload codec.
func (s *Snapshot) Codec() codec.Codec { return s.codec }

// Compression returns the payload compression.
func (s *Snapshot) Compression() Compression { return s.compression }

// Size returns the uncompressed payload size in bytes.
func (s *Snapshot) Size() int { return len(s.payload) }

// Triples decodes the payload. Each call starts a fresh decode.
func (s *Snapshot) Triples() iter.Seq2[model.Triple, error] {
	return s.codec.Decode(bytes.NewReader(s.payload))
}
