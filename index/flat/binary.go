package flat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"unsafe"
)

const (
	// magicNumber identifies flat index blobs (ASCII: "FLT0").
	magicNumber = 0x464C5430
	// version is the current blob format version.
	version = 0x00010000
)

var (
	// ErrInvalidMagic is returned when a blob does not start with the flat
	// index magic number.
	ErrInvalidMagic = errors.New("flat: invalid magic number")
	// ErrInvalidVersion is returned for unsupported format versions.
	ErrInvalidVersion = errors.New("flat: unsupported format version")
	// ErrChecksumMismatch is returned when the blob fails CRC verification.
	ErrChecksumMismatch = errors.New("flat: checksum mismatch")
)

// blobHeader is the fixed-size header at the start of every index blob.
type blobHeader struct {
	Magic     uint32
	Version   uint32
	Dimension uint32
	RowCount  uint64
}

// WriteTo writes the index to w in binary format: a fixed header followed by
// the raw little-endian float32 rows and a trailing CRC32 (IEEE) of
// everything before it. It implements io.WriterTo.
func (x *Index) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	crc := crc32.NewIEEE()
	out := io.MultiWriter(cw, crc)

	header := blobHeader{
		Magic:     magicNumber,
		Version:   version,
		Dimension: uint32(x.opts.Dimension),
		RowCount:  uint64(x.rows),
	}
	if err := binary.Write(out, binary.LittleEndian, &header); err != nil {
		return cw.n, err
	}

	if len(x.data) > 0 {
		if _, err := out.Write(float32Bytes(x.data)); err != nil {
			return cw.n, err
		}
	}

	if err := binary.Write(cw, binary.LittleEndian, crc.Sum32()); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom replaces the index contents with a blob previously produced by
// WriteTo. It implements io.ReaderFrom. The index takes its dimension from
// the blob; normalization options are preserved.
func (x *Index) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	crc := crc32.NewIEEE()
	in := io.TeeReader(cr, crc)

	var header blobHeader
	if err := binary.Read(in, binary.LittleEndian, &header); err != nil {
		return cr.n, fmt.Errorf("flat: read header: %w", err)
	}
	if header.Magic != magicNumber {
		return cr.n, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != version {
		return cr.n, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	if header.Dimension == 0 || header.Dimension > 1<<20 {
		return cr.n, fmt.Errorf("flat: implausible dimension %d", header.Dimension)
	}
	if header.RowCount > math.MaxInt64/uint64(header.Dimension)/4 {
		return cr.n, fmt.Errorf("flat: implausible row count %d", header.RowCount)
	}

	count := int(header.RowCount) * int(header.Dimension)
	data := make([]float32, count)
	if count > 0 {
		if _, err := io.ReadFull(in, float32Bytes(data)); err != nil {
			return cr.n, fmt.Errorf("flat: read rows: %w", err)
		}
	}

	sum := crc.Sum32()
	var stored uint32
	if err := binary.Read(cr, binary.LittleEndian, &stored); err != nil {
		return cr.n, fmt.Errorf("flat: read checksum: %w", err)
	}
	if stored != sum {
		return cr.n, fmt.Errorf("%w: expected 0x%08x, got 0x%08x", ErrChecksumMismatch, stored, sum)
	}

	x.opts.Dimension = int(header.Dimension)
	x.data = data
	x.rows = int(header.RowCount)
	return cr.n, nil
}

// Read builds a new index from a blob previously produced by WriteTo.
// The dimension comes from the blob header.
func Read(r io.Reader) (*Index, error) {
	x := &Index{opts: DefaultOptions}
	if _, err := x.ReadFrom(r); err != nil {
		return nil, err
	}
	return x, nil
}

// float32Bytes reinterprets a float32 slice as raw bytes without copying.
// Rows written this way are little-endian on all supported platforms.
func float32Bytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
