package persistence

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used for record blobs.
type CompressionType uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Frame format: [Type uint8][UncompressedSize uint32][Payload...].
// The type byte records the algorithm actually used; an incompressible
// payload is stored with CompressionNone regardless of the requested type.
const frameHeaderSize = 5

// compressFrame wraps data in a compression frame.
func compressFrame(data []byte, compressionType CompressionType) ([]byte, error) {
	stored := data
	used := CompressionNone

	switch compressionType {
	case CompressionNone:
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		compressed := make([]byte, bound)
		n, err := lz4.CompressBlock(data, compressed, nil)
		if err != nil {
			return nil, err
		}
		// n == 0 means incompressible; keep the raw payload.
		if n > 0 && n < len(data) {
			stored = compressed[:n]
			used = CompressionLZ4
		}
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed := enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
		if len(compressed) < len(data) {
			stored = compressed
			used = CompressionZSTD
		}
	default:
		return nil, fmt.Errorf("persistence: unknown compression type %d", compressionType)
	}

	out := make([]byte, frameHeaderSize+len(stored))
	out[0] = byte(used)
	binary.LittleEndian.PutUint32(out[1:], uint32(len(data)))
	copy(out[frameHeaderSize:], stored)
	return out, nil
}

// decompressFrame unwraps a compression frame.
func decompressFrame(frame []byte) ([]byte, error) {
	if len(frame) < frameHeaderSize {
		return nil, fmt.Errorf("%w: frame too small for header", ErrCorruptData)
	}

	used := CompressionType(frame[0])
	uncompressedSize := binary.LittleEndian.Uint32(frame[1:])
	payload := frame[frameHeaderSize:]

	switch used {
	case CompressionNone:
		if uint32(len(payload)) != uncompressedSize {
			return nil, fmt.Errorf("%w: raw payload size mismatch", ErrCorruptData)
		}
		return payload, nil

	case CompressionLZ4:
		result := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %s", ErrCorruptData, err)
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptData)
		}
		return result, nil

	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(payload, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %s", ErrCorruptData, err)
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptData)
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("%w: unknown compression type %d", ErrCorruptData, used)
	}
}
