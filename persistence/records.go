package persistence

import (
	"encoding/binary"
	"fmt"

	"github.com/m638-hue/SofttekLLMSDK/codec"
	"github.com/m638-hue/SofttekLLMSDK/vectorstore"
)

// Record blob layout (little endian):
//
//	[Magic uint32][Version uint32]
//	[CodecNameLen uvarint][CodecName]
//	[compression frame]
//
// The frame payload is the codec encoding of the record list.
const (
	recordsMagic   uint32 = 0x52454330 // "REC0"
	recordsVersion uint32 = 0x00010000
)

func encodeRecords(c codec.Codec, compression CompressionType, records []vectorstore.Vector) ([]byte, error) {
	if records == nil {
		records = []vectorstore.Vector{}
	}

	payload, err := c.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("persistence: encode records: %w", err)
	}

	frame, err := compressFrame(payload, compression)
	if err != nil {
		return nil, err
	}

	name := []byte(c.Name())
	out := make([]byte, 0, 8+binary.MaxVarintLen64+len(name)+len(frame))
	out = binary.LittleEndian.AppendUint32(out, recordsMagic)
	out = binary.LittleEndian.AppendUint32(out, recordsVersion)
	out = binary.AppendUvarint(out, uint64(len(name)))
	out = append(out, name...)
	out = append(out, frame...)

	return out, nil
}

func decodeRecords(data []byte) ([]vectorstore.Vector, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: record blob too small", ErrCorruptData)
	}

	if magic := binary.LittleEndian.Uint32(data); magic != recordsMagic {
		return nil, fmt.Errorf("%w: bad record blob magic 0x%08x", ErrCorruptData, magic)
	}

	if version := binary.LittleEndian.Uint32(data[4:]); version != recordsVersion {
		return nil, fmt.Errorf("%w: unsupported record blob version 0x%08x", ErrCorruptData, version)
	}

	rest := data[8:]

	nameLen, n := binary.Uvarint(rest)
	if n <= 0 || nameLen > 64 || uint64(len(rest)-n) < nameLen {
		return nil, fmt.Errorf("%w: malformed codec name", ErrCorruptData)
	}

	name := string(rest[n : n+int(nameLen)])
	rest = rest[n+int(nameLen):]

	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrCorruptData, name)
	}

	payload, err := decompressFrame(rest)
	if err != nil {
		return nil, err
	}

	var records []vectorstore.Vector
	if err := c.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("%w: decode records: %s", ErrCorruptData, err)
	}

	return records, nil
}
