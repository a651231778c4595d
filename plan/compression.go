package plan

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how fold blobs are compressed.
type Compression uint8

const (
	// CompressionNone stores fold blobs as plain codec output.
	CompressionNone Compression = iota
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4
	// CompressionZSTD uses ZSTD (better ratio for large index lists).
	CompressionZSTD
)

// String returns the name recorded in manifests.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// Extension returns the file name suffix of fold blobs.
func (c Compression) Extension() string {
	switch c {
	case CompressionLZ4:
		return ".lz4"
	case CompressionZSTD:
		return ".zst"
	default:
		return ""
	}
}

// ParseCompression parses the names returned by Compression.String.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}

// ZSTD encoder/decoder pools, shared by concurrent fold uploads.
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

// LZ4 blocks do not record their decoded size.
// Format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// CompressedSize == 0 means the data is stored as is.
const lz4HeaderSize = 8

func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		return compressLZ4(data)
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer putZstdEncoder(enc)
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("unknown compression %s", c)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	buf := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf[lz4HeaderSize:], nil)
	if err != nil {
		return nil, err
	}

	binary.LittleEndian.PutUint32(buf[0:], uint32(len(data)))
	if n == 0 || n >= len(data) {
		// Incompressible
		binary.LittleEndian.PutUint32(buf[4:], 0)
		copy(buf[lz4HeaderSize:], data)
		return buf[:lz4HeaderSize+len(data)], nil
	}
	binary.LittleEndian.PutUint32(buf[4:], uint32(n))
	return buf[:lz4HeaderSize+n], nil
}

func decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		return decompressLZ4(data)
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		return dec.DecodeAll(data, nil)
	default:
		return nil, fmt.Errorf("unknown compression %s", c)
	}
}

func decompressLZ4(data []byte) ([]byte, error) {
	if len(data) < lz4HeaderSize {
		return nil, errors.New("lz4 block too small for header")
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])
	body := data[lz4HeaderSize:]

	if compressedSize == 0 {
		if uint32(len(body)) != uncompressedSize {
			return nil, errors.New("lz4 stored block size mismatch")
		}
		return body, nil
	}
	if uint32(len(body)) != compressedSize {
		return nil, errors.New("lz4 compressed block size mismatch")
	}

	result := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(body, result)
	if err != nil {
		return nil, err
	}
	if uint32(n) != uncompressedSize {
		return nil, errors.New("decompressed size mismatch")
	}
	return result, nil
}
