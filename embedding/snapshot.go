package embedding

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the snapshot payload compression.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

var (
	snapshotMagic   = [4]byte{'A', 'V', 'S', '0'}
	snapshotVersion = uint16(1)
)

// WriteSnapshot serializes kv into the compact binary snapshot format.
//
// Layout: 4-byte magic, uint16 version, 1-byte compression tag, 1 reserved
// byte, then the (optionally compressed) payload: uint32 count, uint32
// dimension, count length-prefixed tokens, count*dimension little-endian
// float32 components.
func WriteSnapshot(w io.Writer, kv *KeyedVectors, c Compression) error {
	var header [8]byte
	copy(header[0:4], snapshotMagic[:])
	binary.LittleEndian.PutUint16(header[4:6], snapshotVersion)
	header[6] = uint8(c)
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}

	var payload io.Writer
	var closer io.Closer
	switch c {
	case CompressionNone:
		payload = w
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("create zstd writer: %w", err)
		}
		payload, closer = zw, zw
	case CompressionLZ4:
		lw := lz4.NewWriter(w)
		payload, closer = lw, lw
	default:
		return fmt.Errorf("unsupported snapshot compression: %v", c)
	}

	bw := bufio.NewWriterSize(payload, 256*1024)
	if err := writeSnapshotPayload(bw, kv); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("flush snapshot compression: %w", err)
		}
	}
	return nil
}

// ReadSnapshot deserializes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*KeyedVectors, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	if [4]byte(header[0:4]) != snapshotMagic {
		return nil, fmt.Errorf("unsupported snapshot format: invalid header magic")
	}
	if v := binary.LittleEndian.Uint16(header[4:6]); v != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version: %d", v)
	}

	var payload io.Reader
	switch c := Compression(header[6]); c {
	case CompressionNone:
		payload = r
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create zstd reader: %w", err)
		}
		defer zr.Close()
		payload = zr
	case CompressionLZ4:
		payload = lz4.NewReader(r)
	default:
		return nil, fmt.Errorf("unsupported snapshot compression: %v", c)
	}

	return readSnapshotPayload(bufio.NewReaderSize(payload, 256*1024))
}

// WriteSnapshotFile writes a snapshot atomically via a temp file rename.
func WriteSnapshotFile(path string, kv *KeyedVectors, c Compression) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteSnapshot(tmp, kv, c); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadSnapshotFile reads a snapshot from disk.
func ReadSnapshotFile(path string) (*KeyedVectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}

func writeSnapshotPayload(w io.Writer, kv *KeyedVectors) error {
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(kv.Len()))
	if _, err := w.Write(u32[:]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(u32[:], uint32(kv.Dimension()))
	if _, err := w.Write(u32[:]); err != nil {
		return err
	}

	for _, token := range kv.Vocabulary() {
		binary.LittleEndian.PutUint32(u32[:], uint32(len(token)))
		if _, err := w.Write(u32[:]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, token); err != nil {
			return err
		}
	}

	buf := make([]byte, kv.Dimension()*4)
	for i := 0; i < kv.Len(); i++ {
		row := kv.Row(i)
		for j, v := range row {
			binary.LittleEndian.PutUint32(buf[j*4:], math.Float32bits(v))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func readSnapshotPayload(r io.Reader) (*KeyedVectors, error) {
	var u32 [4]byte
	if _, err := io.ReadFull(r, u32[:]); err != nil {
		return nil, fmt.Errorf("read snapshot count: %w", err)
	}
	count := int(binary.LittleEndian.Uint32(u32[:]))
	if _, err := io.ReadFull(r, u32[:]); err != nil {
		return nil, fmt.Errorf("read snapshot dimension: %w", err)
	}
	dim := int(binary.LittleEndian.Uint32(u32[:]))
	if dim <= 0 {
		return nil, fmt.Errorf("invalid snapshot dimension: %d", dim)
	}

	tokens := make([]string, count)
	for i := range tokens {
		if _, err := io.ReadFull(r, u32[:]); err != nil {
			return nil, fmt.Errorf("read token %d length: %w", i, err)
		}
		n := binary.LittleEndian.Uint32(u32[:])
		if n > maxLineBytes {
			return nil, fmt.Errorf("token %d length out of range: %d", i, n)
		}
		raw := make([]byte, n)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("read token %d: %w", i, err)
		}
		tokens[i] = string(raw)
	}

	kv := NewKeyedVectors(dim, count)
	buf := make([]byte, dim*4)
	vec := make([]float32, dim)
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read vector %d: %w", i, err)
		}
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4:]))
		}
		if err := kv.Add(tokens[i], vec); err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
	}
	return kv, nil
}
