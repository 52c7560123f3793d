package embedding

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Text rows for high-dimensional vectors exceed bufio.Scanner's default
// token size.
const maxLineBytes = 1 << 20

var gzipMagic = [2]byte{0x1f, 0x8b}

// LoadText parses an embedding space in word2vec or GloVe text format.
//
// The word2vec variant starts with a "<count> <dimension>" header line;
// the GloVe variant is headerless and the dimension is taken from the
// first row. Rows are "<token> <v1> <v2> ..." and must appear in
// descending frequency order, as both formats guarantee.
func LoadText(r io.Reader) (*KeyedVectors, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("empty embedding input")
	}

	line := sc.Text()
	lineNo := 1

	var kv *KeyedVectors
	if count, dim, ok := parseHeader(line); ok {
		kv = NewKeyedVectors(dim, count)
	} else {
		// Headerless GloVe input: the first line is a data row.
		token, vec, err := parseRow(line, 0)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		kv = NewKeyedVectors(len(vec), 0)
		if err := kv.Add(token, vec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	for sc.Scan() {
		lineNo++
		line = sc.Text()
		if line == "" {
			continue
		}
		token, vec, err := parseRow(line, kv.Dimension())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := kv.Add(token, vec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if kv.Len() == 0 {
		return nil, fmt.Errorf("empty embedding input")
	}
	return kv, nil
}

// LoadWord2VecBinary parses the word2vec binary format: a text header
// "<count> <dimension>\n" followed by entries of a space-terminated token
// and dimension little-endian float32 values.
func LoadWord2VecBinary(r io.Reader) (*KeyedVectors, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	header, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	count, dim, ok := parseHeader(strings.TrimSpace(header))
	if !ok {
		return nil, fmt.Errorf("malformed word2vec header: %q", strings.TrimSpace(header))
	}

	kv := NewKeyedVectors(dim, count)
	raw := make([]byte, dim*4)
	vec := make([]float32, dim)

	for i := 0; i < count; i++ {
		token, err := br.ReadString(' ')
		if err != nil {
			return nil, fmt.Errorf("entry %d: read token: %w", i, err)
		}
		// Some exporters terminate the previous vector with a newline
		// before the next token.
		token = strings.TrimLeft(token, "\n")
		token = strings.TrimSuffix(token, " ")

		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("entry %d (%q): read vector: %w", i, token, err)
		}
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[j*4:]))
		}
		if err := kv.Add(token, vec); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return kv, nil
}

// LoadFile loads an embedding space from disk, transparently decompressing
// gzip input. Files with a ".bin" extension (before any ".gz") are parsed
// as word2vec binary, everything else as text.
func LoadFile(path string) (*KeyedVectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := maybeGunzip(f)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	name := strings.TrimSuffix(path, ".gz")
	if strings.HasSuffix(name, ".bin") {
		return LoadWord2VecBinary(r)
	}
	return LoadText(r)
}

// maybeGunzip wraps r in a gzip reader when the stream starts with the
// gzip magic bytes.
func maybeGunzip(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	magic, err := br.Peek(2)
	if err != nil {
		// Short input; let the parser report it.
		return br, nil
	}
	if magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		return gzip.NewReader(br)
	}
	return br, nil
}

func parseHeader(line string) (count, dim int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, false
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, false
	}
	dim, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}
	if count < 0 || dim <= 0 {
		return 0, 0, false
	}
	return count, dim, true
}

// parseRow parses a "<token> <v1> ..." row. dim 0 accepts any width
// (used for the first headerless row).
func parseRow(line string, dim int) (string, []float32, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", nil, fmt.Errorf("malformed row: %q", line)
	}
	token := fields[0]
	values := fields[1:]
	if dim > 0 && len(values) != dim {
		return "", nil, &ErrDimensionMismatch{Expected: dim, Actual: len(values)}
	}
	vec := make([]float32, len(values))
	for i, s := range values {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return "", nil, fmt.Errorf("token %q: bad component %d: %w", token, i, err)
		}
		vec[i] = float32(v)
	}
	return token, vec, nil
}
