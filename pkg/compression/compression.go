// Package compression compresses stored document text.
//
// Every payload produced by Encode starts with a one-byte algorithm tag so a
// store can change its configured algorithm without rewriting old records.
package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
)

// Algorithm represents a compression algorithm
type Algorithm int

const (
	// AlgorithmNone stores data as is
	AlgorithmNone Algorithm = iota
	// AlgorithmSnappy is fast with a moderate ratio
	AlgorithmSnappy
	// AlgorithmZstd is balanced speed and ratio (default)
	AlgorithmZstd
	// AlgorithmGzip is standard gzip
	AlgorithmGzip
)

// ErrCorrupt is returned when a payload has no valid algorithm tag.
var ErrCorrupt = errors.New("compression: corrupt payload")

// String returns the string representation of the algorithm
func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmSnappy:
		return "snappy"
	case AlgorithmZstd:
		return "zstd"
	case AlgorithmGzip:
		return "gzip"
	default:
		return "unknown"
	}
}

// ParseAlgorithm maps a configuration name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return AlgorithmNone, nil
	case "snappy":
		return AlgorithmSnappy, nil
	case "zstd":
		return AlgorithmZstd, nil
	case "gzip":
		return AlgorithmGzip, nil
	default:
		return AlgorithmNone, fmt.Errorf("unknown compression algorithm %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(b []byte) error {
	parsed, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Config holds compression configuration
type Config struct {
	Algorithm Algorithm
	Level     int // meaning varies by algorithm
}

// DefaultConfig returns zstd at its default level.
func DefaultConfig() *Config {
	return &Config{
		Algorithm: AlgorithmZstd,
		Level:     3,
	}
}

// Compressor encodes and decodes tagged payloads. It is safe for concurrent
// use.
type Compressor struct {
	config  *Config
	zstdEnc *zstd.Encoder
	zstdDec *zstd.Decoder
	buffers sync.Pool
}

// NewCompressor creates a compressor with the given configuration
func NewCompressor(config *Config) (*Compressor, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch config.Algorithm {
	case AlgorithmNone, AlgorithmSnappy, AlgorithmZstd, AlgorithmGzip:
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %v", config.Algorithm)
	}

	c := &Compressor{config: config}
	c.buffers.New = func() any { return new(bytes.Buffer) }

	level := config.Level
	if level < 1 || level > 19 {
		level = 3
	}
	var err error
	c.zstdEnc, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	// The decoder is always needed for records written under another setting.
	c.zstdDec, err = zstd.NewReader(nil)
	if err != nil {
		c.zstdEnc.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return c, nil
}

// Algorithm returns the algorithm used by Encode.
func (c *Compressor) Algorithm() Algorithm {
	return c.config.Algorithm
}

// Encode compresses data with the configured algorithm and prefixes the tag.
func (c *Compressor) Encode(data []byte) ([]byte, error) {
	body, err := c.compress(c.config.Algorithm, data)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(c.config.Algorithm))
	return append(out, body...), nil
}

// Decode reads the tag and decompresses with whichever algorithm wrote it.
func (c *Compressor) Decode(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrCorrupt
	}
	algo := Algorithm(payload[0])
	if algo < AlgorithmNone || algo > AlgorithmGzip {
		return nil, fmt.Errorf("%w: tag %d", ErrCorrupt, payload[0])
	}
	return c.decompress(algo, payload[1:])
}

func (c *Compressor) compress(algo Algorithm, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	switch algo {
	case AlgorithmNone:
		return bytes.Clone(data), nil

	case AlgorithmSnappy:
		return snappy.Encode(nil, data), nil

	case AlgorithmZstd:
		return c.zstdEnc.EncodeAll(data, nil), nil

	case AlgorithmGzip:
		buf := c.buffers.Get().(*bytes.Buffer)
		defer c.buffers.Put(buf)
		buf.Reset()

		level := c.config.Level
		if level < gzip.HuffmanOnly || level > gzip.BestCompression {
			level = gzip.DefaultCompression
		}
		writer, err := gzip.NewWriterLevel(buf, level)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip writer: %w", err)
		}
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write gzip data: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("failed to close gzip writer: %w", err)
		}
		return bytes.Clone(buf.Bytes()), nil

	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %v", algo)
	}
}

func (c *Compressor) decompress(algo Algorithm, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	switch algo {
	case AlgorithmNone:
		return bytes.Clone(data), nil

	case AlgorithmSnappy:
		decoded, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode snappy: %w", err)
		}
		return decoded, nil

	case AlgorithmZstd:
		decoded, err := c.zstdDec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decode zstd: %w", err)
		}
		return decoded, nil

	case AlgorithmGzip:
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()

		decoded, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to read gzip data: %w", err)
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %v", algo)
	}
}

// Close releases the zstd encoder and decoder.
func (c *Compressor) Close() error {
	if c.zstdEnc != nil {
		c.zstdEnc.Close()
	}
	if c.zstdDec != nil {
		c.zstdDec.Close()
	}
	return nil
}

// CompressionRatio calculates the compression ratio
func CompressionRatio(originalSize, compressedSize int) float64 {
	if originalSize == 0 {
		return 0
	}
	return float64(compressedSize) / float64(originalSize)
}
