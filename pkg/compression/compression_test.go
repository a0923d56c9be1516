package compression

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

var sampleText = []byte(strings.Repeat("implementing stemming algorithms requires careful attention to detailed rules ", 50))

func TestParseAlgorithm(t *testing.T) {
	tests := map[string]Algorithm{
		"none":   AlgorithmNone,
		"":       AlgorithmNone,
		"Snappy": AlgorithmSnappy,
		" zstd ": AlgorithmZstd,
		"gzip":   AlgorithmGzip,
	}
	for name, expected := range tests {
		got, err := ParseAlgorithm(name)
		if err != nil {
			t.Errorf("ParseAlgorithm(%q) failed: %v", name, err)
			continue
		}
		if got != expected {
			t.Errorf("ParseAlgorithm(%q) = %v, want %v", name, got, expected)
		}
		if name != "" && strings.TrimSpace(strings.ToLower(name)) != got.String() {
			t.Errorf("String() = %s, want %s", got.String(), name)
		}
	}

	if _, err := ParseAlgorithm("lz4"); err == nil {
		t.Error("Expected error for unknown algorithm")
	}
}

func TestAlgorithmText(t *testing.T) {
	var a Algorithm
	if err := a.UnmarshalText([]byte("snappy")); err != nil || a != AlgorithmSnappy {
		t.Errorf("Expected snappy, got %v (%v)", a, err)
	}
	if b, _ := AlgorithmGzip.MarshalText(); string(b) != "gzip" {
		t.Errorf("Expected gzip, got %s", b)
	}
	if err := a.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("Expected error for bogus algorithm")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, algo := range []Algorithm{AlgorithmNone, AlgorithmSnappy, AlgorithmZstd, AlgorithmGzip} {
		t.Run(algo.String(), func(t *testing.T) {
			c, err := NewCompressor(&Config{Algorithm: algo})
			if err != nil {
				t.Fatalf("NewCompressor failed: %v", err)
			}
			defer c.Close()

			encoded, err := c.Encode(sampleText)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if Algorithm(encoded[0]) != algo {
				t.Errorf("Expected tag %d, got %d", algo, encoded[0])
			}
			if algo != AlgorithmNone && len(encoded) >= len(sampleText) {
				t.Errorf("Expected compression, got %d >= %d", len(encoded), len(sampleText))
			}

			decoded, err := c.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(decoded, sampleText) {
				t.Error("Round trip mismatch")
			}

			empty, err := c.Encode(nil)
			if err != nil {
				t.Fatalf("Encode empty failed: %v", err)
			}
			if decoded, err := c.Decode(empty); err != nil || len(decoded) != 0 {
				t.Errorf("Expected empty round trip, got %q (%v)", decoded, err)
			}
		})
	}
}

func TestDecodeAcrossAlgorithms(t *testing.T) {
	writer, err := NewCompressor(&Config{Algorithm: AlgorithmGzip, Level: 9})
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}
	defer writer.Close()

	reader, err := NewCompressor(nil)
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}
	defer reader.Close()

	if reader.Algorithm() != AlgorithmZstd {
		t.Errorf("Expected default zstd, got %v", reader.Algorithm())
	}

	encoded, err := writer.Encode(sampleText)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := reader.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, sampleText) {
		t.Error("Expected a zstd compressor to read gzip payloads")
	}
}

func TestDecodeCorrupt(t *testing.T) {
	c, err := NewCompressor(nil)
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}
	defer c.Close()

	if _, err := c.Decode(nil); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Expected ErrCorrupt, got %v", err)
	}
	if _, err := c.Decode([]byte{42, 1, 2}); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Expected ErrCorrupt for bad tag, got %v", err)
	}
	if _, err := c.Decode([]byte{byte(AlgorithmZstd), 1, 2, 3}); err == nil {
		t.Error("Expected error for invalid zstd body")
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	if _, err := NewCompressor(&Config{Algorithm: Algorithm(99)}); err == nil {
		t.Error("Expected error for unsupported algorithm")
	}
}

func TestConcurrentEncode(t *testing.T) {
	c, err := NewCompressor(&Config{Algorithm: AlgorithmGzip})
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}
	defer c.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			encoded, err := c.Encode(sampleText)
			if err != nil {
				errs <- err
				return
			}
			decoded, err := c.Decode(encoded)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(decoded, sampleText) {
				errs <- errors.New("mismatch")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestCompressionRatio(t *testing.T) {
	if r := CompressionRatio(0, 10); r != 0 {
		t.Errorf("Expected 0, got %f", r)
	}
	if r := CompressionRatio(100, 25); r != 0.25 {
		t.Errorf("Expected 0.25, got %f", r)
	}
}
