// Package compression compresses analytics event payloads before they are
// published. Each payload is framed with a one-byte algorithm tag so that
// consumers can decode events without knowing the publisher's settings.
package compression

import (
	"fmt"
	"strings"
)

// Algorithm defines compression types
type Algorithm uint8

const (
	None   Algorithm = 0
	Snappy Algorithm = 1
)

// String returns the configuration name of the algorithm
func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ParseAlgorithm maps a configuration name to an Algorithm.
// An empty name selects None.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "snappy":
		return Snappy, nil
	default:
		return None, fmt.Errorf("unsupported compression algorithm: %q", name)
	}
}

// Compressor interface for compression algorithms
type Compressor interface {
	// Compress compresses data
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses data
	Decompress(data []byte) ([]byte, error)

	// Algorithm returns the compression algorithm type
	Algorithm() Algorithm
}

// GetCompressor returns a compressor for the given algorithm
func GetCompressor(algo Algorithm) (Compressor, error) {
	switch algo {
	case None:
		return &NoneCompressor{}, nil
	case Snappy:
		return NewSnappyCompressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %d", algo)
	}
}

// NoneCompressor is a no-op compressor
type NoneCompressor struct{}

func (n *NoneCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (n *NoneCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

func (n *NoneCompressor) Algorithm() Algorithm {
	return None
}

// Frame compresses data with c and prepends the algorithm tag
func Frame(c Compressor, data []byte) ([]byte, error) {
	body, err := c.Compress(data)
	if err != nil {
		return nil, err
	}

	framed := make([]byte, 0, len(body)+1)
	framed = append(framed, byte(c.Algorithm()))
	return append(framed, body...), nil
}

// Unframe reads the algorithm tag written by Frame and decompresses the rest
func Unframe(framed []byte) ([]byte, error) {
	if len(framed) == 0 {
		return nil, fmt.Errorf("framed payload is empty")
	}

	c, err := GetCompressor(Algorithm(framed[0]))
	if err != nil {
		return nil, err
	}
	return c.Decompress(framed[1:])
}
