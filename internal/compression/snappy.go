package compression

import (
	"fmt"

	"github.com/golang/snappy"

	"github.com/gradelens/gradelens/internal/utils"
)

// SnappyCompressor uses the Snappy block format. Event payloads are small
// JSON documents, so the streaming framing format is not needed.
type SnappyCompressor struct{}

// NewSnappyCompressor returns the Snappy compressor
func NewSnappyCompressor() *SnappyCompressor {
	return &SnappyCompressor{}
}

func (*SnappyCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	return snappy.Encode(nil, data), nil
}

// Decompress rejects blocks whose header announces more than
// utils.MaxEventPayloadSize before allocating for them.
func (*SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	n, err := snappy.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("invalid snappy block: %w", err)
	}
	if n > utils.MaxEventPayloadSize {
		return nil, fmt.Errorf("snappy block decodes to %d bytes, limit is %d", n, utils.MaxEventPayloadSize)
	}

	out, err := snappy.Decode(make([]byte, n), data)
	if err != nil {
		return nil, fmt.Errorf("invalid snappy block: %w", err)
	}
	return out, nil
}

func (*SnappyCompressor) Algorithm() Algorithm {
	return Snappy
}
