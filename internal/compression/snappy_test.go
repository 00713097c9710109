package compression

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/gradelens/gradelens/internal/utils"
)

func TestSnappyCompressor_Algorithm(t *testing.T) {
	if got := NewSnappyCompressor().Algorithm(); got != Snappy {
		t.Errorf("Expected algorithm Snappy (%d), got %d", Snappy, got)
	}
}

func TestSnappyCompressor_CompressDecompress(t *testing.T) {
	compressor := NewSnappyCompressor()

	event, err := json.Marshal(map[string]interface{}{
		"operation": "stats",
		"values":    []float64{7.5, 8, 6.25, 9, 5.5, 7.5, 8, 6.25, 9, 5.5},
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	compressed, err := compressor.Compress(event)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	decompressed, err := compressor.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(event, decompressed) {
		t.Errorf("Decompressed data does not match original.\nOriginal: %s\nDecompressed: %s", event, decompressed)
	}
}

func TestSnappyCompressor_EmptyData(t *testing.T) {
	compressor := NewSnappyCompressor()

	compressed, err := compressor.Compress([]byte{})
	if err != nil {
		t.Fatalf("Compress empty data failed: %v", err)
	}
	if len(compressed) != 0 {
		t.Errorf("Expected empty compressed data, got length %d", len(compressed))
	}

	decompressed, err := compressor.Decompress(nil)
	if err != nil {
		t.Fatalf("Decompress empty data failed: %v", err)
	}
	if len(decompressed) != 0 {
		t.Errorf("Expected empty decompressed data, got length %d", len(decompressed))
	}
}

func TestSnappyCompressor_Repetitive(t *testing.T) {
	compressor := NewSnappyCompressor()

	original := bytes.Repeat([]byte(`{"value":7.5,"weight":1},`), 2000)
	compressed, err := compressor.Compress(original)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if len(compressed) >= len(original)/4 {
		t.Errorf("Expected strong compression, got %d of %d bytes", len(compressed), len(original))
	}
}

func TestSnappyCompressor_InvalidData(t *testing.T) {
	if _, err := NewSnappyCompressor().Decompress([]byte{0xff, 0xff, 0xff, 0xff, 0xff}); err == nil {
		t.Error("Expected error decompressing invalid data")
	}
}

func TestSnappyCompressor_OversizedBlock(t *testing.T) {
	// a block header announcing more than the payload limit, with no body
	header := binary.AppendUvarint(nil, uint64(utils.MaxEventPayloadSize+1))
	if _, err := NewSnappyCompressor().Decompress(header); err == nil {
		t.Error("Expected error for a block larger than the payload limit")
	}
}
