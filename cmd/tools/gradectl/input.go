package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gradelens/gradelens/internal/analytics"
	"github.com/gradelens/gradelens/internal/models"
	"github.com/gradelens/gradelens/internal/services"
)

// readGrades loads the grade history named by --file
func (o *options) readGrades(cmd *cobra.Command) (*models.GradesRequest, error) {
	var (
		data []byte
		err  error
	)
	if o.file == "" || o.file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(o.file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read grades: %w", err)
	}
	return decodeHistory(data)
}

// decodeHistory accepts {"grades": [...]} or a bare array of grades
func decodeHistory(data []byte) (*models.GradesRequest, error) {
	req := &models.GradesRequest{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := models.Decode(trimmed, &req.Grades); err != nil {
			return nil, describe(services.FromDecodeError(err))
		}
		return req, nil
	}

	if err := models.Decode(trimmed, req); err != nil {
		return nil, describe(services.FromDecodeError(err))
	}
	return req, nil
}

// seriesRequest encodes a series as [timestamp, value] pairs
func seriesRequest(series analytics.TimeSeries) (*models.SeriesRequest, error) {
	req := &models.SeriesRequest{Series: make([]json.RawMessage, len(series))}
	for i, p := range series {
		raw, err := json.Marshal([]interface{}{p.Timestamp, p.Value})
		if err != nil {
			return nil, fmt.Errorf("failed to encode series: %w", err)
		}
		req.Series[i] = raw
	}
	return req, nil
}
