// Package ingest loads coded step records from tabular storage and groups
// them into per-entity episodes and outcome cohorts.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/miradorstack/mirador-pathmine/internal/config"
	"github.com/miradorstack/mirador-pathmine/internal/models"
	"github.com/miradorstack/mirador-pathmine/internal/utils"
)

// OutcomeUnknown marks records whose outcome cell is blank.
const OutcomeUnknown = -1

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoRecords is returned when the source holds a header but no rows.
	ErrNoRecords = errors.New("no records")
)

// Options controls how raw rows become records.
type Options struct {
	Columns       config.Columns
	Normalization models.CodeNormalization
}

// ReadFile opens path and reads its records.
func ReadFile(path string, opts Options) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewAppError("ingest.open", path, err)
	}
	defer f.Close()
	return ReadRecords(f, opts)
}

// ReadRecords parses CSV rows with a header line into records. The category
// column is optional; all others are required.
func ReadRecords(r io.Reader, opts Options) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, utils.NewAppError("ingest.header", "empty input", ErrNoRecords)
		}
		return nil, utils.NewAppError("ingest.header", "read header", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	col := func(name string) (int, error) {
		i, ok := idx[name]
		if !ok {
			return 0, utils.NewAppError("ingest.header", fmt.Sprintf("column %q", name), ErrMissingColumn)
		}
		return i, nil
	}

	required := []string{opts.Columns.Entity, opts.Columns.Phase, opts.Columns.Step, opts.Columns.Code, opts.Columns.Outcome}
	pos := make([]int, len(required))
	for i, name := range required {
		if pos[i], err = col(name); err != nil {
			return nil, err
		}
	}
	categoryPos, hasCategory := idx[opts.Columns.Category]

	var records []models.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, utils.NewLineError("ingest.row", line, "parse row", err)
		}
		cell := func(i int) string {
			if i < len(row) {
				return row[i]
			}
			return ""
		}

		outcome, err := parseOutcome(cell(pos[4]))
		if err != nil {
			return nil, utils.NewLineError("ingest.row", line, "outcome", err)
		}
		rec := models.Record{
			EntityID: cell(pos[0]),
			Phase:    cell(pos[1]),
			Step:     cell(pos[2]),
			Code:     opts.Normalization.Apply(cell(pos[3])),
			Outcome:  outcome,
		}
		if hasCategory {
			rec.Category = strings.TrimSpace(cell(categoryPos))
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, utils.NewAppError("ingest.rows", "header only", ErrNoRecords)
	}
	return records, nil
}

func parseOutcome(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return OutcomeUnknown, nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	// tolerate float-formatted exports such as "1.0"
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
