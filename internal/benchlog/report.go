package benchlog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// Columns is the fixed column order of the report.
var Columns = []string{"m", "n", "k", MetricTotalTime, MetricTimePerMult, MetricTimePerRound, MetricOpsPerSecond}

// WriteReport writes the header and one row per registry entry in tuple
// order. Nothing is written to w unless every row could be built.
func WriteReport(w io.Writer, reg *Registry) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, e := range reg.Entries() {
		row, err := reportRow(e)
		if err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %s: %w", e.Tuple, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// reportRow merges parameters and metrics, metrics taking precedence, and
// selects the report columns.
func reportRow(e Entry) ([]string, error) {
	merged := make(map[string]string, len(e.Tuple)+len(e.Metrics))
	for _, p := range e.Tuple {
		merged[p.Name] = p.Value
	}
	for k, v := range e.Metrics {
		merged[k] = v
	}

	row := make([]string, len(Columns))
	for i, c := range Columns {
		v, ok := merged[c]
		if !ok {
			return nil, &MissingFieldError{Tuple: e.Tuple, Field: c}
		}
		row[i] = v
	}
	return row, nil
}
