package benchlog

import (
	"fmt"
	"strings"
)

// Param is one named run parameter, e.g. m=1024.
type Param struct {
	Name  string
	Value string
}

// Experiment holds the parameters and metrics of one block. Both mappings
// are set-once.
type Experiment struct {
	params  []Param
	metrics map[string]string
}

func NewExperiment() *Experiment {
	return &Experiment{
		metrics: make(map[string]string, len(metricPrefixes)),
	}
}

// RecordKey records a parameter. Parameters keep their insertion order.
func (e *Experiment) RecordKey(name, value string) error {
	for _, p := range e.params {
		if p.Name == name {
			return &DuplicateKeyError{Kind: FieldParam, Key: name, Old: p.Value, New: value}
		}
	}
	e.params = append(e.params, Param{Name: name, Value: value})
	return nil
}

// RecordValue records a metric.
func (e *Experiment) RecordValue(name, value string) error {
	if old, ok := e.metrics[name]; ok {
		return &DuplicateKeyError{Kind: FieldMetric, Key: name, Old: old, New: value}
	}
	e.metrics[name] = value
	return nil
}

// RecordValueFromLine records the second to last whitespace separated token
// of line as metric name. Lines are expected to end in "<number> <unit>".
func (e *Experiment) RecordValueFromLine(name, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return fmt.Errorf("%w: %q", ErrMalformedMetric, line)
	}
	return e.RecordValue(name, fields[len(fields)-2])
}

// Tuple returns the parameters in insertion order.
func (e *Experiment) Tuple() Tuple {
	t := make(Tuple, len(e.params))
	copy(t, e.params)
	return t
}

// Metrics returns a copy of the recorded metrics.
func (e *Experiment) Metrics() map[string]string {
	m := make(map[string]string, len(e.metrics))
	for k, v := range e.metrics {
		m[k] = v
	}
	return m
}
