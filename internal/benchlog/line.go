package benchlog

import "strings"

// LineKind is the classification of a single log line.
type LineKind int

const (
	LineUnrecognized LineKind = iota
	LineBlank
	LineHeader
	LineParams
	LineMetric
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineHeader:
		return "header"
	case LineParams:
		return "params"
	case LineMetric:
		return "metric"
	default:
		return "unrecognized"
	}
}

// Metric names as they appear in the report columns.
const (
	MetricTotalTime    = "tt"
	MetricTimePerMult  = "tpm"
	MetricTimePerRound = "tpr"
	MetricOpsPerSecond = "mmps"
)

const headerPrefix = "Called"

var metricPrefixes = []struct {
	prefix string
	metric string
}{
	{"Total time:", MetricTotalTime},
	{"Time/multp:", MetricTimePerMult},
	{"Time/round:", MetricTimePerRound},
	{"Ops/second:", MetricOpsPerSecond},
}

// Classify returns the kind of line and, for metric lines, the metric name.
//
// LineParams is only a shape hint (flag tokens at 1, 3 and 5); the block
// parser reads the line following a header as parameters regardless.
func Classify(line string) (LineKind, string) {
	if strings.TrimSpace(line) == "" {
		return LineBlank, ""
	}
	if strings.HasPrefix(line, headerPrefix) {
		return LineHeader, ""
	}
	for _, p := range metricPrefixes {
		if strings.HasPrefix(line, p.prefix) {
			return LineMetric, p.metric
		}
	}
	if looksLikeParams(strings.Fields(line)) {
		return LineParams, ""
	}
	return LineUnrecognized, ""
}

func looksLikeParams(fields []string) bool {
	if len(fields) < paramTokens {
		return false
	}
	for _, i := range paramFlagIndexes {
		if len(fields[i]) < 2 || fields[i][0] != '-' {
			return false
		}
	}
	return true
}
