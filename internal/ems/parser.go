package ems

import "strings"

// RecordKind identifies the shape of a raw line received from an EMS serial
// stream.
type RecordKind string

const (
	RecordKindSample  RecordKind = "sample"
	RecordKindHeader  RecordKind = "header"
	RecordKindStatus  RecordKind = "status"
	RecordKindUnknown RecordKind = "unknown"
)

// Parser decodes raw serial lines from a specific EMS device into the
// standardized EngineData format. Implementations are stateful: devices that
// emit a column header before data rows keep the active header between calls.
type Parser interface {
	// Classify reports what kind of record a raw line is without decoding it.
	Classify(line string) RecordKind

	// DecodeSample parses a data row into standardized engine data. Header
	// and status lines must be routed via HandleHeader / ignored by the
	// caller; passing them here is an error.
	DecodeSample(line string) (EngineData, error)

	// HandleHeader consumes a column header line, replacing any previously
	// active header.
	HandleHeader(line string) error
}

// ClassifyLine is the shared first-pass classification used by parsers and
// the serial recorder. JSON lines are device config/status echoes. A line
// whose first comma-separated field is non-numeric is a column header.
func ClassifyLine(line string) RecordKind {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return RecordKindUnknown
	case strings.HasPrefix(trimmed, "{"):
		return RecordKindStatus
	case !strings.Contains(trimmed, ","):
		return RecordKindUnknown
	}

	first := strings.TrimSpace(strings.SplitN(trimmed, ",", 2)[0])
	if first == "" {
		return RecordKindUnknown
	}
	for _, r := range first {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' && r != ':' {
			return RecordKindHeader
		}
	}
	return RecordKindSample
}
