package models

// WarningCode categorizes warnings by subsystem.
// W2xxx = pricing, W3xxx = reporting.
type WarningCode string

const (
	WarnMissingObservation WarningCode = "W2001" // no trading day within tolerance of the target (cell left empty)
	WarnSourceFallback     WarningCode = "W2002" // a price source failed and the next one in the chain was tried
	WarnChartFailed        WarningCode = "W3001" // chart could not be rendered; other artifacts unaffected
	WarnChartSeriesSkipped WarningCode = "W3002" // an event was left out of a chart for lack of data
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
