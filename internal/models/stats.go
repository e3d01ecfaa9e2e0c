package models

// ColumnMean is the average of one ResultTable column over the events that have a value
type ColumnMean struct {
	Column string
	Mean   Cell
	N      int
}

// EventChange is the percentage move of one instrument across an election
type EventChange struct {
	Year       int
	Instrument Instrument
	Near       Cell // -1 month to +1 month, in percent
	Wide       Cell // -2 months to +2 months, in percent
}

// PrePost compares an instrument's average level before and after one election
type PrePost struct {
	Year int
	Pre  Cell
	Post Cell
}

// CorrelationMatrix is a symmetric matrix over ResultTable columns.
// Undefined entries (too few paired rows, zero variance) are NaN.
type CorrelationMatrix struct {
	Labels []string
	Values [][]float64
}

// Statistics are the comparative figures reported next to the ResultTable
type Statistics struct {
	ColumnMeans []ColumnMean
	Changes     []EventChange
	Volatility  Instrument
	VolPrePost  []PrePost
	VolPreMean  Cell
	VolPostMean Cell
	Correlation CorrelationMatrix
}

// StudyResult is everything the reporter needs, produced once per run
type StudyResult struct {
	Events       []EventDate
	Offsets      []Offset
	Instruments  []Instrument
	Observations []Observation
	Table        *ResultTable
	Stats        *Statistics
}
