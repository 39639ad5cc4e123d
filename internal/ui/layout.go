package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the preview is
	// stacked under the form instead of beside it.
	LayoutCompactWidth = 100

	// formWidth is the width of the parameter form column.
	formWidth = 44
)

// Log display limits.
const (
	// LogBufferLimit is the maximum number of log lines to keep in memory.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// LogRefreshInterval is how often the log view re-reads the file.
	LogRefreshInterval = 2 * time.Second

	// StatusMessageTTL is how long a flash message stays in the header.
	StatusMessageTTL = 4 * time.Second
)
