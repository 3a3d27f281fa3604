package sources

import "github.com/zoobzio/capitan"

// Field keys for source events.
var (
	// KeyKind is the source kind ("channel", "interval", "file", ...).
	KeyKind = capitan.NewStringKey("kind")

	// KeyTarget is what the source reads: a path, URL or bucket/key.
	KeyTarget = capitan.NewStringKey("target")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyInterval is the configured emission or polling interval.
	KeyInterval = capitan.NewDurationKey("interval")

	// KeyEmitted is the number of values a subscription delivered.
	KeyEmitted = capitan.NewIntKey("emitted")
)
