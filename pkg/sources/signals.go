package sources

import "github.com/zoobzio/capitan"

// Source lifecycle signals.
var (
	// SourceStarted is emitted when a subscription starts producing.
	SourceStarted = capitan.NewSignal(
		"reactive.source.started",
		"Source subscription started",
	)

	// SourceStopped is emitted when a subscription's producer exits.
	SourceStopped = capitan.NewSignal(
		"reactive.source.stopped",
		"Source subscription stopped",
	)
)

// Failure signals.
var (
	// SourceDecodeFailed is emitted when raw data cannot be decoded or
	// fails validation.
	SourceDecodeFailed = capitan.NewSignal(
		"reactive.source.decode.failed",
		"Source payload rejected",
	)

	// SourceError is emitted when the underlying transport fails.
	SourceError = capitan.NewSignal(
		"reactive.source.error",
		"Source transport error",
	)
)
