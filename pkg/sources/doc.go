// Package sources provides asynchronous sources that reactive cells can be
// bound to.
//
// Every constructor returns a reactive.Source. Each Subscribe starts an
// independent producer goroutine that runs until the subscription is
// cancelled:
//
//	reactive.Bind(c.Count, sources.Interval(time.Second))
//	reactive.Bind(c.Settings, sources.File[Settings]("settings.yaml"))
//	reactive.Bind(c.Quote, sources.WebSocket[Quote]("wss://example.com/quotes"))
//	reactive.Bind(c.Flags, sources.S3Object[Flags](client, "bucket", "flags.json", time.Minute))
//
// Decoded values are validated with go-playground/validator struct tags
// before they are delivered; values failing to decode or validate are
// dropped and reported.
//
// Sources report their lifecycle through capitan signals (SourceStarted,
// SourceStopped, SourceDecodeFailed, SourceError) and through the optional
// error handler set with WithErrorHandler.
package sources
