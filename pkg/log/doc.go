// Package log provides a small structured logging facade.
//
// # Overview
//
// Logger exposes leveled methods taking Field values for structured
// context. Records are handled by a log/slog handler that renders them with
// a Formatter and writes them to one or more Outputs, so code can depend on
// this facade while still interoperating with slog through Slog().
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.WithComponent("sortsupport")
//	l.Debug("abbreviation confirmed", log.Float64("cardinality", 120345))
//
// Sampling (WithSampling) drops repeats of the same message after an
// initial burst, which keeps per-batch diagnostics from flooding output.
//
// RedirectStdLog routes the standard library logger through a Logger.
package log
