// Package internal contains the core infrastructure for the curtain engine.
// This includes logging, the serial command processor, one-shot completion
// primitives, and message localization.
// Types and functions in this package are not part of the public API.
package internal
