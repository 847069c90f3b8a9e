// Package constants defines shared constants, enums, and configuration values
// used throughout the curtain screen lifecycle engine.
package constants

import (
	"os"
	"strconv"
)

// EnvPrefix is prepended to every environment variable curtain reads.
const EnvPrefix = "CURTAIN"

// DebugEnvVar enables debug output from the internal logger when set.
const DebugEnvVar = "CURTAIN_DEBUG"

// ConfigPathEnvVar points LoadConfig at a TOML file when no path is given.
const ConfigPathEnvVar = "CURTAIN_CONFIG"

// IsDebugMode returns true if CURTAIN_DEBUG holds a true boolean ("1", "true", ...).
func IsDebugMode() bool {
	debug, _ := strconv.ParseBool(os.Getenv(DebugEnvVar))
	return debug
}

// ControllerKind identifies which ordering engine produced a log line or metric.
type ControllerKind int

const (
	ControllerQueue ControllerKind = iota
	ControllerStack
)

func (k ControllerKind) GetName() string {
	switch k {
	case ControllerQueue:
		return "queue"
	case ControllerStack:
		return "stack"
	default:
		return "unknown"
	}
}

// Operation names a host call. Used as a label on metrics and in logs.
type Operation int

const (
	OperationOpen Operation = iota
	OperationChange
	OperationClose
)

func (o Operation) GetName() string {
	switch o {
	case OperationOpen:
		return "open"
	case OperationChange:
		return "change"
	case OperationClose:
		return "close"
	default:
		return "unknown"
	}
}

// Defaults.
const (
	DefaultPopCount         = 1       // Number of instances Pop closes when given less than one
	DefaultLanguage         = "en"    // Language used for user-facing messages
	DefaultLogLevel         = "error" // Level of the application logger until configured
	DefaultMetricsNamespace = "curtain"
)
