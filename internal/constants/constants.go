// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// File upload constants
const (
	// MaxUploadSize is the maximum upload request size in bytes (100MB)
	MaxUploadSize = 100 << 20
)

// Processing constants
const (
	// AnalysisWorkers is the number of parallel workers for image analysis
	AnalysisWorkers = 5

	// MaxImageSize is the maximum dimension (width or height) sent to the
	// tagging provider
	MaxImageSize = 1024
)

// Duplicate grouping constants
const (
	// DefaultGroupingThreshold is the default max Hamming distance between
	// perceptual hashes for two images to land in the same group
	DefaultGroupingThreshold = 10
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for stream event channels
	EventChannelBuffer = 100
)
