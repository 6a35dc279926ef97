// Package habits carries build metadata for the habits tracker.
package habits

// Version is the release version of the habits CLI.
const Version = "0.3.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/habits"
