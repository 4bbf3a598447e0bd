// Package hsrc holds build information for the HydroShare resource creator.
package hsrc

var (
	// Version of the application, set by the build.
	Version = "v0.1.0"
	// Build timestamp, set by the build.
	Build = "n/a"
)
