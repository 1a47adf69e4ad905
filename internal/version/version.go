// ABOUTME: Version and product identification constants
// ABOUTME: Reported on the bus connection and in the TUI header
package version

const (
	// Version is the current release version
	Version = "0.1.0"

	// Product is the product name
	Product = "Tickview"

	// Manufacturer identifies the project
	Manufacturer = "Conductor Protocol"
)
