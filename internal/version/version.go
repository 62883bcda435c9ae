// Package version reports the build version string for the engine binary.
package version

// engineVersion is bumped manually per release.
const engineVersion = "2.1"

// Version returns the engine version string shown in UCI id and CLI banners.
func Version() string {
	return engineVersion
}
