// Package build holds build-time information.
package build

// Version is the aarcache version. It defaults to "dev" and is overwritten
// by linker flags for release builds.
var Version = "dev"
