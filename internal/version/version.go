// Package version exposes the build version stamped in at link time.
package version

// value is overridden at build time via
// -ldflags "-X github.com/bkyoung/mtscreen/internal/version.value=v1.2.3".
var value = "dev"

// Value returns the build version.
func Value() string {
	return value
}
