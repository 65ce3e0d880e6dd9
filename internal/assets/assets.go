// Package assets embeds the static, verbatim-copied include fragments:
// the register-bank declaration file and the hardware-loop preamble.
// Their content is opaque to the instruction model -- never parsed,
// only staged into the output tree byte-for-byte.
package assets

import (
	"embed"
	"fmt"
	"os"
)

//go:embed static/registers.sinc static/hwloop.sinc
var staticFS embed.FS

// Registers returns the embedded register-bank declaration file, or the
// contents of overridePath when it is non-empty.
func Registers(overridePath string) ([]byte, error) {
	if overridePath != "" {
		return readOverride(overridePath)
	}
	return staticFS.ReadFile("static/registers.sinc")
}

// HWLoop returns the embedded hardware-loop preamble, or the contents of
// overridePath when it is non-empty.
func HWLoop(overridePath string) ([]byte, error) {
	if overridePath != "" {
		return readOverride(overridePath)
	}
	return staticFS.ReadFile("static/hwloop.sinc")
}

func readOverride(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("static asset %s: %w", path, err)
	}
	return b, nil
}
