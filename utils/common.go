package utils

import (
	"fmt"
	"strings"
)

// CanColorize wraps a fatih/color SprintFunc so that colorization can be
// disabled globally (e.g. to keep golden files stable) without touching
// every call site.
func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}
