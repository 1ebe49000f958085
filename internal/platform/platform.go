// Package platform probes host conventions that must be resolved on the
// machine actually running an export, not the one that synthesized it.
package platform

import "runtime"

// LineTerminator returns the end-of-line byte sequence for the current host:
// CRLF on Windows, LF everywhere else.
func LineTerminator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}
