// Package validation provides centralized input validation logic.
//
// Command construction is pure data; required-field presence and path safety
// are checked here at dispatch and composite-expansion time.
package validation
