// Package status defines the result codes used across the gigex client,
// the mapping from codes to human-readable text, and the Error type that
// carries a code together with the failing operation and device.
//
// Codes are numeric API: they sit in three bands (informational, warning,
// error) and keep the values the board's vendor library has always used,
// so callers that switch on 0x8000-range numbers keep working.
package status
