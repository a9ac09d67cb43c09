package api

// Define allow list of two character commands accepted by the CGR-30P
// serial console. Anything outside this list is rejected by the API.
var allowedCommands = []string{
	"ID", // Query device identification
	"VR", // Query firmware version
	"SN", // Query serial number

	// Data output control
	"HD", // Emit a fresh column header
	"D0", // Stop data output
	"D1", // Stream data rows at 1 Hz
	"D4", // Stream data rows at 4 Hz
	"RS", // Reset recording state

	// Device queries
	"TQ", // Query device clock
	"FQ", // Query fuel computer totals
	"LM", // Query configured alarm limits
	"PQ", // Query probe configuration

	// Persistent memory
	"SV", // Save current configuration
	"FD", // Restore factory defaults
}
