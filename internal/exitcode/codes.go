// Package exitcode defines named exit codes for the tripfix CLI.
//
// Each code maps a pipeline outcome to a numeric value recognized by shell
// scripts and CI pipelines.
package exitcode

// Exit code constants.
const (
	Success       = 0 // Document repaired, extracted or validated
	Error         = 1 // Invalid args, unreadable input, misconfiguration
	Unparseable   = 2 // Every repair strategy failed
	ExtractFailed = 3 // Key missing or not bound to an array
	SchemaInvalid = 4 // Parsed, but violates the selected schema
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case Unparseable:
		return "Unparseable"
	case ExtractFailed:
		return "ExtractFailed"
	case SchemaInvalid:
		return "SchemaInvalid"
	default:
		return "unknown"
	}
}
