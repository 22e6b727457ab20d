package cli

import (
	"github.com/spf13/cobra"
)

// rootHelp is shown for the root command; subcommands keep cobra's
// generated help.
const rootHelp = `tripfix - repair and validate LLM-generated travel itineraries

USAGE
  tripfix <command> [file] [flags]

  Input is read from [file], or from stdin when it is omitted or "-".
  The document goes to stdout; banners and logs go to stderr.

COMMANDS
  sanitize                               Strip fences, smart quotes and control characters
  parse                                  Recover a JSON value using every repair strategy
  extract --key <name>                   Recover the array bound to a key from a broken document
  validate                               Parse, normalize and check against a schema
  convert [--reverse]                    Convert an llm itinerary to the app shape (or back)
  schema [--variant <llm|app>]           Print a JSON Schema

FLAGS
  Repair Pipeline:
    --max-repair-attempts <int>          Run at most this many strategies (default: 0 = all)
    --allow-partial                      Accept the largest valid prefix as a last resort
    --partial-floor <float>              Minimum share of the input a partial result covers (default: 0.3)
    --fallback-keys <k1,k2>              Array keys to salvage on failure (default: days,timeSlots)

  Validation:
    --schema <llm|app>                   Schema variant (default: llm)
    --no-normalize                       Skip clamping and time padding before validation

  Input & Output:
    --transcript <none|auto|claude|codex>
                                         Unwrap a model CLI transcript before repair (default: none)
    -o, --format <json|yaml>             Output format (default: json)
    -q, --quiet                          Suppress summary banners
    -v, --verbose                        Log every strategy attempt

  Config:
    --config <path>                      Path to additional config file

  Help & Version:
    -h, --help                           Show this help text
    --version                            Show version, commit, build date

CONFIG FILES
  $XDG_CONFIG_HOME/tripfix/config < ./.tripfix < --config < flags
  Keys: VERBOSE MAX_REPAIR_ATTEMPTS ALLOW_PARTIAL PARTIAL_FLOOR FALLBACK_KEYS
        SCHEMA_VARIANT NORMALIZE OUTPUT_FORMAT TRANSCRIPT

EXIT CODES
  0   Success              Document repaired, extracted or validated
  1   Error                Invalid arguments, unreadable input, misconfiguration
  2   Unparseable          Every repair strategy failed
  3   ExtractFailed        Key missing or not bound to an array
  4   SchemaInvalid        Parsed, but violates the selected schema

EXAMPLES
  # Repair a truncated completion
  tripfix parse completion.txt

  # Salvage the days array from a response cut off mid-object
  tripfix extract --key days completion.txt

  # Validate against the app schema and print YAML
  cat app.json | tripfix validate --schema app -o yaml

  # Repair the completion saved from a streaming CLI session
  tripfix parse --transcript auto session.jsonl

  # Convert a model itinerary for the app
  tripfix convert completion.txt > itinerary.json

For more information, see: https://github.com/CodexForgeBR/tripfix
`

const helpTemplate = `{{if .HasParent}}{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{.UsageString}}{{else}}` + rootHelp + `{{end}}`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
