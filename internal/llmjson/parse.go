package llmjson

import (
	"github.com/CodexForgeBR/tripfix/internal/jsonvalue"
)

// ParseSafe runs the full pipeline on raw: Sanitize, TruncateToBalanced,
// Repair, then a strict decode.
//
// WasTruncated mirrors the balancer for structured input. A bare scalar
// document (no bracket outside a string) is never reported as truncated
// since nothing was cut from it.
func ParseSafe(raw string) (out Outcome) {
	defer recoverOutcome(&out)

	clean := Sanitize(raw)
	bal := TruncateToBalanced(clean)
	repaired := Repair(bal.Slice)

	v, err := jsonvalue.DecodeString(repaired)
	if err != nil {
		return failure(syntaxFailure(err, repaired))
	}
	return Outcome{
		Value:        v,
		WasTruncated: bal.Truncated && bal.Opened,
		Strategy:     StrategyRepair,
	}
}
