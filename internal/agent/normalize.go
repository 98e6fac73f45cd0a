package agent

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sells-group/analyst-cli/internal/model"
)

// rejectAnswers are backend replies that mean "no answer", checked
// case-insensitively against the trimmed raw string before any parsing.
var rejectAnswers = map[string]bool{
	"na":        true,
	"n/a":       true,
	"no answer": true,
	"none":      true,
}

// expectedKind resolves a format hint to an answer kind. Resolution
// order matters: exact "int"/"float" first, then an object shape in
// braces, then any hint starting with "list"; everything else is
// treated as free-form string.
func expectedKind(hint string) model.AnswerKind {
	h := strings.TrimSpace(hint)
	switch {
	case h == "int":
		return model.KindInt
	case h == "float":
		return model.KindFloat
	case strings.HasPrefix(h, "{") && strings.HasSuffix(h, "}"):
		return model.KindObject
	case strings.HasPrefix(h, "list"):
		return model.KindList
	default:
		return model.KindString
	}
}

// defaultAnswer is the typed zero value emitted when normalization
// cannot produce a valid answer.
func defaultAnswer(kind model.AnswerKind) model.AnswerValue {
	switch kind {
	case model.KindInt:
		return model.IntAnswer(0)
	case model.KindFloat:
		return model.FloatAnswer(0)
	case model.KindObject:
		return model.ObjectAnswer(nil)
	case model.KindList:
		return model.ListAnswer(nil)
	default:
		return model.StringAnswer("")
	}
}

// NormalizeAnswer coerces a raw synthesized answer into the type the
// format hint demands. The boolean reports validity: false means the
// answer was missing, rejected, or not coercible, and the returned
// value is the typed default. String raw values are first screened
// against the rejection set, then run through the structured-literal
// parser so a reply like "42" or "['a', 'b']" lands as its real type.
func NormalizeAnswer(raw any, formatHint string) (model.AnswerValue, bool) {
	kind := expectedKind(formatHint)
	if raw == nil {
		return defaultAnswer(kind), false
	}

	if s, ok := raw.(string); ok {
		lowered := strings.ToLower(strings.TrimSpace(s))
		if rejectAnswers[lowered] || strings.Contains(lowered, "not applicable") {
			return defaultAnswer(kind), false
		}
		if parsed, ok := ParseLiteral(strings.TrimSpace(s)); ok {
			raw = parsed
		}
	}

	switch kind {
	case model.KindInt:
		n, ok := toFloat(raw)
		if !ok {
			return defaultAnswer(kind), false
		}
		return model.IntAnswer(int64(n)), true

	case model.KindFloat:
		n, ok := toFloat(raw)
		if !ok {
			return defaultAnswer(kind), false
		}
		return model.FloatAnswer(round2(n)), true

	case model.KindObject:
		if m, ok := raw.(map[string]any); ok {
			return model.ObjectAnswer(m), true
		}
		return defaultAnswer(kind), false

	case model.KindList:
		if l, ok := raw.([]any); ok {
			return model.ListAnswer(l), true
		}
		return defaultAnswer(kind), false

	default:
		return model.StringAnswer(stringify(raw)), true
	}
}

// toFloat widens any numeric raw value. Strings reaching here failed
// the literal parse; ParseFloat is a last chance for inputs like "1e3 ".
func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// round2 rounds to two decimal places.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func stringify(raw any) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", raw)
}
