package model

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/rotisserie/eris"
)

// AnswerKind discriminates the legal shapes of a final answer.
type AnswerKind int

const (
	KindString AnswerKind = iota
	KindInt
	KindFloat
	KindObject
	KindList
)

// AnswerValue is a tagged union over the five shapes an answer may
// take. The normalizer is the only producer; the zero value is the
// empty string answer.
type AnswerValue struct {
	kind AnswerKind
	i    int64
	f    float64
	s    string
	obj  map[string]any
	list []any
}

func IntAnswer(v int64) AnswerValue     { return AnswerValue{kind: KindInt, i: v} }
func FloatAnswer(v float64) AnswerValue { return AnswerValue{kind: KindFloat, f: v} }
func StringAnswer(v string) AnswerValue { return AnswerValue{kind: KindString, s: v} }

func ObjectAnswer(v map[string]any) AnswerValue {
	if v == nil {
		v = map[string]any{}
	}
	return AnswerValue{kind: KindObject, obj: v}
}
func ListAnswer(v []any) AnswerValue {
	if v == nil {
		v = []any{}
	}
	return AnswerValue{kind: KindList, list: v}
}

// Kind reports which shape this value holds.
func (a AnswerValue) Kind() AnswerKind { return a.kind }

// Value returns the underlying dynamic value, mainly for logging and
// test assertions.
func (a AnswerValue) Value() any {
	switch a.kind {
	case KindInt:
		return a.i
	case KindFloat:
		return a.f
	case KindObject:
		return a.obj
	case KindList:
		return a.list
	default:
		return a.s
	}
}

// MarshalJSON emits the bare underlying value so OutputRecord lines
// match the output contract exactly.
func (a AnswerValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value())
}

// UnmarshalJSON reconstructs the union from a contract record. Numbers
// without a fractional part become ints; everything else maps onto the
// obvious kind.
func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return eris.Wrap(err, "model: decode answer value")
	}
	*a = FromAny(raw)
	return nil
}

// FromAny classifies a dynamic value into the union. json.Number and
// float64 inputs with no fractional part become ints.
func FromAny(v any) AnswerValue {
	switch t := v.(type) {
	case nil:
		return StringAnswer("")
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return IntAnswer(i)
		}
		f, _ := t.Float64()
		return FloatAnswer(f)
	case int:
		return IntAnswer(int64(t))
	case int64:
		return IntAnswer(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return IntAnswer(int64(t))
		}
		return FloatAnswer(t)
	case map[string]any:
		return ObjectAnswer(t)
	case []any:
		return ListAnswer(t)
	case string:
		return StringAnswer(t)
	case bool:
		if t {
			return StringAnswer("true")
		}
		return StringAnswer("false")
	default:
		return StringAnswer("")
	}
}
