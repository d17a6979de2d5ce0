package media

import (
	"fmt"
	"sort"
	"time"
)

// ValueKind classifies a WriteValue. Every kind has exactly one encode
// rule in the task layer; values that fit no kind are rejected when the
// request is built, never at encode time.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindText
	KindDateTime
	KindSequence
	KindStructure
)

// WriteValue is one tagged value in a write request.
type WriteValue struct {
	Kind   ValueKind
	Number float64
	Text   string
	Time   DateTime
	Seq    []WriteValue
	Fields map[string]WriteValue
}

// Null is the absent value; it encodes as an empty assignment, which
// clears the tag.
func Null() WriteValue { return WriteValue{Kind: KindNull} }

func Number(f float64) WriteValue { return WriteValue{Kind: KindNumber, Number: f} }

func Text(s string) WriteValue { return WriteValue{Kind: KindText, Text: s} }

func When(t time.Time) WriteValue {
	return WriteValue{Kind: KindDateTime, Time: DateTime{Time: t, ZoneExplicit: true}}
}

func Sequence(vs ...WriteValue) WriteValue { return WriteValue{Kind: KindSequence, Seq: vs} }

func Structure(fields map[string]WriteValue) WriteValue {
	return WriteValue{Kind: KindStructure, Fields: fields}
}

// ValueOf classifies an arbitrary Go value into a WriteValue. Only
// nil, numbers, strings, booleans, time values, slices, and maps with
// string keys are accepted; anything else is a programmer error and
// fails here rather than stringifying silently.
func ValueOf(v any) (WriteValue, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		if x {
			return Text("true"), nil
		}
		return Text("false"), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case float64:
		return Number(x), nil
	case string:
		return Text(x), nil
	case time.Time:
		return When(x), nil
	case DateTime:
		return WriteValue{Kind: KindDateTime, Time: x}, nil
	case []any:
		seq := make([]WriteValue, 0, len(x))
		for i, e := range x {
			wv, err := ValueOf(e)
			if err != nil {
				return WriteValue{}, fmt.Errorf("element %d: %w", i, err)
			}
			seq = append(seq, wv)
		}
		return WriteValue{Kind: KindSequence, Seq: seq}, nil
	case map[string]any:
		fields := make(map[string]WriteValue, len(x))
		for k, e := range x {
			wv, err := ValueOf(e)
			if err != nil {
				return WriteValue{}, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = wv
		}
		return WriteValue{Kind: KindStructure, Fields: fields}, nil
	default:
		return WriteValue{}, fmt.Errorf("unsupported tag value type %T", v)
	}
}

// WriteRequest is one metadata mutation: tag assignments, verbatim
// extra tool arguments, and the absolute target path. Build it with
// NewWriteRequest; it is not modified afterwards.
type WriteRequest struct {
	Path      string
	Tags      map[string]WriteValue
	ExtraArgs []string
}

// NewWriteRequest classifies every tag value up front so encode-time
// surprises are impossible.
func NewWriteRequest(path string, tags map[string]any, extraArgs ...string) (*WriteRequest, error) {
	typed := make(map[string]WriteValue, len(tags))
	for name, v := range tags {
		wv, err := ValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("tag %s: %w", name, err)
		}
		typed[name] = wv
	}
	return &WriteRequest{Path: path, Tags: typed, ExtraArgs: extraArgs}, nil
}

// TagNames returns the request's tag names in stable order.
func (r *WriteRequest) TagNames() []string {
	names := make([]string, 0, len(r.Tags))
	for name := range r.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
