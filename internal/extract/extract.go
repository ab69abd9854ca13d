// Package extract pulls typed JSON out of model output that may not honour the
// requested format. Callers branch on the Result kind instead of on errors.
package extract

import (
	"encoding/json"
	"errors"
	"strings"
)

type Kind int

const (
	Unstructured Kind = iota
	Structured
)

func (k Kind) String() string {
	if k == Structured {
		return "structured"
	}
	return "unstructured"
}

// maxScanAttempts bounds how many closing delimiters Bracketed tries, walking
// backwards from the last one.
const maxScanAttempts = 8

var errNoRegion = errors.New("no bracketed region found")

// Result is either Structured(Value) or Unstructured(Raw). Err records why the
// text could not be decoded when Kind is Unstructured.
type Result[T any] struct {
	Kind  Kind
	Value T
	Raw   string
	Err   error
}

func (r Result[T]) IsStructured() bool { return r.Kind == Structured }

// Strict decodes the whole (trimmed) text and nothing else.
func Strict[T any](raw string) Result[T] {
	var v T
	if err := decode(strings.TrimSpace(raw), &v); err != nil {
		return Result[T]{Kind: Unstructured, Raw: raw, Err: err}
	}
	return Result[T]{Kind: Structured, Value: v, Raw: raw}
}

// Bracketed tries Strict first, then the region from the first open byte to a
// matching close byte, scanning back from the last close a bounded number of times.
func Bracketed[T any](raw string, open, close byte) Result[T] {
	res := Strict[T](raw)
	if res.IsStructured() {
		return res
	}
	strictErr := res.Err

	start := strings.IndexByte(raw, open)
	if start < 0 {
		return Result[T]{Kind: Unstructured, Raw: raw, Err: errors.Join(strictErr, errNoRegion)}
	}

	end := len(raw)
	for attempt := 0; attempt < maxScanAttempts; attempt++ {
		end = strings.LastIndexByte(raw[:end], close)
		if end <= start {
			break
		}
		var v T
		if err := decode(raw[start:end+1], &v); err == nil {
			return Result[T]{Kind: Structured, Value: v, Raw: raw}
		}
	}
	return Result[T]{Kind: Unstructured, Raw: raw, Err: errors.Join(strictErr, errNoRegion)}
}

// Array is Bracketed over a top-level JSON array.
func Array[T any](raw string) Result[[]T] {
	return Bracketed[[]T](raw, '[', ']')
}

// Object is Bracketed over a top-level JSON object.
func Object[T any](raw string) Result[T] {
	return Bracketed[T](raw, '{', '}')
}

func decode(s string, dst any) error {
	if s == "" {
		return errors.New("empty input")
	}
	if s == "null" {
		return errors.New("null document")
	}
	dec := json.NewDecoder(strings.NewReader(s))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON value")
	}
	return nil
}
