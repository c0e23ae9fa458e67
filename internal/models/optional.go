package models

import (
	"bytes"
	"encoding/json"
)

// Optional tracks whether a JSON field was present at all, so that an absent
// field and an explicit null can be told apart in partial updates.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only invoked for fields present in the document.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// ApplyTo overwrites *dst when the field was present.
func (o Optional[T]) ApplyTo(dst **T) {
	if o.Set {
		*dst = o.Value
	}
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}
