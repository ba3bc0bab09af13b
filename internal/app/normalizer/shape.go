// Package normalizer collapses the backend's heterogeneous success envelopes
// into one canonical record per resource.
//
// Shape selection is the only step that can fail. Leaf values are normalized
// independently, so a single malformed field degrades to its zero value
// instead of rejecting the record.
package normalizer

import (
	"dashboard_client/internal/domain/entity"
	"dashboard_client/internal/pkg/utils"
)

// Container is the JSON kind a resource's payload must have.
type Container int

const (
	Object Container = iota
	Array
)

func (c Container) matches(v any) bool {
	switch c {
	case Object:
		_, ok := utils.AsMap(v)
		return ok
	case Array:
		_, ok := utils.AsSlice(v)
		return ok
	}
	return false
}

// SelectShape returns the payload of env for the given resource fields.
// Candidates are tried most-nested first: body.data.<field>, data.<field>,
// data, then the envelope itself. The first candidate that exists, is not
// null and has the wanted container kind wins.
func SelectShape(env entity.Envelope, want Container, fields ...string) (any, entity.Shape, bool) {
	for _, f := range fields {
		if v, ok := utils.Lookup(env, "body", "data", f); ok && v != nil && want.matches(v) {
			return v, entity.ShapeBodyDataField, true
		}
	}
	for _, f := range fields {
		if v, ok := utils.Lookup(env, "data", f); ok && v != nil && want.matches(v) {
			return v, entity.ShapeDataField, true
		}
	}
	if v, ok := utils.Lookup(env, "data"); ok && v != nil && want.matches(v) {
		return v, entity.ShapeData, true
	}
	if env != nil && want.matches(env) {
		return env, entity.ShapeRaw, true
	}
	return nil, entity.ShapeUnknown, false
}

func selectObject(env entity.Envelope, resource string, fields ...string) (map[string]any, error) {
	v, _, ok := SelectShape(env, Object, fields...)
	if !ok {
		return nil, &entity.MalformedEnvelopeError{Resource: resource, Envelope: env}
	}
	m, _ := utils.AsMap(v)
	return m, nil
}

func selectArray(env entity.Envelope, resource string, fields ...string) ([]any, error) {
	v, _, ok := SelectShape(env, Array, fields...)
	if !ok {
		return nil, &entity.MalformedEnvelopeError{Resource: resource, Envelope: env}
	}
	s, _ := utils.AsSlice(v)
	return s, nil
}

// numberField returns the first alias that parses as a finite number, or 0.
func numberField(m map[string]any, keys ...string) float64 {
	f, _ := numberFieldOK(m, keys...)
	return f
}

func numberFieldOK(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := utils.ParseNumeric(m[k]); ok {
			return f, true
		}
	}
	return 0, false
}
