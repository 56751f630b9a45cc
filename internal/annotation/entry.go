// SPDX-License-Identifier: Apache-2.0

package annotation

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Entry is one raw annotation record as returned by the annotation service.
// Every path inside it is optional.
type Entry map[string]any

// Lookup walks the nested keys and returns the value found at the end of the
// path. It reports false when any key is missing, when an intermediate value is
// not a mapping, or when the final value is null.
func (e Entry) Lookup(keys ...string) (any, bool) {
	var current any = map[string]any(e)
	for _, key := range keys {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// Has reports whether a non-null value exists at the path.
func (e Entry) Has(keys ...string) bool {
	_, ok := e.Lookup(keys...)
	return ok
}

// String returns the scalar at the path rendered as a string. Empty strings,
// mappings and lists are reported as absent.
func (e Entry) String(keys ...string) (string, bool) {
	v, ok := e.Lookup(keys...)
	if !ok {
		return "", false
	}
	s, ok := scalarString(v)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Strings returns the list at the path as strings. A single scalar is treated
// as a one-element list and non-scalar or empty elements are skipped.
func (e Entry) Strings(keys ...string) ([]string, bool) {
	v, ok := e.Lookup(keys...)
	if !ok {
		return nil, false
	}

	var out []string
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			if s, ok := scalarString(item); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range list {
			if s != "" {
				out = append(out, s)
			}
		}
	default:
		if s, ok := scalarString(v); ok && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Entry:
		return m, true
	}
	return nil, false
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case uint64:
		return strconv.FormatUint(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}
