package transform

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// parse returns an empty result for anything that is not valid JSON, so every
// accessor below falls through to its fallback.
func parse(raw []byte) gjson.Result {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return gjson.Result{}
	}
	return gjson.ParseBytes(raw)
}

// truthy treats missing, null, false, 0 and "" as absent.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	}
	return true
}

// first returns the first truthy value among paths.
func first(doc gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); truthy(r) {
			return r
		}
	}
	return gjson.Result{}
}

func str(r gjson.Result, fallback string) string {
	if !truthy(r) {
		return fallback
	}
	return r.String()
}

func optStr(r gjson.Result) *string {
	if !truthy(r) {
		return nil
	}
	s := r.String()
	return &s
}

// num accepts numbers and numeric strings.
func num(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return r.Num
	case gjson.String:
		if f, err := strconv.ParseFloat(r.Str, 64); err == nil {
			return f
		}
	}
	return 0
}

func integer(r gjson.Result) int {
	return int(num(r))
}

func optNum(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Num
	return &v
}

func object(r gjson.Result) map[string]any {
	if m, ok := r.Value().(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}

// objects keeps the object elements of an array and drops everything else.
func objects(r gjson.Result) []map[string]any {
	out := make([]map[string]any, 0)
	if !r.IsArray() {
		return out
	}
	r.ForEach(func(_, v gjson.Result) bool {
		if m, ok := v.Value().(map[string]any); ok {
			out = append(out, m)
		}
		return true
	})
	return out
}

func stringList(r gjson.Result) []string {
	out := make([]string, 0)
	if !r.IsArray() {
		return out
	}
	r.ForEach(func(_, v gjson.Result) bool {
		if truthy(v) {
			out = append(out, v.String())
		}
		return true
	})
	return out
}

// list returns the array at path, or doc itself when the backend sent a bare array.
func list(doc gjson.Result, path string) []gjson.Result {
	if doc.IsArray() {
		return doc.Array()
	}
	if r := doc.Get(path); r.IsArray() {
		return r.Array()
	}
	return nil
}

// unwrap returns the object nested under key when present, else doc itself.
func unwrap(doc gjson.Result, key string) gjson.Result {
	if r := doc.Get(key); r.IsObject() {
		return r
	}
	return doc
}
