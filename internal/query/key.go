package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key names one cacheable read: resource kind, optional id and optional
// filter set. Params holds the canonical JSON of the filters, so filters
// that are equal by value yield equal keys.
type Key struct {
	Kind   string
	ID     string
	Params string
}

// NewKey builds a Key. params may be nil, a struct or a map; encoding/json
// sorts map keys and keeps struct fields in declaration order.
func NewKey(kind, id string, params any) Key {
	k := Key{Kind: kind, ID: id}
	if params == nil {
		return k
	}
	b, err := json.Marshal(params)
	if err != nil {
		k.Params = fmt.Sprintf("%#v", params)
		return k
	}
	if s := string(b); s != "null" && s != "{}" {
		k.Params = s
	}
	return k
}

func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Kind)
	if k.ID != "" {
		b.WriteByte('/')
		b.WriteString(k.ID)
	}
	if k.Params != "" {
		b.WriteByte('?')
		b.WriteString(k.Params)
	}
	return b.String()
}
