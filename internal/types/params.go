package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ParamKind identifies which member of a ParamValue is set.
type ParamKind uint8

const (
	KindNumber ParamKind = iota + 1
	KindText
	KindList
)

func (k ParamKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// ParamValue is a tagged union of a number, a string or a list of strings.
// The zero value is invalid and is rejected by MarshalJSON.
type ParamValue struct {
	kind ParamKind
	num  float64
	text string
	list []string
}

// Number builds a numeric parameter value.
func Number(f float64) ParamValue { return ParamValue{kind: KindNumber, num: f} }

// Text builds a string parameter value.
func Text(s string) ParamValue { return ParamValue{kind: KindText, text: s} }

// List builds a list-of-strings parameter value. The items are copied.
func List(items ...string) ParamValue {
	return ParamValue{kind: KindList, list: append([]string{}, items...)}
}

func (v ParamValue) Kind() ParamKind { return v.kind }

// Float returns the numeric member and whether the value is a number.
func (v ParamValue) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Str returns the string member and whether the value is text.
func (v ParamValue) Str() (string, bool) { return v.text, v.kind == KindText }

// Strings returns a copy of the list member and whether the value is a list.
func (v ParamValue) Strings() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]string{}, v.list...), true
}

func (v ParamValue) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindList:
		return fmt.Sprint(v.list)
	default:
		return "<invalid>"
	}
}

func (v ParamValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return nil, fmt.Errorf("param value has no kind")
	}
}

func (v *ParamValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty param value")
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Text(s)
	case '[':
		var l []string
		if err := json.Unmarshal(b, &l); err != nil {
			return fmt.Errorf("param list must hold strings: %w", err)
		}
		*v = List(l...)
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return fmt.Errorf("unsupported param value %s: %w", b, err)
		}
		*v = Number(f)
	}
	return nil
}

// Param is one named candidate parameter.
type Param struct {
	Key   string
	Value ParamValue
}

// Params is an insertion-ordered set of candidate parameters. It encodes as a
// JSON object whose keys keep their insertion order.
type Params []Param

// Get returns the value stored under key.
func (ps Params) Get(key string) (ParamValue, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Value, true
		}
	}
	return ParamValue{}, false
}

// With returns ps extended by key=value, replacing an existing key in place.
func (ps Params) With(key string, v ParamValue) Params {
	out := append(Params{}, ps...)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = v
			return out
		}
	}
	return append(out, Param{Key: key, Value: v})
}

func (ps Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		val, err := p.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (ps *Params) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*ps = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("params must be a JSON object")
	}
	var out Params
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var v ParamValue
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("param %q: %w", key, err)
		}
		out = append(out, Param{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*ps = out
	return nil
}
