package toml

import "github.com/mitchellh/mapstructure"

// Untyped converts the table to a plain map. Nested tables become nested
// maps, arrays become slices, scalars keep their Go types.
func (t *Table) Untyped() map[string]any {
	if t == nil {
		return nil
	}

	out := make(map[string]any, t.values.Count())
	for i := 0; i < t.values.Size(); i++ {
		v, key := t.values.GetIdx(i)
		if key == "" {
			continue
		}
		out[key] = v.untyped()
	}
	return out
}

// Untyped converts the array to a plain slice.
func (a *Array) Untyped() []any {
	if a == nil {
		return nil
	}

	out := make([]any, len(a.values))
	for i := range a.values {
		out[i] = a.values[i].untyped()
	}
	return out
}

func (v *Value) untyped() any {
	switch v.typ {
	case TypeString:
		return v.str
	case TypeInteger:
		return v.integer
	case TypeReal:
		return v.real
	case TypeBoolean:
		return v.boolean
	case TypeTable:
		return v.table.Untyped()
	case TypeArray:
		return v.array.Untyped()
	default:
		return nil
	}
}

// Decode fills out from the table's entries. Field names are matched
// case-insensitively; a `toml:"name"` struct tag overrides the field name.
func Decode(t *Table, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "toml",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(t.Untyped())
}
