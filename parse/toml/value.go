// Package toml implements a small recursive-descent TOML parser built on the
// base lexer, producing an in-memory tree of tables, arrays, and scalar
// values addressable by dotted keys.
//
// Scope:
// - Tables, table arrays, dotted keys
// - Basic / literal / multi-line strings with the common escape codes
// - Integers in binary, octal, decimal and hex, with underscores
// - Floats with fraction and exponent
// - Booleans
//
// Non-goals (by design):
// - Unicode escape sequences
// - Inline arrays and inline tables as values
// - inf / nan literals
// - Dates and times
//
// Tables and arrays are reference counted; a handle obtained from the API may
// outlive its enclosing container. The destructor of a container releases all
// children exactly once.
package toml

import "github.com/celes-lang/celes/pkg/hashtable"

// =========================
// Value
// =========================

// Type identifies the kind of a parsed value.
type Type int

const (
	TypeInvalid Type = iota
	TypeString
	TypeInteger
	TypeReal
	TypeBoolean
	TypeTable
	TypeArray
)

// Value is a tagged scalar or container slot stored in a table or array.
type Value struct {
	typ     Type
	str     string
	integer int64
	real    float64
	boolean bool
	table   *Table
	array   *Array
}

// valueFree releases whatever the value owns: nested containers drop the one
// reference the value holds on them.
func valueFree(v *Value) {
	switch v.typ {
	case TypeTable:
		v.table.Release()
	case TypeArray:
		v.array.Release()
	}
}

// Type returns the value's tag; a nil value is TypeInvalid.
func (v *Value) Type() Type {
	if v == nil {
		return TypeInvalid
	}
	return v.typ
}

// GetString returns the contained string, or "" if the tag does not match.
func (v *Value) GetString() string {
	if v == nil || v.typ != TypeString {
		return ""
	}
	return v.str
}

// GetInt returns the contained integer, or 0.
func (v *Value) GetInt() int64 {
	if v == nil || v.typ != TypeInteger {
		return 0
	}
	return v.integer
}

// GetBool returns the contained boolean, or false.
func (v *Value) GetBool() bool {
	if v == nil || v.typ != TypeBoolean {
		return false
	}
	return v.boolean
}

// GetDouble returns the contained float, or 0.0.
func (v *Value) GetDouble() float64 {
	if v == nil || v.typ != TypeReal {
		return 0
	}
	return v.real
}

// GetTable returns the contained table, or nil.
func (v *Value) GetTable() *Table {
	if v == nil || v.typ != TypeTable {
		return nil
	}
	return v.table
}

// GetArray returns the contained array, or nil.
func (v *Value) GetArray() *Array {
	if v == nil || v.typ != TypeArray {
		return nil
	}
	return v.array
}

// =========================
// Table
// =========================

// Pair is one key/value entry of a table.
type Pair struct {
	Key   string
	Value *Value
}

// Table is a reference-counted mapping from key to value. Tables are created
// with one reference; Release drops a reference and destroys the table at
// zero, releasing every entry.
type Table struct {
	refs     int32
	values   hashtable.Table[Value]
	isInline bool
}

func newTable() *Table {
	t := &Table{refs: 1}
	t.values = hashtable.New(valueFree)
	return t
}

// AddRef increments the reference count and returns the table, or nil if the
// handle was already dead.
func (t *Table) AddRef() *Table {
	if t != nil && t.refs > 0 {
		t.refs++
		return t
	}
	return nil
}

// Release decrements the reference count, destroying the table at zero, and
// returns the new count.
func (t *Table) Release() int32 {
	if t == nil {
		return 0
	}

	t.refs--
	if t.refs == 0 {
		t.values.Free()
		return 0
	}

	return t.refs
}

// PairCount returns the number of entry slots addressable through GetPair. Slots
// are bucket-ordered and may be unoccupied; an unoccupied slot has an empty
// key.
func (t *Table) PairCount() int {
	if t == nil {
		return 0
	}
	return t.values.Size()
}

// GetPair returns the entry slot at idx.
func (t *Table) GetPair(idx int) Pair {
	var pair Pair
	pair.Value, pair.Key = t.values.GetIdx(idx)
	return pair
}

// Get returns the value stored under key, or nil.
func (t *Table) Get(key string) *Value {
	if t == nil {
		return nil
	}
	return t.values.Get(key)
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	return t.Get(key) != nil
}

// GetType returns the tag of the value under key, or TypeInvalid.
func (t *Table) GetType(key string) Type {
	return t.Get(key).Type()
}

// GetString returns the string under key, or "".
func (t *Table) GetString(key string) string {
	return t.Get(key).GetString()
}

// GetInt returns the integer under key, or 0.
func (t *Table) GetInt(key string) int64 {
	return t.Get(key).GetInt()
}

// GetBool returns the boolean under key, or false.
func (t *Table) GetBool(key string) bool {
	return t.Get(key).GetBool()
}

// GetDouble returns the float under key, or 0.0.
func (t *Table) GetDouble(key string) float64 {
	return t.Get(key).GetDouble()
}

// GetTable returns the table under key, or nil.
func (t *Table) GetTable(key string) *Table {
	return t.Get(key).GetTable()
}

// GetArray returns the array under key, or nil.
func (t *Table) GetArray(key string) *Array {
	return t.Get(key).GetArray()
}

// =========================
// Array
// =========================

// Array is a reference-counted ordered sequence of values.
type Array struct {
	refs   int32
	values []Value
}

func newArray() *Array {
	return &Array{refs: 1}
}

// AddRef increments the reference count and returns the array, or nil if the
// handle was already dead.
func (a *Array) AddRef() *Array {
	if a != nil && a.refs > 0 {
		a.refs++
		return a
	}
	return nil
}

// Release decrements the reference count, destroying the array at zero, and
// returns the new count.
func (a *Array) Release() int32 {
	if a == nil {
		return 0
	}

	a.refs--
	if a.refs != 0 {
		return a.refs
	}

	for i := range a.values {
		valueFree(&a.values[i])
	}
	a.values = nil
	return 0
}

// Count returns the number of elements.
func (a *Array) Count() int {
	if a == nil {
		return 0
	}
	return len(a.values)
}

// Get returns the element at idx, or nil when out of range.
func (a *Array) Get(idx int) *Value {
	if a == nil || idx < 0 || idx >= len(a.values) {
		return nil
	}
	return &a.values[idx]
}

// GetString returns the string at idx, or "".
func (a *Array) GetString(idx int) string {
	return a.Get(idx).GetString()
}

// GetInt returns the integer at idx, or 0.
func (a *Array) GetInt(idx int) int64 {
	return a.Get(idx).GetInt()
}

// GetBool returns the boolean at idx, or false.
func (a *Array) GetBool(idx int) bool {
	return a.Get(idx).GetBool()
}

// GetDouble returns the float at idx, or 0.0.
func (a *Array) GetDouble(idx int) float64 {
	return a.Get(idx).GetDouble()
}

// GetTable returns the table at idx, or nil.
func (a *Array) GetTable(idx int) *Table {
	return a.Get(idx).GetTable()
}

// GetArray returns the array at idx, or nil.
func (a *Array) GetArray(idx int) *Array {
	return a.Get(idx).GetArray()
}

// =========================
// Sub-table access helpers
// =========================

// getIn resolves table in root, then key within it, null-checking both
// levels.
func getIn(root *Table, table, key string, typ Type) *Value {
	if root == nil {
		return nil
	}
	sub := root.GetTable(table)
	if sub == nil {
		return nil
	}
	v := sub.Get(key)
	if v == nil || v.typ != typ {
		return nil
	}
	return v
}

// GetString resolves table in root and returns the string under key, or "".
func GetString(root *Table, table, key string) string {
	return getIn(root, table, key, TypeString).GetString()
}

// GetInt resolves table in root and returns the integer under key, or 0.
func GetInt(root *Table, table, key string) int64 {
	return getIn(root, table, key, TypeInteger).GetInt()
}

// GetBool resolves table in root and returns the boolean under key, or false.
func GetBool(root *Table, table, key string) bool {
	return getIn(root, table, key, TypeBoolean).GetBool()
}

// GetDouble resolves table in root and returns the float under key, or 0.0.
func GetDouble(root *Table, table, key string) float64 {
	return getIn(root, table, key, TypeReal).GetDouble()
}

// GetTable resolves table in root and returns the table under key, or nil.
func GetTable(root *Table, table, key string) *Table {
	return getIn(root, table, key, TypeTable).GetTable()
}

// GetArray resolves table in root and returns the array under key, or nil.
func GetArray(root *Table, table, key string) *Array {
	return getIn(root, table, key, TypeArray).GetArray()
}

// HasIn reports whether key exists within the sub-table named table.
func HasIn(root *Table, table, key string) bool {
	if root == nil {
		return false
	}
	sub := root.GetTable(table)
	if sub == nil {
		return false
	}
	return sub.Has(key)
}
