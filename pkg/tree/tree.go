// Package tree provides the document tree shared by every kibble component.
//
// A [Node] is a recursive sum type over the JSON value space: null, bool,
// number, string, array, and object. Two properties distinguish it from a
// plain map[string]any decoding:
//
//   - Object keys preserve insertion order, so serialized output is stable
//     and diffs stay clean.
//   - Numbers store their raw source literal (like [encoding/json.Number]),
//     so a value parsed as "1.50" is written back as "1.50".
//
// Trees are exclusively owned by whichever component currently holds them.
// Transforms take ownership and return a new or mutated-in-place tree; use
// [Node.Clone] before retaining a subtree elsewhere.
package tree

import (
	"math"
	"strconv"
)

// Kind identifies the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "invalid"
}

// Node is a single value in a document tree. The zero value is null.
type Node struct {
	Kind Kind

	boolVal bool
	numLit  string
	strVal  string

	items []*Node

	keys  []string
	index map[string]int
	vals  []*Node
}

// NewNull returns a null node.
func NewNull() *Node {
	return &Node{Kind: KindNull}
}

// NewBool returns a bool node.
func NewBool(b bool) *Node {
	return &Node{Kind: KindBool, boolVal: b}
}

// NewNumber returns a number node holding the given JSON literal.
// The literal is trusted and emitted verbatim by the codec.
func NewNumber(literal string) *Node {
	return &Node{Kind: KindNumber, numLit: literal}
}

// NewNumberInt returns a number node for an integer value.
func NewNumberInt(i int64) *Node {
	return &Node{Kind: KindNumber, numLit: strconv.FormatInt(i, 10)}
}

// NewNumberFloat returns a number node for a float value.
// Non-finite values have no JSON representation and become null.
func NewNumberFloat(f float64) *Node {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NewNull()
	}
	return &Node{Kind: KindNumber, numLit: strconv.FormatFloat(f, 'g', -1, 64)}
}

// NewString returns a string node.
func NewString(s string) *Node {
	return &Node{Kind: KindString, strVal: s}
}

// NewArray returns an array node containing the given items.
func NewArray(items ...*Node) *Node {
	return &Node{Kind: KindArray, items: items}
}

// NewObject returns an empty object node.
func NewObject() *Node {
	return &Node{Kind: KindObject, index: make(map[string]int)}
}

// BoolValue returns the bool payload, or false for non-bool nodes.
func (n *Node) BoolValue() bool {
	return n.Kind == KindBool && n.boolVal
}

// NumberLiteral returns the raw number literal, or "" for non-number nodes.
func (n *Node) NumberLiteral() string {
	if n.Kind != KindNumber {
		return ""
	}
	return n.numLit
}

// Float64 converts the number literal to a float64.
func (n *Node) Float64() (float64, error) {
	return strconv.ParseFloat(n.numLit, 64)
}

// Int64 converts the number literal to an int64.
func (n *Node) Int64() (int64, error) {
	return strconv.ParseInt(n.numLit, 10, 64)
}

// StringValue returns the string payload, or "" for non-string nodes.
func (n *Node) StringValue() string {
	if n.Kind != KindString {
		return ""
	}
	return n.strVal
}

// Len returns the number of items in an array or keys in an object.
// It is 0 for scalar nodes.
func (n *Node) Len() int {
	switch n.Kind {
	case KindArray:
		return len(n.items)
	case KindObject:
		return len(n.keys)
	}
	return 0
}

// At returns the array item at index i, or nil if out of range.
func (n *Node) At(i int) *Node {
	if n.Kind != KindArray || i < 0 || i >= len(n.items) {
		return nil
	}
	return n.items[i]
}

// Items returns the backing slice of an array node. The slice is owned by
// the node and must not be modified by callers; it is nil for non-arrays.
func (n *Node) Items() []*Node {
	if n.Kind != KindArray {
		return nil
	}
	return n.items
}

// Append adds items to the end of an array node. No-op for non-arrays.
func (n *Node) Append(items ...*Node) {
	if n.Kind != KindArray {
		return
	}
	n.items = append(n.items, items...)
}

// SetAt replaces the array item at index i. No-op if out of range.
func (n *Node) SetAt(i int, item *Node) {
	if n.Kind != KindArray || i < 0 || i >= len(n.items) {
		return
	}
	n.items[i] = item
}

// Keys returns an object's keys in insertion order. The slice is owned by
// the node and must not be modified by callers; it is nil for non-objects.
func (n *Node) Keys() []string {
	if n.Kind != KindObject {
		return nil
	}
	return n.keys
}

// Get returns the value stored under key in an object node.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind != KindObject {
		return nil, false
	}
	i, ok := n.index[key]
	if !ok {
		return nil, false
	}
	return n.vals[i], true
}

// Set stores value under key in an object node. A new key is appended to
// the insertion order; re-setting an existing key keeps its position.
// No-op for non-objects.
func (n *Node) Set(key string, value *Node) {
	if n.Kind != KindObject {
		return
	}
	if i, ok := n.index[key]; ok {
		n.vals[i] = value
		return
	}
	n.index[key] = len(n.keys)
	n.keys = append(n.keys, key)
	n.vals = append(n.vals, value)
}

// Delete removes key from an object node, preserving the order of the
// remaining keys. Reports whether the key existed.
func (n *Node) Delete(key string) bool {
	if n.Kind != KindObject {
		return false
	}
	i, ok := n.index[key]
	if !ok {
		return false
	}
	n.keys = append(n.keys[:i], n.keys[i+1:]...)
	n.vals = append(n.vals[:i], n.vals[i+1:]...)
	delete(n.index, key)
	for k, j := range n.index {
		if j > i {
			n.index[k] = j - 1
		}
	}
	return true
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindArray:
		items := make([]*Node, len(n.items))
		for i, item := range n.items {
			items[i] = item.Clone()
		}
		return &Node{Kind: KindArray, items: items}
	case KindObject:
		out := NewObject()
		for i, key := range n.keys {
			out.Set(key, n.vals[i].Clone())
		}
		return out
	default:
		c := *n
		return &c
	}
}

// Equal reports deep structural equality of two trees. Object keys must
// match in order as well as content; numbers compare by raw literal.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNumber:
		return a.numLit == b.numLit
	case KindString:
		return a.strVal == b.strVal
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for i, key := range a.keys {
			if b.keys[i] != key {
				return false
			}
			if !Equal(a.vals[i], b.vals[i]) {
				return false
			}
		}
		return true
	}
	return false
}
