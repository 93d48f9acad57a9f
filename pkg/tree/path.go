package tree

import "strings"

// Path is an ordered sequence of object keys navigating into a document
// tree, e.g. ["attributes", "visState"]. Paths address object fields
// only; they never index into arrays.
type Path []string

// ParsePath splits a dotted path string into a Path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

// ParsePaths splits a list of dotted path strings.
func ParsePaths(paths []string) []Path {
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		out = append(out, ParsePath(p))
	}
	return out
}

// String returns the dotted form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Lookup walks the path from root and returns the addressed node.
// A path that does not resolve (a missing key, or an intermediate value
// that is not an object) returns (nil, false); this is a no-op condition
// for callers, never an error.
func Lookup(root *Node, path Path) (*Node, bool) {
	if root == nil || len(path) == 0 {
		return nil, false
	}
	cur := root
	for _, key := range path {
		if cur.Kind != KindObject {
			return nil, false
		}
		next, ok := cur.Get(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Resolve walks the path from root and returns the object holding the
// final segment together with that segment, so callers can replace the
// leaf with parent.Set(key, ...). Like [Lookup], an unresolvable path
// returns ok == false.
func Resolve(root *Node, path Path) (parent *Node, key string, ok bool) {
	if root == nil || len(path) == 0 {
		return nil, "", false
	}
	cur := root
	for _, k := range path[:len(path)-1] {
		if cur.Kind != KindObject {
			return nil, "", false
		}
		next, found := cur.Get(k)
		if !found {
			return nil, "", false
		}
		cur = next
	}
	key = path[len(path)-1]
	if cur.Kind != KindObject {
		return nil, "", false
	}
	if _, found := cur.Get(key); !found {
		return nil, "", false
	}
	return cur, key, true
}
