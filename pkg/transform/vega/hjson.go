package vega

import (
	"encoding/json"
	"fmt"

	"github.com/hjson/hjson-go/v4"

	"github.com/matzehuels/kibble/pkg/tree"
)

// materializeSpec parses raw under the tolerant HJSON grammar and converts
// the result to a document tree. It returns an error when the content
// cannot be materialized without loss: parse failures, scalar results, and
// comment-bearing content all stay in string form. The tree holds no
// comments, so materializing commented content would drop the comment text
// on re-serialization.
func materializeSpec(raw string) (*tree.Node, error) {
	opts := hjson.DefaultDecoderOptions()
	opts.UseJSONNumber = true
	opts.WhitespaceAsComments = false

	var node hjson.Node
	if err := hjson.UnmarshalWithOptions([]byte(raw), &node, opts); err != nil {
		return nil, err
	}
	switch node.Value.(type) {
	case *hjson.OrderedMap, []interface{}:
	default:
		return nil, fmt.Errorf("content is not an object or array")
	}
	if hasComments(&node) {
		return nil, fmt.Errorf("content carries comments")
	}
	return convertValue(node.Value)
}

// hasComments walks the decoded node tree looking for captured comment
// text. With WhitespaceAsComments off, any non-empty comment field is a
// real // or /* */ or # comment.
func hasComments(n *hjson.Node) bool {
	if n == nil {
		return false
	}
	cm := n.Cm
	if cm.Before != "" || cm.Key != "" || cm.InsideFirst != "" || cm.InsideLast != "" || cm.After != "" {
		return true
	}
	switch v := n.Value.(type) {
	case *hjson.OrderedMap:
		for _, key := range v.Keys {
			if child, ok := v.Map[key].(*hjson.Node); ok && hasComments(child) {
				return true
			}
		}
	case []interface{}:
		for _, item := range v {
			if child, ok := item.(*hjson.Node); ok && hasComments(child) {
				return true
			}
		}
	}
	return false
}

// convertValue maps a decoded HJSON value onto the document tree. Number
// literals arrive as json.Number and keep their original text.
func convertValue(v interface{}) (*tree.Node, error) {
	switch val := v.(type) {
	case nil:
		return tree.NewNull(), nil
	case bool:
		return tree.NewBool(val), nil
	case string:
		return tree.NewString(val), nil
	case json.Number:
		return tree.NewNumber(val.String()), nil
	case float64:
		return tree.NewNumberFloat(val), nil
	case *hjson.Node:
		return convertValue(val.Value)
	case *hjson.OrderedMap:
		obj := tree.NewObject()
		for _, key := range val.Keys {
			child, err := convertValue(val.Map[key])
			if err != nil {
				return nil, err
			}
			obj.Set(key, child)
		}
		return obj, nil
	case []interface{}:
		arr := tree.NewArray()
		for _, item := range val {
			child, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			arr.Append(child)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unsupported hjson value of type %T", v)
	}
}
