package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/kibble/pkg/errors"
	"github.com/matzehuels/kibble/pkg/tree"
)

// ParseStrict decodes a standard JSON document into a tree. Unlike [Parse]
// it accepts none of the relaxed syntax: comments, trailing commas, unquoted
// keys, and triple-quoted strings are all errors. Number literals are kept
// byte for byte as they appear in the input.
//
// The wire store and the embedded-field transforms use this entry point,
// where inputs are machine-written JSON and leniency would mask corruption.
func ParseStrict(data []byte) (*tree.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidSyntax, "unexpected end of input")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "parse document")
	}
	doc, err := strictValue(dec, tok)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "parse document")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidSyntax, "unexpected content after document")
	}
	return doc, nil
}

// strictValue builds the node for the value tok introduces, consuming nested
// tokens from dec as needed.
func strictValue(dec *json.Decoder, tok json.Token) (*tree.Node, error) {
	switch v := tok.(type) {
	case nil:
		return tree.NewNull(), nil
	case bool:
		return tree.NewBool(v), nil
	case json.Number:
		return tree.NewNumber(v.String()), nil
	case string:
		return tree.NewString(v), nil
	case json.Delim:
		switch v {
		case '{':
			return strictObject(dec)
		case '[':
			return strictArray(dec)
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func strictObject(dec *json.Decoder) (*tree.Node, error) {
	obj := tree.NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := strictValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func strictArray(dec *json.Decoder) (*tree.Node, error) {
	arr := tree.NewArray()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		item, err := strictValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr.Append(item)
	}
	// Consume the closing bracket.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}
