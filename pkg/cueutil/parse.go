// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult holds a decoded document and the unified value it came from.
type ParseResult[T any] struct {
	Value   *T
	Unified cue.Value
}

// Unify compiles schema and data, unifies data with the schema definition
// at schemaPath and validates the result.
func Unify(schema, data []byte, schemaPath string, opts ...Option) (cue.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileBytes(schema)
	if err := schemaValue.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}
	def := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if err := def.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := userValue.Err(); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	return unified, nil
}

// ParseAndDecode validates data against the schema definition and decodes
// it into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	unified, err := Unify(schema, data, schemaPath, opts...)
	if err != nil {
		return nil, err
	}
	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, filenameOf(opts))
	}
	return &ParseResult[T]{Value: &out, Unified: unified}, nil
}

// DecodeMap validates data against the schema definition and decodes it
// into a generic map.
func DecodeMap(schema, data []byte, schemaPath string, opts ...Option) (map[string]any, error) {
	unified, err := Unify(schema, data, schemaPath, opts...)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, filenameOf(opts))
	}
	return out, nil
}

func filenameOf(opts []Option) string {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o.filename
}
