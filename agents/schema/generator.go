/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// Generator reflects Go types into inline JSON schemas suitable for
// structured model output: required fields come from jsonschema tags and
// nested types are expanded rather than referenced.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator returns a Generator with the defaults every executor uses.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			AllowAdditionalProperties:  true,
			DoNotReference:             true,
		},
	}
}

// Reflect returns the JSON schema for v.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	return g.reflector.Reflect(v)
}

// ReflectType reflects T, looking through one level of pointer.
func ReflectType[T any]() *jsonschema.Schema {
	typ := reflect.TypeFor[T]()
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return NewGenerator().Reflect(reflect.New(typ).Interface())
}
