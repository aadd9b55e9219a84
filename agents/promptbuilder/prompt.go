/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"unicode"
)

// stringLiteral only accepts untyped string constants, so literal bindings
// cannot carry runtime data.
type stringLiteral string

// Prompt is an immutable template with {{name}} placeholders.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt parses template and records its placeholders as unbound.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	bindings := make(map[string]binding)
	if _, err := substitute(string(template), func(name string) (string, error) {
		bindings[name] = unbound(name)
		return "", nil
	}); err != nil {
		return nil, err
	}
	return &Prompt{template: string(template), bindings: bindings}, nil
}

// MustNewPrompt is NewPrompt for package-level templates; it panics on error.
func MustNewPrompt(template stringLiteral) *Prompt {
	p, err := NewPrompt(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Placeholders returns the set of placeholder names in the template.
func (p *Prompt) Placeholders() map[string]struct{} {
	names := make(map[string]struct{}, len(p.bindings))
	for name := range p.bindings {
		names[name] = struct{}{}
	}
	return names
}

func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	current, ok := p.bindings[name]
	if !ok {
		return nil, fmt.Errorf("binding %q not found in template", name)
	}
	if _, isUnbound := current.(unbound); !isUnbound {
		return nil, fmt.Errorf("binding %q already bound", name)
	}
	next := &Prompt{template: p.template, bindings: maps.Clone(p.bindings)}
	next.bindings[name] = b
	return next, nil
}

// BindStringLiteral binds a developer-provided constant.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.bind(name, literal(value))
}

// BindText binds runtime text (a topic, critique feedback) as a quoted JSON
// string so it cannot be mistaken for instructions.
func (p *Prompt) BindText(name, value string) (*Prompt, error) {
	return p.bind(name, jsonValue{data: value})
}

// BindJSON binds data marshaled as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, jsonValue{data: data})
}

// BindYAML binds data marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, yamlValue{data: data})
}

// Build renders the prompt. Every placeholder must be bound. Substitution
// is single-pass, so bound values are never re-expanded.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for name, b := range p.bindings {
		v, err := b.value()
		if err != nil {
			return "", err
		}
		values[name] = v
	}
	return substitute(p.template, func(name string) (string, error) {
		return values[name], nil
	})
}

// substitute scans template once, replacing each {{name}} with resolve(name).
func substitute(template string, resolve func(name string) (string, error)) (string, error) {
	var out strings.Builder
	for {
		start := strings.Index(template, "{{")
		if start < 0 {
			out.WriteString(template)
			return out.String(), nil
		}
		out.WriteString(template[:start])
		end := strings.Index(template[start:], "}}")
		if end < 0 {
			return "", errors.New("unclosed binding: missing '}}'")
		}
		name := strings.TrimSpace(template[start+2 : start+end])
		if !validName(name) {
			return "", fmt.Errorf("invalid binding identifier %q", name)
		}
		v, err := resolve(name)
		if err != nil {
			return "", err
		}
		out.WriteString(v)
		template = template[start+end+2:]
	}
}

// validName accepts a letter followed by letters, digits or underscores.
func validName(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
