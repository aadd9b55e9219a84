/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidPayload is wrapped by Validate when a payload does not conform.
var ErrInvalidPayload = errors.New("payload does not match schema")

// Validate checks a JSON payload returned by a model against s.
func Validate(s *jsonschema.Schema, payload []byte) error {
	m, err := ToMap(s)
	if err != nil {
		return err
	}
	res, err := gojsonschema.Validate(gojsonschema.NewGoLoader(m), gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("validating payload: %w", err)
	}
	if res.Valid() {
		return nil
	}
	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(problems, "; "))
}
