/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Bindable is implemented by executor request types. Bind fills the
// request's data into the executor's prompt template.
type Bindable interface {
	Bind(prompt *Prompt) (*Prompt, error)
}
