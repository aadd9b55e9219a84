/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder builds model prompts from {{name}} templates.

Templates must be string constants. Runtime data is bound through an
encoder (BindText, BindJSON, BindYAML) so topics, drafts and critique
feedback reach the model as quoted data rather than as instructions:

	var draftPrompt = promptbuilder.MustNewPrompt(`Write a blog post about {{topic}}.

	Research:
	{{research}}`)

	p, err := draftPrompt.BindText("topic", topic)
	if err != nil {
		return err
	}
	p, err = p.BindYAML("research", research)
	if err != nil {
		return err
	}
	text, err := p.Build()

Prompts are immutable: each Bind returns a new Prompt, and binding the same
placeholder twice or building with an unbound placeholder is an error.
*/
package promptbuilder
