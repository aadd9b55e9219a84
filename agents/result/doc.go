/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result turns free-form model responses into typed values.

Models asked for JSON often wrap it in Markdown fences or surround it with
prose. ExtractJSON recovers the object, Extract unmarshals it, and Decode
additionally validates it against the schema the model was given:

	critique, err := result.Decode[blog.Critique](text, schema.ReflectType[blog.Critique]())
*/
package result
