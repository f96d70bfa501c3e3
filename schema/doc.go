// Package schema declares the shape of structured LLM output and validates
// payloads against it.
//
// A Schema is a list of Fields. Each field has an internal name (the Go-side
// name) and an optional alias that is used on the wire. The rendered JSON
// Schema always uses the external name, so a model is asked for "from" even
// though the record type calls the field "sender".
//
// Validation is independent of generation: Validate accepts raw bytes,
// renames internal names to their aliases, and checks the result with
// github.com/kaptinlin/jsonschema.
//
//	s := schema.Email()
//	payload, err := s.Validate([]byte(reply))
//	if errors.Is(err, schema.ErrValidation) {
//	    // retry
//	}
package schema
