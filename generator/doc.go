// Package generator produces synthetic email records with a chat model.
//
// Each record comes from one system prompt (a wealth-manager persona), one
// user prompt, the email JSON Schema, and fixed sampling parameters. The
// reply is validated against the schema and the domain rules in core; any
// failure triggers another attempt after an exponential, clamped delay. A
// record that passes is written to the sink.
//
// RunBatch fans out independent tasks on an ants pool and reports how many
// produced a record:
//
//	gen, err := generator.NewGenerator(provider.ChatModel(), dirSink)
//	result := gen.RunBatch(ctx, 30)
//	fmt.Printf("%d/%d emails created\n", result.Succeeded, result.Requested)
package generator
