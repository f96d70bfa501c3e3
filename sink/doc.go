// Package sink persists generated email records as JSON files and reads
// them back.
//
// Each record lands in its own file named after its batch index
// (email_000.json, email_001.json, ...). Files are indented UTF-8 JSON and
// use the external field name "from" for the sender.
package sink
