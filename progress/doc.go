// Package progress reports completion of long-running batches, such as
// email generation and corpus indexing, on a terminal.
package progress
