// Package repl is the interactive console around the query pipeline.
//
// One line of input is one query. Typing "exit" in any letter case ends the
// session without running the pipeline; an interrupt (a canceled context)
// prints a farewell and ends it too.
package repl
