// Package agent implements the conditional retrieval-augmented query pipeline.
//
// For each query the agent:
//
//  1. asks a small model whether the question needs the email database
//     (a strict YES/NO reply, see ClassifyDecision)
//  2. on YES, asks the answer model to reformulate the question for semantic
//     search, retrieves the top three emails, and formats them as context
//  3. asks the answer model to answer the original question with that context
//
// ProcessQuery never returns an error. Any failure, including a panic in a
// collaborator, is logged and turned into FallbackResponse.
package agent
