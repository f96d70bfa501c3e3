package agent

const decisionPrompt = `[SYSTEM]
Determine if the query requires to search in an email database.
Respond STRICTLY with 'YES' or 'NO':

[QUERY]
%s`

const reformulatePrompt = `[SYSTEM]
Reformulate this query into an optimal form for semantic search.
Keep the original meaning but use more effective retrieval terms.

[QUERY]
%s

Respond ONLY with the optimized query.`

const answerPrompt = `[SYSTEM]
You are an email assistant. Use the provided context to answer the query.
If no relevant emails are found, state that clearly.

[CONTEXT]
%s

[QUERY]
%s

Provide a clear, concise answer in natural language.`
