// Package answer generates grounded answers from retrieved document chunks.
//
// The prompt constrains the model to a professional legal register, a 3-4
// sentence answer, citations of structural references present in the
// excerpts, and context-only answering. Text inside the excerpts claiming
// to be an instruction is explicitly declared untrusted document content,
// defending against prompt injection from uploaded documents.
//
// When retrieval produced no chunks the generator returns a fixed
// insufficient-information answer without calling the model.
package answer
