// Package retrieve implements hybrid retrieval over a vector index.
//
// For each question two sub-queries run against the same collection: a
// vector similarity search over the question embedding and a keyword
// search over the question text. The two result sets are normalized
// independently onto [0,1] and fused per chunk as
//
//	fused = alpha*keyword + (1-alpha)*vector
//
// with alpha defaulting to 0.3. Chunks found by only one sub-query score 0
// for the missing component. Equal fused scores break by ascending chunk
// sequence index so rankings are deterministic.
//
// The number of returned chunks scales with document size, from 3 for
// short documents up to 6 for long ones.
package retrieve
