package retrieve

import "github.com/poiesic/counsel/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during retrieval.
type RetrievalMonitor interface {
	Start(query string)
	AfterVectorSearch(results []core.ScoredChunk)
	AfterKeywordSearch(results []core.ScoredChunk)
	AfterFusion(results []core.ScoredChunk)
	Finish(result *core.RetrievalResult)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterVectorSearch(_ []core.ScoredChunk) {}
func (n *noopMonitor) AfterKeywordSearch(_ []core.ScoredChunk) {}
func (n *noopMonitor) AfterFusion(_ []core.ScoredChunk)       {}
func (n *noopMonitor) Finish(_ *core.RetrievalResult)         {}
