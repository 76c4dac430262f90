package qa

// BatchMonitor provides hooks to observe a batch of questions being answered.
// Implement this interface to track task state transitions and results.
type BatchMonitor interface {
	Start(questions []string)
	TaskStateChanged(index int, state TaskState)
	TaskFinished(result Result)
	Finish(results []Result)
}

// noopBatchMonitor is a no-op implementation of BatchMonitor
type noopBatchMonitor struct{}

var _ BatchMonitor = (*noopBatchMonitor)(nil)

func (n *noopBatchMonitor) Start(_ []string)                    {}
func (n *noopBatchMonitor) TaskStateChanged(_ int, _ TaskState) {}
func (n *noopBatchMonitor) TaskFinished(_ Result)               {}
func (n *noopBatchMonitor) Finish(_ []Result)                   {}
