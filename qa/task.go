package qa

// TaskState tracks one question through the answering pipeline.
type TaskState int

const (
	// TaskStatePending means the question is queued but not yet running.
	TaskStatePending TaskState = iota + 1
	// TaskStateRetrieving means chunk retrieval is in progress.
	TaskStateRetrieving
	// TaskStateGenerating means answer generation is in progress.
	TaskStateGenerating
	// TaskStateCompleted means an answer was produced.
	TaskStateCompleted
	// TaskStateFailed means the question failed or timed out.
	TaskStateFailed
)

// String returns the lowercase name of the state.
func (s TaskState) String() string {
	switch s {
	case TaskStatePending:
		return "pending"
	case TaskStateRetrieving:
		return "retrieving"
	case TaskStateGenerating:
		return "generating"
	case TaskStateCompleted:
		return "completed"
	case TaskStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one question in a batch. Index matches the
// question's position in the input slice.
type Result struct {
	Index    int
	Question string
	Answer   string
	Err      error
}
