package process

// Status is the lifecycle phase carried by each stream event.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusResult     Status = "result"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Result is the analysis payload of one image: a generated filename, a
// short tag list, and a one-sentence description.
type Result struct {
	Name        string   `json:"name"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

// Event is one record of the processing stream. Fields are populated per
// status: uploading carries Progress/Total, result carries Index,
// OriginalName and Result, error carries Message.
type Event struct {
	Status       Status  `json:"status"`
	Message      string  `json:"message,omitempty"`
	Progress     int     `json:"progress,omitempty"`
	Total        int     `json:"total,omitempty"`
	Index        int     `json:"index,omitempty"`
	OriginalName string  `json:"original_name,omitempty"`
	Result       *Result `json:"result,omitempty"`
}
