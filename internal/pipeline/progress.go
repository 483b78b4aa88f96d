package pipeline

// ProgressUpdate describes a single step of document processing, emitted
// once per page.
type ProgressUpdate struct {
	Source     string `json:"source"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	Stage      string `json:"stage"`
	Fields     int    `json:"fields"`
}

// ProgressCallback receives progress updates during document processing.
// Callbacks run synchronously on the processing goroutine and should
// return quickly.
type ProgressCallback func(ProgressUpdate)

func (p *Pipeline) reportProgress(update ProgressUpdate) {
	if p.progress != nil {
		p.progress(update)
	}
}
