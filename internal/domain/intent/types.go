package intent

import "time"

// QuestionInput is one corpus record.
type QuestionInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

// Request asks for intents over a whole corpus.
type Request struct {
	Corpus    string          `json:"corpus"`
	Mode      Mode            `json:"mode,omitempty"`
	Questions []QuestionInput `json:"questions"`
}

// Assignment is the final intent of one corpus row.
type Assignment struct {
	Row      int    `json:"row"`
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Intent   string `json:"intent"`
	Source   Source `json:"source"`
}

// Stats summarizes a corpus pass.
type Stats struct {
	Rows          int `json:"rows"`
	Collisions    int `json:"collisions"`
	Regenerations int `json:"regenerations"`
	Passes        int `json:"passes"`
}

// Run is a validated intent map for one corpus.
type Run struct {
	ID          string       `json:"id"`
	Corpus      string       `json:"corpus"`
	Mode        Mode         `json:"mode"`
	Assignments []Assignment `json:"assignments"`
	Stats       Stats        `json:"stats"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Intents returns the identifiers in row order.
func (r Run) Intents() []string {
	out := make([]string, len(r.Assignments))
	for i, a := range r.Assignments {
		out[i] = a.Intent
	}
	return out
}

// StoredArtifact describes an exported file persisted by ArtifactStorage.
type StoredArtifact struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	ETag     string `json:"etag,omitempty"`
}

// ExportResult bundles a run with the chatbot configuration generated from it.
type ExportResult struct {
	Run       Run               `json:"run"`
	Artifacts []StoredArtifact  `json:"artifacts"`
	Files     map[string]string `json:"files"`
}
