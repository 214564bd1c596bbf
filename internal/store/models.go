package store

import "time"

// Trade is one export deal and owns the five workflow documents.
type Trade struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Document is one workflow step of a trade. Content is nil until the step is
// started; a nil-content document also has no file in the version repository.
type Document struct {
	ID           string    `json:"id"`
	TradeID      string    `json:"tradeId"`
	Slot         string    `json:"slot"`
	Content      *string   `json:"content,omitempty"`
	Mode         string    `json:"mode"` // manual, upload or skip
	UploadName   string    `json:"uploadName,omitempty"`
	UploadStatus string    `json:"uploadStatus,omitempty"` // "", "pending" or "mapped"
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Modes a document step can be worked in.
const (
	ModeManual = "manual"
	ModeUpload = "upload"
	ModeSkip   = "skip"
)

// Upload mapping states.
const (
	UploadPending = "pending"
	UploadMapped  = "mapped"
)

// VersionInfo is one entry of a document's version timeline.
type VersionInfo struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
