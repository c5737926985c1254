package protocol

import "github.com/alexanderjmontague/jot-sub000/internal/models"

// Request types routed by the session.
const (
	TypePing          = "ping"
	TypeGetConfig     = "getConfig"
	TypeSetConfig     = "setConfig"
	TypeHasComments   = "hasComments"
	TypeGetThread     = "getThread"
	TypeGetAllThreads = "getAllThreads"
	TypeAppendComment = "appendComment"
	TypeDeleteComment = "deleteComment"
	TypeDeleteThread  = "deleteThread"
)

// Request is the envelope sent by the client. Parameters are flattened
// beside id and type; each request type reads only the fields it needs.
type Request struct {
	ID            int64                  `json:"id"`
	Type          string                 `json:"type"`
	URL           string                 `json:"url,omitempty"`
	Body          string                 `json:"body,omitempty"`
	CommentID     string                 `json:"commentId,omitempty"`
	VaultPath     string                 `json:"vaultPath,omitempty"`
	CommentFolder string                 `json:"commentFolder,omitempty"`
	Metadata      *models.ThreadMetadata `json:"metadata,omitempty"`
}

// Response is the envelope written back. ID always equals the triggering
// request's id so the client can correlate in-flight requests.
type Response struct {
	ID    int64  `json:"id"`
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// PingData is the ping success payload.
type PingData struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
