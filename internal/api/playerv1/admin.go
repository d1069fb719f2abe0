package playerv1

// SessionInfo describes a live browser session.
type SessionInfo struct {
	Id         string       `json:"id"`
	CreatedAt  string       `json:"createdAt"`
	LastSeenAt string       `json:"lastSeenAt"`
	Streams    int32        `json:"streams"`
	State      *PlayerState `json:"state"`
}

type ListSessionsRequest struct{}

type ListSessionsResponse struct {
	Sessions []*SessionInfo `json:"sessions"`
}

type CloseSessionRequest struct {
	SessionId string `json:"sessionId"`
}

type CloseSessionResponse struct{}

type RefreshCatalogRequest struct {
	// Warm refetches the listing right after dropping the cache.
	Warm bool `json:"warm"`
}

type RefreshCatalogResponse struct {
	Invalidated int32 `json:"invalidated"`
	Episodes    int32 `json:"episodes"`
}
