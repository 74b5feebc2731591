package handlers

import (
	"net/http"

	"studysync-backend/internal/models"
)

type versionSource interface {
	Version() models.GroupsChangedEvent
}

// SyncHandler lets clients without a websocket poll for group changes.
type SyncHandler struct {
	sync versionSource
}

func NewSyncHandler(sync versionSource) *SyncHandler {
	return &SyncHandler{sync: sync}
}

func (h *SyncHandler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sync.Version())
}
