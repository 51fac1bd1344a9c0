package models

import "github.com/google/uuid"

// Realtime event types published on the user channel
const (
	EventReady       = "READY"
	EventDiaryScene  = "DIARY_SCENE"
	EventDiarySaved  = "DIARY_SAVED"
	EventDiveCreate  = "DIVE_CREATE"
	EventDiveUpdate  = "DIVE_UPDATE"
	EventDiveDelete  = "DIVE_DELETE"
	EventSightingAdd = "SIGHTING_ADD"
)

// ReadyEvent is sent when client connects with all initial data
type ReadyEvent struct {
	Profile *Profile   `json:"profile"`
	Dives   []*Dive    `json:"dives"`
	Stats   *DiveStats `json:"stats"`
}

type DiaryScenePayload struct {
	SessionID uuid.UUID `json:"session_id"`
	DiveID    uuid.UUID `json:"dive_id"`
	Scene     any       `json:"scene"`
}

type DiaryEntrySavedEvent struct {
	SessionID uuid.UUID   `json:"session_id"`
	Entry     *DiaryEntry `json:"entry"`
}

type DiveDeleteEvent struct {
	DiveID uuid.UUID `json:"dive_id"`
}

type SightingAddEvent struct {
	DiveID   uuid.UUID       `json:"dive_id"`
	Sighting *MarineSighting `json:"sighting"`
}
