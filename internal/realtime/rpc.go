package realtime

import (
	"encoding/json"
	"errors"

	"github.com/centrifugal/centrifuge"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/user/mysea-back/internal/diary"
	"github.com/user/mysea-back/internal/models"
)

// RPCHandler serves one client RPC method for an authenticated user.
type RPCHandler func(userID uuid.UUID, data []byte) ([]byte, error)

const MethodDiaryGesture = "diary.gesture"

var (
	errBadRPCRequest = errors.New("bad rpc request")

	errorSessionNotFound = &centrifuge.Error{Code: 404, Message: "diary session not found"}
)

func rpcError(err error) *centrifuge.Error {
	switch {
	case errors.Is(err, diary.ErrSessionNotFound):
		return errorSessionNotFound
	case errors.Is(err, errBadRPCRequest):
		return centrifuge.ErrorBadRequest
	}
	return centrifuge.ErrorInternal
}

type GestureRequest struct {
	SessionID uuid.UUID            `json:"session_id"`
	Events    []diary.GestureEvent `json:"events" validate:"required,min=1,max=512,dive"`
}

type GestureReply struct {
	Results []diary.GestureResult `json:"results"`
	Scene   diary.SceneView       `json:"scene"`
}

type publishFunc func(userID uuid.UUID, eventType string, data interface{}) error

// GestureHandler streams touch events from the websocket into open diary
// sessions. It is the low-latency path next to the HTTP gestures endpoint.
type GestureHandler struct {
	sessions  *diary.Sessions
	publish   publishFunc
	validator *validator.Validate
}

func NewGestureHandler(sessions *diary.Sessions, n *Node) *GestureHandler {
	return &GestureHandler{
		sessions:  sessions,
		publish:   n.PublishToUser,
		validator: validator.New(),
	}
}

func (h *GestureHandler) Handle(userID uuid.UUID, data []byte) ([]byte, error) {
	var req GestureRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errBadRPCRequest
	}
	if err := h.validator.Struct(&req); err != nil {
		return nil, errBadRPCRequest
	}

	sess, err := h.sessions.Get(req.SessionID, userID)
	if err != nil {
		return nil, err
	}

	results, view := sess.ApplyBatch(req.Events)
	_ = h.publish(userID, models.EventDiaryScene, models.DiaryScenePayload{
		SessionID: sess.ID,
		DiveID:    sess.DiveID,
		Scene:     view,
	})

	return json.Marshal(GestureReply{Results: results, Scene: view})
}
