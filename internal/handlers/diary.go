package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/user/mysea-back/internal/diary"
	"github.com/user/mysea-back/internal/dives"
	"github.com/user/mysea-back/internal/models"
)

type DiaryStore interface {
	GetByDive(ctx context.Context, userID, diveID uuid.UUID) (*models.DiaryEntry, error)
	Save(ctx context.Context, entry *models.DiaryEntry) (*models.DiaryEntry, error)
	Delete(ctx context.Context, userID, diveID uuid.UUID) error
}

type DiveGetter interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Dive, error)
}

type DiaryHandler struct {
	sessions     *diary.Sessions
	store        DiaryStore
	dives        DiveGetter
	notifier     Notifier
	canvasWidth  float64
	canvasHeight float64
	validator    *validator.Validate
}

func NewDiaryHandler(sessions *diary.Sessions, store DiaryStore, dives DiveGetter, notifier Notifier, canvasWidth, canvasHeight float64) *DiaryHandler {
	return &DiaryHandler{
		sessions:     sessions,
		store:        store,
		dives:        dives,
		notifier:     notifierOrNop(notifier),
		canvasWidth:  canvasWidth,
		canvasHeight: canvasHeight,
		validator:    validator.New(),
	}
}

type DiarySessionResponse struct {
	SessionID      uuid.UUID       `json:"session_id"`
	DiveID         uuid.UUID       `json:"dive_id"`
	BackgroundType string          `json:"background_type"`
	Scene          diary.SceneView `json:"scene"`
}

type AddDiaryElementResponse struct {
	Element diary.Element   `json:"element"`
	Scene   diary.SceneView `json:"scene"`
}

type GestureBatchRequest struct {
	Events []diary.GestureEvent `json:"events" validate:"required,min=1,max=512,dive"`
}

type GestureBatchResponse struct {
	Results []diary.GestureResult `json:"results"`
	Scene   diary.SceneView       `json:"scene"`
}

func sessionResponse(sess *diary.Session, view diary.SceneView) DiarySessionResponse {
	return DiarySessionResponse{
		SessionID:      sess.ID,
		DiveID:         sess.DiveID,
		BackgroundType: sess.BackgroundType,
		Scene:          view,
	}
}

func (h *DiaryHandler) publishScene(sess *diary.Session, view diary.SceneView) {
	_ = h.notifier.NotifyUser(sess.UserID, models.EventDiaryScene, models.DiaryScenePayload{
		SessionID: sess.ID,
		DiveID:    sess.DiveID,
		Scene:     view,
	})
}

// session resolves the {id} path value to one of the caller's open sessions.
func (h *DiaryHandler) session(w http.ResponseWriter, r *http.Request) (*diary.Session, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return nil, false
	}
	sessionID, ok := pathUUID(w, r, "id", "session")
	if !ok {
		return nil, false
	}

	sess, err := h.sessions.Get(sessionID, userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Diary session not found")
		return nil, false
	}
	return sess, true
}

// OpenSession starts editing a dive's diary page, seeded with the saved page.
func (h *DiaryHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.OpenDiarySessionRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}
	diveID := uuid.MustParse(req.DiveID)

	if _, err := h.dives.Get(r.Context(), userID, diveID); err != nil {
		if errors.Is(err, dives.ErrDiveNotFound) {
			respondError(w, http.StatusNotFound, "Dive not found")
			return
		}
		respondServerError(w, r, err, "Failed to fetch dive")
		return
	}

	saved, err := h.store.GetByDive(r.Context(), userID, diveID)
	if err != nil && !errors.Is(err, diary.ErrEntryNotFound) {
		respondServerError(w, r, err, "Failed to load diary")
		return
	}

	width, height := h.canvasWidth, h.canvasHeight
	if req.CanvasWidth > 0 && req.CanvasHeight > 0 {
		width, height = req.CanvasWidth, req.CanvasHeight
	}

	sess, err := h.sessions.Open(userID, diveID, diary.DefaultEditorOptions(width, height), saved, req.BackgroundType)
	if err != nil {
		respondServerError(w, r, err, "Failed to open diary")
		return
	}

	view := sess.View()
	h.publishScene(sess, view)
	respondJSON(w, http.StatusCreated, sessionResponse(sess, view))
}

func (h *DiaryHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse(sess, sess.View()))
}

// CloseSession drops the editor without saving.
func (h *DiaryHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	_ = h.sessions.Close(sess.ID, sess.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *DiaryHandler) OpenAffordance(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.OpenAffordanceRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	var view diary.SceneView
	_ = sess.Do(func(e *diary.Editor) error {
		e.OpenAffordance(diary.Affordance(req.Affordance))
		view = e.View()
		return nil
	})

	h.publishScene(sess, view)
	respondJSON(w, http.StatusOK, sessionResponse(sess, view))
}

func (h *DiaryHandler) AddElement(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.AddDiaryElementRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}
	if diary.Kind(req.Type) == diary.KindText && strings.TrimSpace(req.Content) == "" {
		respondError(w, http.StatusBadRequest, "Text content cannot be blank")
		return
	}

	var style *diary.Style
	if req.Color != "" || req.FontSize > 0 || req.FontWeight != "" {
		style = &diary.Style{Color: req.Color, FontSize: req.FontSize, FontWeight: req.FontWeight}
	}

	var (
		el   diary.Element
		view diary.SceneView
	)
	err := sess.Do(func(e *diary.Editor) error {
		var err error
		el, err = e.AddElement(diary.Kind(req.Type), req.Content, style)
		view = e.View()
		return err
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.publishScene(sess, view)
	respondJSON(w, http.StatusCreated, AddDiaryElementResponse{Element: el, Scene: view})
}

func (h *DiaryHandler) UpdateElement(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var patch diary.TransformPatch
	if !decodeValid(w, r, h.validator, &patch) {
		return
	}
	if patch.IsEmpty() {
		respondError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	h.mutate(w, r, sess, func(e *diary.Editor) error {
		return e.UpdateElement(r.PathValue("elementId"), patch)
	})
}

func (h *DiaryHandler) DeleteElement(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	h.mutate(w, r, sess, func(e *diary.Editor) error {
		return e.DeleteElement(r.PathValue("elementId"))
	})
}

// SelectElement toggles selection; an empty element_id deselects.
func (h *DiaryHandler) SelectElement(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.SelectDiaryElementRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	h.mutate(w, r, sess, func(e *diary.Editor) error {
		return e.SelectElement(req.ElementID)
	})
}

func (h *DiaryHandler) mutate(w http.ResponseWriter, r *http.Request, sess *diary.Session, fn func(*diary.Editor) error) {
	var view diary.SceneView
	err := sess.Do(func(e *diary.Editor) error {
		if err := fn(e); err != nil {
			return err
		}
		view = e.View()
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, diary.ErrElementNotFound):
			respondError(w, http.StatusNotFound, "Element not found")
		case errors.Is(err, diary.ErrInvalidGesture):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondServerError(w, r, err, "Failed to update diary")
		}
		return
	}

	h.publishScene(sess, view)
	respondJSON(w, http.StatusOK, sessionResponse(sess, view))
}

// ApplyGestures feeds a batch of touch events to the editor in order.
func (h *DiaryHandler) ApplyGestures(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req GestureBatchRequest
	if !decodeValid(w, r, h.validator, &req) {
		return
	}

	results, view := sess.ApplyBatch(req.Events)
	h.publishScene(sess, view)
	respondJSON(w, http.StatusOK, GestureBatchResponse{Results: results, Scene: view})
}

// SaveSession persists the committed scene. Live gestures are not saved.
func (h *DiaryHandler) SaveSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	entry, err := h.store.Save(r.Context(), sess.Entry())
	if err != nil {
		respondServerError(w, r, err, "Failed to save diary")
		return
	}
	sess.MarkSaved(entry.ID)

	_ = h.notifier.NotifyUser(sess.UserID, models.EventDiarySaved, models.DiaryEntrySavedEvent{
		SessionID: sess.ID,
		Entry:     entry,
	})
	respondJSON(w, http.StatusOK, entry)
}

func (h *DiaryHandler) GetDiveDiary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	diveID, ok := pathUUID(w, r, "id", "dive")
	if !ok {
		return
	}

	entry, err := h.store.GetByDive(r.Context(), userID, diveID)
	if err != nil {
		if errors.Is(err, diary.ErrEntryNotFound) {
			respondError(w, http.StatusNotFound, "Diary entry not found")
			return
		}
		respondServerError(w, r, err, "Failed to load diary")
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// DeleteDiveDiary removes the saved page. Open sessions keep their scene and
// would recreate the page on the next save.
func (h *DiaryHandler) DeleteDiveDiary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	diveID, ok := pathUUID(w, r, "id", "dive")
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), userID, diveID); err != nil {
		if errors.Is(err, diary.ErrEntryNotFound) {
			respondError(w, http.StatusNotFound, "Diary entry not found")
			return
		}
		respondServerError(w, r, err, "Failed to delete diary")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
