package diary

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"github.com/user/mysea-back/internal/models"
)

var ErrSessionNotFound = errors.New("diary session not found")

// Session is one open editor bound to a user and a dive.
type Session struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	DiveID         uuid.UUID
	BackgroundType string
	OpenedAt       time.Time

	mu      sync.Mutex
	editor  *Editor
	entryID uuid.UUID
}

// Do runs fn with exclusive access to the session's editor. All scene
// mutations go through here.
func (s *Session) Do(fn func(*Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.editor)
}

// View renders the scene under the session lock.
func (s *Session) View() SceneView {
	var v SceneView
	_ = s.Do(func(e *Editor) error {
		v = e.View()
		return nil
	})
	return v
}

// ApplyBatch applies gesture events in order and returns one result per event
// together with the scene as it stands afterwards.
func (s *Session) ApplyBatch(events []GestureEvent) ([]GestureResult, SceneView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]GestureResult, len(events))
	for i, ev := range events {
		results[i] = s.editor.Apply(ev)
	}
	return results, s.editor.View()
}

// Entry builds the stored form of the committed scene.
func (s *Session) Entry() *models.DiaryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &models.DiaryEntry{
		ID:             s.entryID,
		DiveID:         s.DiveID,
		UserID:         s.UserID,
		Elements:       ToDiaryElements(s.editor.Elements()),
		BackgroundType: s.BackgroundType,
	}
}

// MarkSaved records the id the store assigned to the entry.
func (s *Session) MarkSaved(entryID uuid.UUID) {
	s.mu.Lock()
	s.entryID = entryID
	s.mu.Unlock()
}

// Sessions keeps open editors, evicting those idle longer than the TTL.
type Sessions struct {
	lru *expirable.LRU[uuid.UUID, *Session]
}

func NewSessions(size int, ttl time.Duration) *Sessions {
	onEvict := func(id uuid.UUID, s *Session) {
		logrus.WithFields(logrus.Fields{
			"session_id": id,
			"user_id":    s.UserID,
			"dive_id":    s.DiveID,
		}).Debug("Diary session closed")
	}
	return &Sessions{lru: expirable.NewLRU[uuid.UUID, *Session](size, onEvict, ttl)}
}

// Open starts a session, seeded with a saved entry when one exists. A
// non-empty background overrides the saved one. The session is fully built
// before it becomes visible to Get.
func (s *Sessions) Open(userID, diveID uuid.UUID, opts EditorOptions, saved *models.DiaryEntry, background string) (*Session, error) {
	sess := &Session{
		ID:             uuid.New(),
		UserID:         userID,
		DiveID:         diveID,
		BackgroundType: models.DefaultBackgroundType,
		OpenedAt:       time.Now(),
		editor:         NewEditor(opts),
	}
	if saved != nil {
		if err := sess.editor.Load(FromDiaryElements(saved.Elements)); err != nil {
			return nil, err
		}
		sess.entryID = saved.ID
		if saved.BackgroundType != "" {
			sess.BackgroundType = saved.BackgroundType
		}
	}
	if background != "" {
		sess.BackgroundType = background
	}

	s.lru.Add(sess.ID, sess)
	return sess, nil
}

// Get returns the user's session and renews its idle timer.
func (s *Sessions) Get(id, userID uuid.UUID) (*Session, error) {
	sess, ok := s.lru.Get(id)
	if !ok || sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	s.lru.Add(id, sess)
	return sess, nil
}

func (s *Sessions) Close(id, userID uuid.UUID) error {
	sess, ok := s.lru.Peek(id)
	if !ok || sess.UserID != userID {
		return ErrSessionNotFound
	}
	s.lru.Remove(id)
	return nil
}

func (s *Sessions) Len() int {
	return s.lru.Len()
}
