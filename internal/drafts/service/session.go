package service

import (
	"encoding/json"
	"time"

	"github.com/gate2way/gate2way-backend/internal/drafts/canvas"
	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
	"github.com/gate2way/gate2way-backend/internal/drafts/form"
)

// Session is one independent draft: the form fields and the canvas edited
// together until submit or cancel.
type Session struct {
	ID        string
	Mode      domain.Mode
	ProjectID int
	Form      *form.Registry
	Canvas    *canvas.Store
	CreatedAt time.Time
	UpdatedAt time.Time
}

type sessionState struct {
	ID        string          `json:"id"`
	Mode      domain.Mode     `json:"mode"`
	ProjectID int             `json:"projectId,omitempty"`
	Form      json.RawMessage `json:"form"`
	Canvas    json.RawMessage `json:"canvas"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (m *Manager) newSession(id string, mode domain.Mode, projectID int) *Session {
	now := m.now()
	return &Session{
		ID:        id,
		Mode:      mode,
		ProjectID: projectID,
		Form:      form.NewRegistry(m.validator),
		Canvas:    canvas.NewStore(m.canvasOpts...),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func encodeSession(s *Session) ([]byte, error) {
	f, err := json.Marshal(s.Form)
	if err != nil {
		return nil, err
	}
	c, err := s.Canvas.Serialize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(sessionState{
		ID:        s.ID,
		Mode:      s.Mode,
		ProjectID: s.ProjectID,
		Form:      f,
		Canvas:    c,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	})
}

func (m *Manager) decodeSession(b []byte) (*Session, error) {
	var st sessionState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	s := m.newSession(st.ID, st.Mode, st.ProjectID)
	if err := json.Unmarshal(st.Form, s.Form); err != nil {
		return nil, err
	}
	if err := s.Canvas.Hydrate(st.Canvas); err != nil {
		return nil, err
	}
	s.CreatedAt = st.CreatedAt
	s.UpdatedAt = st.UpdatedAt
	return s, nil
}
