package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gate2way/gate2way-backend/internal/drafts/canvas"
	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
	"github.com/gate2way/gate2way-backend/internal/drafts/form"
	"github.com/gate2way/gate2way-backend/internal/drafts/repository"
	"github.com/gate2way/gate2way-backend/internal/drafts/validation"
	"github.com/gate2way/gate2way-backend/internal/logging"
)

// Config tunes a Manager. Zero values fall back to defaults.
type Config struct {
	RowHeightPx    int
	MaxUploadBytes int64
}

// Manager owns draft sessions: it loads them from the session store, applies
// one edit under a per-session lock and writes them back.
type Manager struct {
	store      repository.SessionStore
	remote     RemoteAPI
	coord      *Coordinator
	validator  *validation.Validator
	canvasOpts []canvas.Option
	maxUpload  int64
	locks      *keyedMutex
	now        func() time.Time
	newID      func() string
}

// NewManager creates a session manager backed by store and remote.
func NewManager(store repository.SessionStore, remote RemoteAPI, cfg Config) *Manager {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = validation.DefaultMaxUploadBytes
	}
	v := validation.New(validation.WithMaxUploadBytes(cfg.MaxUploadBytes))
	return &Manager{
		store:      store,
		remote:     remote,
		coord:      NewCoordinator(remote, v),
		validator:  v,
		canvasOpts: []canvas.Option{canvas.WithRowHeight(cfg.RowHeightPx)},
		maxUpload:  cfg.MaxUploadBytes,
		locks:      newKeyedMutex(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// View is the client-facing snapshot of a session.
type View struct {
	ID        string                     `json:"id"`
	Mode      domain.Mode                `json:"mode"`
	ProjectID int                        `json:"projectId,omitempty"`
	Values    domain.ProjectDraft        `json:"values"`
	Fields    map[string]form.FieldState `json:"fields"`
	Errors    domain.ValidationErrors    `json:"errors"`
	Dirty     map[string]bool            `json:"dirty"`
	Touched   map[string]bool            `json:"touched"`
	RootError string                     `json:"rootError,omitempty"`
	Canvas    canvas.State               `json:"canvas"`
	Limits    map[string]int             `json:"limits"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

func (m *Manager) view(s *Session) *View {
	limits := make(map[string]int, len(canvas.Sections))
	for _, name := range canvas.Sections {
		limits[name], _ = s.Canvas.MaxItems(name)
	}
	values := s.Form.Snapshot()
	return &View{
		ID:        s.ID,
		Mode:      s.Mode,
		ProjectID: s.ProjectID,
		Values:    values,
		Fields:    form.Evaluate(values),
		Errors:    s.Form.Errors(),
		Dirty:     s.Form.Dirty(),
		Touched:   s.Form.Touched(),
		RootError: s.Form.RootError(),
		Canvas:    s.Canvas.State(),
		Limits:    limits,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	b, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s, err := m.decodeSession(b)
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return s, nil
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	b, err := encodeSession(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	return m.store.Save(ctx, s.ID, b)
}

// update runs fn against the stored session and saves the result. Nothing is
// saved when fn fails.
func (m *Manager) update(ctx context.Context, id string, fn func(*Session) error) (*View, error) {
	unlock := m.locks.lock(id)
	defer unlock()

	s, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = m.now()
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	return m.view(s), nil
}

// Open starts an empty create-mode session.
func (m *Manager) Open(ctx context.Context) (*View, error) {
	s := m.newSession(m.newID(), domain.ModeCreate, 0)
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	logging.NewLogger(ctx).LogInfof("open_draft", "opened create session %s", s.ID)
	return m.view(s), nil
}

// OpenForEdit starts an edit-mode session seeded from the stored project.
// A canvas blob that cannot be decoded leaves the canvas at its defaults.
func (m *Manager) OpenForEdit(ctx context.Context, projectID int) (*View, error) {
	rec, err := m.remote.GetProjeto(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetch project %d: %w", projectID, err)
	}
	draft, err := rec.Draft()
	if err != nil {
		return nil, fmt.Errorf("map project %d: %w", projectID, err)
	}

	s := m.newSession(m.newID(), domain.ModeEdit, projectID)
	if err := s.Form.Reset(draft); err != nil {
		return nil, err
	}
	if err := s.Canvas.Hydrate(rec.Estilo); err != nil {
		logging.NewLogger(ctx).LogWarnf("open_draft", "project %d has an unreadable canvas: %v", projectID, err)
	}

	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	logging.NewLogger(ctx).LogInfof("open_draft", "opened edit session %s for project %d", s.ID, projectID)
	return m.view(s), nil
}

// View returns the current state of a session.
func (m *Manager) View(ctx context.Context, id string) (*View, error) {
	s, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.view(s), nil
}

// Cancel discards a session and its attachment.
func (m *Manager) Cancel(ctx context.Context, id string) error {
	unlock := m.locks.lock(id)
	defer unlock()

	if _, err := m.store.Get(ctx, id); err != nil {
		return err
	}
	return m.store.Delete(ctx, id)
}

// SetField changes one field value. Clearing the upload field also drops the
// stored attachment.
func (m *Manager) SetField(ctx context.Context, id, field string, value any) (*View, error) {
	if field == domain.FieldUpload && value == nil {
		return m.DetachUpload(ctx, id)
	}
	return m.update(ctx, id, func(s *Session) error {
		return s.Form.SetValue(field, value)
	})
}

// Validate runs the full schema and exposes every error on the session.
func (m *Manager) Validate(ctx context.Context, id string) (*View, error) {
	return m.update(ctx, id, func(s *Session) error {
		s.Form.ValidateAll()
		return nil
	})
}

// AddNote appends a note to a canvas section.
func (m *Manager) AddNote(ctx context.Context, id, section, content string) (canvas.Item, *View, error) {
	var item canvas.Item
	v, err := m.update(ctx, id, func(s *Session) error {
		var err error
		item, err = s.Canvas.AddItem(section, content)
		return err
	})
	return item, v, err
}

// EditNote replaces the text of a note. Blank content leaves the note as is.
func (m *Manager) EditNote(ctx context.Context, id, section, itemID, content string) (*View, error) {
	return m.update(ctx, id, func(s *Session) error {
		return s.Canvas.EditItem(section, itemID, content)
	})
}

// RemoveNote deletes a note.
func (m *Manager) RemoveNote(ctx context.Context, id, section, itemID string) (*View, error) {
	return m.update(ctx, id, func(s *Session) error {
		return s.Canvas.RemoveItem(section, itemID)
	})
}

// ReorderNotes moves the note at from to position to.
func (m *Manager) ReorderNotes(ctx context.Context, id, section string, from, to int) (*View, error) {
	return m.update(ctx, id, func(s *Session) error {
		return s.Canvas.Reorder(section, from, to)
	})
}

// SetLayout moves or resizes a canvas widget.
func (m *Manager) SetLayout(ctx context.Context, id, section string, l canvas.Layout) (*View, error) {
	return m.update(ctx, id, func(s *Session) error {
		return s.Canvas.SetLayout(section, l)
	})
}

// AttachUpload stores the attachment bytes next to the session and records the
// file reference on the draft. Type problems surface as a field error.
func (m *Manager) AttachUpload(ctx context.Context, id, name, mediaType string, data []byte) (*View, error) {
	if int64(len(data)) > m.maxUpload {
		return nil, domain.ErrUploadTooLarge
	}
	return m.update(ctx, id, func(s *Session) error {
		if err := m.store.PutUpload(ctx, id, data); err != nil {
			return err
		}
		return s.Form.SetValue(domain.FieldUpload, &domain.FileRef{
			Name:       name,
			MediaType:  mediaType,
			SizeBytes:  int64(len(data)),
			ContentKey: m.newID(),
		})
	})
}

// DetachUpload removes the attachment.
func (m *Manager) DetachUpload(ctx context.Context, id string) (*View, error) {
	return m.update(ctx, id, func(s *Session) error {
		if err := m.store.DeleteUpload(ctx, id); err != nil {
			return err
		}
		return s.Form.SetValue(domain.FieldUpload, nil)
	})
}

// Submit sends the session to the remote API. Only one submission per session
// may be in flight; a second call returns domain.ErrSubmitInFlight and leaves
// the first alone. A successful submission discards the session. A permission
// failure is recorded as the session's root error and any other outcome clears
// it; field values always survive a failed submission.
func (m *Manager) Submit(ctx context.Context, id string) (json.RawMessage, error) {
	logger := logging.NewLogger(ctx)

	ok, err := m.store.AcquireSubmit(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrSubmitInFlight
	}
	defer func() {
		if err := m.store.ReleaseSubmit(context.WithoutCancel(ctx), id); err != nil {
			logger.LogWarnf("submit_draft", "release submit flag for %s: %v", id, err)
		}
	}()

	in, err := m.submitInput(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err := m.coord.Submit(ctx, in)
	var invalid *domain.ValidationFailedError
	switch {
	case err == nil:
		if err := m.store.Delete(ctx, id); err != nil {
			logger.LogWarnf("submit_draft", "discard submitted session %s: %v", id, err)
		}
		logger.LogInfof("submit_draft", "session %s submitted (%s)", id, in.Mode)
		return resp, nil

	case errors.As(err, &invalid):
		if _, uerr := m.update(ctx, id, func(s *Session) error {
			s.Form.ValidateAll()
			return nil
		}); uerr != nil {
			logger.LogWarnf("submit_draft", "record validation errors for %s: %v", id, uerr)
		}
		return nil, err

	case domain.IsPermission(err):
		var se *domain.SubmissionError
		errors.As(err, &se)
		if _, uerr := m.update(ctx, id, func(s *Session) error {
			s.Form.SetRootError(se.Message)
			return nil
		}); uerr != nil {
			logger.LogWarnf("submit_draft", "record root error for %s: %v", id, uerr)
		}
		return nil, err

	default:
		return nil, err
	}
}

func (m *Manager) submitInput(ctx context.Context, id string) (SubmitInput, error) {
	unlock := m.locks.lock(id)
	defer unlock()

	s, err := m.load(ctx, id)
	if err != nil {
		return SubmitInput{}, err
	}
	// Each attempt starts without the previous attempt's root error.
	if s.Form.RootError() != "" {
		s.Form.ClearRootError()
		s.UpdatedAt = m.now()
		if err := m.save(ctx, s); err != nil {
			return SubmitInput{}, err
		}
	}
	in := SubmitInput{
		Mode:      s.Mode,
		ProjectID: s.ProjectID,
		Draft:     s.Form.Snapshot(),
		Canvas:    s.Canvas,
	}
	if in.Draft.Upload != nil {
		if in.Attachment, err = m.store.GetUpload(ctx, id); err != nil {
			return SubmitInput{}, fmt.Errorf("load attachment: %w", err)
		}
	}
	return in, nil
}
