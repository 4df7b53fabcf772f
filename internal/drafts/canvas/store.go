package canvas

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnknownSection  = errors.New("unknown canvas section")
	ErrItemNotFound    = errors.New("canvas item not found")
	ErrEmptyContent    = errors.New("canvas item content is empty")
	ErrSectionFull     = errors.New("canvas section is full")
	ErrIndexOutOfRange = errors.New("canvas index out of range")
	ErrInvalidLayout   = errors.New("canvas layout must have positive width and height")
)

// Item is one sticky note.
type Item struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type section struct {
	layout Layout
	items  []Item
}

// Store keeps the ordered notes of every canvas section. Item ids are unique
// within a section for the life of the store. Not safe for concurrent use.
type Store struct {
	sections    map[string]*section
	rowHeightPx int
	newID       func() string
}

// Option customises a Store.
type Option func(*Store)

// WithRowHeight sets the pixel height of one grid row.
func WithRowHeight(px int) Option {
	return func(s *Store) {
		if px > 0 {
			s.rowHeightPx = px
		}
	}
}

// WithIDGenerator replaces the uuid generator, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore returns a canvas with every section empty at its default layout.
func NewStore(opts ...Option) *Store {
	s := &Store{
		rowHeightPx: DefaultRowHeightPx,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetSections()
	return s
}

func (s *Store) resetSections() {
	s.sections = make(map[string]*section, len(Sections))
	for _, name := range Sections {
		s.sections[name] = &section{layout: DefaultLayout(name)}
	}
}

func (s *Store) section(name string) (*section, error) {
	sec, ok := s.sections[name]
	if !ok {
		return nil, ErrUnknownSection
	}
	return sec, nil
}

// MaxItems is the current note limit of a section, derived from its height.
func (s *Store) MaxItems(name string) (int, error) {
	sec, err := s.section(name)
	if err != nil {
		return 0, err
	}
	return MaxItemsFor(sec.layout.H, s.rowHeightPx), nil
}

// AddItem appends a note. Blank content and full sections are rejected.
func (s *Store) AddItem(name, content string) (Item, error) {
	sec, err := s.section(name)
	if err != nil {
		return Item{}, err
	}
	if strings.TrimSpace(content) == "" {
		return Item{}, ErrEmptyContent
	}
	if len(sec.items) >= MaxItemsFor(sec.layout.H, s.rowHeightPx) {
		return Item{}, ErrSectionFull
	}

	item := Item{ID: s.uniqueID(sec), Content: content}
	sec.items = append(sec.items, item)
	return item, nil
}

func (s *Store) uniqueID(sec *section) string {
	for {
		id := s.newID()
		if sec.indexOf(id) < 0 {
			return id
		}
	}
}

func (sec *section) indexOf(id string) int {
	for i, it := range sec.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// RemoveItem deletes a note, keeping the order of the rest.
func (s *Store) RemoveItem(name, id string) error {
	sec, err := s.section(name)
	if err != nil {
		return err
	}
	i := sec.indexOf(id)
	if i < 0 {
		return ErrItemNotFound
	}
	sec.items = append(sec.items[:i], sec.items[i+1:]...)
	return nil
}

// EditItem replaces a note's content. Blank content is ignored.
func (s *Store) EditItem(name, id, content string) error {
	sec, err := s.section(name)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return nil
	}
	i := sec.indexOf(id)
	if i < 0 {
		return ErrItemNotFound
	}
	sec.items[i].Content = content
	return nil
}

// Reorder moves the note at from to position to. Ids are kept.
func (s *Store) Reorder(name string, from, to int) error {
	sec, err := s.section(name)
	if err != nil {
		return err
	}
	n := len(sec.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}

	moved := sec.items[from]
	items := make([]Item, 0, n)
	items = append(items, sec.items[:from]...)
	items = append(items, sec.items[from+1:]...)
	items = append(items[:to], append([]Item{moved}, items[to:]...)...)
	sec.items = items
	return nil
}

// SetLayout moves or resizes a section widget.
func (s *Store) SetLayout(name string, l Layout) error {
	sec, err := s.section(name)
	if err != nil {
		return err
	}
	if l.W <= 0 || l.H <= 0 || l.X < 0 || l.Y < 0 {
		return ErrInvalidLayout
	}
	sec.layout = l
	return nil
}

// Items returns a copy of a section's notes in order.
func (s *Store) Items(name string) ([]Item, error) {
	sec, err := s.section(name)
	if err != nil {
		return nil, err
	}
	return append([]Item(nil), sec.items...), nil
}

// Texts returns each section's notes joined by newlines, the textual value sent
// to the remote API.
func (s *Store) Texts() map[string]string {
	out := make(map[string]string, len(s.sections))
	for _, name := range Sections {
		out[name] = s.sections[name].text()
	}
	return out
}

func (sec *section) text() string {
	parts := make([]string, len(sec.items))
	for i, it := range sec.items {
		parts[i] = it.Content
	}
	return strings.Join(parts, "\n")
}
