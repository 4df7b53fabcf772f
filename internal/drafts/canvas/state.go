package canvas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Widget is the serialized form of one section: its layout, the joined text and
// the notes with their ids.
type Widget struct {
	Layout
	Value string `json:"value"`
	Items []Item `json:"items,omitempty"`
}

// State is a detached copy of the whole canvas keyed by section name.
type State map[string]Widget

func (sec *section) widget() Widget {
	return Widget{
		Layout: sec.layout,
		Value:  sec.text(),
		Items:  append([]Item(nil), sec.items...),
	}
}

// State returns a copy of every section.
func (s *Store) State() State {
	out := make(State, len(Sections))
	for _, name := range Sections {
		out[name] = s.sections[name].widget()
	}
	return out
}

// Serialize encodes the canvas as the layout blob stored by the remote API.
// Sections are written in display order.
func (s *Store) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.sections[name].widget())
		if err != nil {
			return nil, fmt.Errorf("encode canvas section %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Hydrate restores a previously serialized canvas. Unknown sections are
// ignored and missing ones start empty. The blob may itself be a JSON string
// holding the object, as the remote API returns it.
func (s *Store) Hydrate(blob []byte) error {
	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 || string(blob) == "null" {
		s.resetSections()
		return nil
	}

	if blob[0] == '"' {
		var inner string
		if err := json.Unmarshal(blob, &inner); err != nil {
			return fmt.Errorf("decode canvas blob: %w", err)
		}
		return s.Hydrate([]byte(inner))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return fmt.Errorf("decode canvas blob: %w", err)
	}

	st := make(State, len(raw))
	for name, msg := range raw {
		if !IsSection(name) {
			continue
		}
		var w Widget
		if err := json.Unmarshal(msg, &w); err != nil {
			return fmt.Errorf("decode canvas section %q: %w", name, err)
		}
		st[name] = w
	}
	s.HydrateState(st)
	return nil
}

// HydrateState replaces the canvas with st, applying the same defaults as Hydrate.
func (s *Store) HydrateState(st State) {
	s.resetSections()
	for name, w := range st {
		sec, ok := s.sections[name]
		if !ok {
			continue
		}
		if w.W > 0 && w.H > 0 {
			sec.layout = w.Layout
		}
		if len(w.Items) > 0 {
			sec.items = s.restoreItems(w.Items)
		} else {
			sec.items = s.itemsFromText(w.Value)
		}
	}
}

// restoreItems keeps stored ids, replacing blank or repeated ones.
func (s *Store) restoreItems(in []Item) []Item {
	out := make([]Item, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, it := range in {
		if strings.TrimSpace(it.Content) == "" {
			continue
		}
		if it.ID == "" || seen[it.ID] {
			it.ID = s.newID()
			for seen[it.ID] {
				it.ID = s.newID()
			}
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// itemsFromText splits a legacy textarea value into one note per non-blank line.
func (s *Store) itemsFromText(value string) []Item {
	var out []Item
	for _, line := range strings.Split(value, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, Item{ID: s.newID(), Content: line})
	}
	return out
}

func (s *Store) MarshalJSON() ([]byte, error) {
	return s.Serialize()
}

func (s *Store) UnmarshalJSON(b []byte) error {
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.rowHeightPx <= 0 {
		s.rowHeightPx = DefaultRowHeightPx
	}
	return s.Hydrate(b)
}
