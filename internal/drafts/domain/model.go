package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for project dates.
const DateLayout = "2006-01-02"

// Date is a calendar day without time-of-day or zone.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "YYYY-MM-DD" and RFC 3339 timestamps (the remote API sometimes
// returns the latter for date columns).
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	y, m, d := t.Date()
	return NewDate(y, m, d), nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// FileRef describes an attachment independently of how the client picked it.
// ContentKey addresses the bytes held next to the draft session.
type FileRef struct {
	Name       string `json:"name"`
	MediaType  string `json:"mediaType,omitempty"`
	SizeBytes  int64  `json:"sizeBytes"`
	ContentKey string `json:"contentKey,omitempty"`
}

// ProjectDraft is the in-progress, not yet submitted project record.
type ProjectDraft struct {
	Nome          string   `json:"nome"`
	Descricao     string   `json:"descricao"`
	ProgramaID    int      `json:"programaId"`
	DataInicio    *Date    `json:"dataInicio"`
	DataFim       *Date    `json:"dataFim"`
	TRL           *int     `json:"trl"`
	Acatech       *int     `json:"acatech"`
	Prioridade    int      `json:"prioridade"`
	PossuiImpulso bool     `json:"possuiImpulso"`
	ImpulsoID     *int     `json:"impulsoId"`
	Upload        *FileRef `json:"upload"`
}

// ValidatedDraft is a draft that passed every schema rule. Optional codes stay
// pointers; everything else is guaranteed present.
type ValidatedDraft struct {
	Nome          string
	Descricao     string
	ProgramaID    int
	DataInicio    Date
	DataFim       Date
	TRL           *int
	Acatech       *int
	Prioridade    int
	PossuiImpulso bool
	ImpulsoID     *int
	Upload        *FileRef
}

// Option is one entry of a selector list (programs, incentive types).
type Option struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Mode tells whether a session creates a new project or edits an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Maturity and priority codes share the same 1..3 range.
const (
	CodeMin = 1
	CodeMax = 3
)

// AllowedUploadExtensions lists accepted attachment extensions, lower-case, no dot.
var AllowedUploadExtensions = []string{"pdf", "doc", "docx", "odt"}

// IntPtr is a small helper for optional ids and codes.
func IntPtr(v int) *int { return &v }
