package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
)

// NullInt decodes ids and codes that the API may send as numbers, numeric
// strings, "" or null.
type NullInt struct {
	Value int
	Valid bool
}

func (n *NullInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*n = NullInt{}
		return nil
	}
	s = strings.Trim(s, `"`)
	if strings.EqualFold(s, "indefinido") {
		*n = NullInt{}
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %s", string(b))
	}
	*n = NullInt{Value: v, Valid: true}
	return nil
}

// Ptr returns nil when the value is absent.
func (n NullInt) Ptr() *int {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

type optionRecord struct {
	ID        int    `json:"id"`
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
}

// decodeOptions accepts a bare array or a paginated {"results": [...]} body.
func decodeOptions(body []byte) ([]domain.Option, error) {
	body = bytes.TrimSpace(body)
	var records []optionRecord
	if len(body) > 0 && body[0] == '{' {
		var page struct {
			Results []optionRecord `json:"results"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
		records = page.Results
	} else if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}

	out := make([]domain.Option, 0, len(records))
	for _, r := range records {
		label := r.Nome
		if strings.TrimSpace(label) == "" {
			label = r.Descricao
		}
		out = append(out, domain.Option{ID: r.ID, Label: label})
	}
	return out, nil
}

// ProjectRecord is the detail representation of a project.
type ProjectRecord struct {
	ID            int             `json:"id"`
	Nome          string          `json:"nome"`
	Descricao     string          `json:"descricao"`
	ProgramaID    NullInt         `json:"programa_id"`
	Programa      NullInt         `json:"programa"`
	DataInicio    string          `json:"data_inicio"`
	DataFim       string          `json:"data_fim"`
	TRL           NullInt         `json:"trl"`
	Acatech       NullInt         `json:"acatech"`
	Prioridade    NullInt         `json:"prioridade"`
	PossuiImpulso bool            `json:"possui_impulso"`
	ImpulsoID     NullInt         `json:"impulso_id"`
	Upload        string          `json:"upload"`
	Estilo        json.RawMessage `json:"estilo"`
}

// Draft maps the record onto a ProjectDraft. The current attachment stays on
// the server and is not part of the draft.
func (r ProjectRecord) Draft() (domain.ProjectDraft, error) {
	d := domain.ProjectDraft{
		Nome:          r.Nome,
		Descricao:     r.Descricao,
		ProgramaID:    r.ProgramaID.Value,
		TRL:           r.TRL.Ptr(),
		Acatech:       r.Acatech.Ptr(),
		Prioridade:    r.Prioridade.Value,
		PossuiImpulso: r.PossuiImpulso,
		ImpulsoID:     r.ImpulsoID.Ptr(),
	}
	if !r.ProgramaID.Valid {
		d.ProgramaID = r.Programa.Value
	}

	var err error
	if d.DataInicio, err = optionalDate(r.DataInicio); err != nil {
		return domain.ProjectDraft{}, fmt.Errorf("data_inicio: %w", err)
	}
	if d.DataFim, err = optionalDate(r.DataFim); err != nil {
		return domain.ProjectDraft{}, fmt.Errorf("data_fim: %w", err)
	}
	return d, nil
}

func optionalDate(s string) (*domain.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FormField is one text part of a multipart submission.
type FormField struct {
	Name  string
	Value string
}

// FilePart is the optional attachment of a submission.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     io.Reader
}

// ProjectPayload is the outbound create/update body.
type ProjectPayload struct {
	Fields []FormField
	File   *FilePart
}

// Add appends a text field.
func (p *ProjectPayload) Add(name, value string) {
	p.Fields = append(p.Fields, FormField{Name: name, Value: value})
}

// Value returns the first value recorded for name.
func (p *ProjectPayload) Value(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
