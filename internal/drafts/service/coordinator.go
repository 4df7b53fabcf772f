package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gate2way/gate2way-backend/internal/drafts/canvas"
	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
	"github.com/gate2way/gate2way-backend/internal/drafts/validation"
	"github.com/gate2way/gate2way-backend/internal/gateway"
	"github.com/gate2way/gate2way-backend/internal/logging"
)

// Multipart field names expected by the remote API.
const (
	partNome          = "nome"
	partDescricao     = "descricao"
	partProgramaID    = "programa_id"
	partDataInicio    = "data_inicio"
	partDataFim       = "data_fim"
	partTRL           = "trl"
	partAcatech       = "acatech"
	partPrioridade    = "prioridade"
	partPossuiImpulso = "possui_impulso"
	partImpulsoID     = "impulso_id"
	partEstilo        = "estilo"
	partUpload        = "upload"
)

// SubmitInput is everything a submission needs from a draft session.
type SubmitInput struct {
	Mode      domain.Mode
	ProjectID int
	Draft     domain.ProjectDraft
	Canvas    *canvas.Store
	// Attachment holds the bytes behind Draft.Upload, if any.
	Attachment []byte
}

// Coordinator turns a validated draft and its canvas into one create or update
// call against the remote API.
type Coordinator struct {
	remote    RemoteAPI
	validator *validation.Validator
}

// NewCoordinator creates a coordinator. A nil validator uses the default rules.
func NewCoordinator(remote RemoteAPI, v *validation.Validator) *Coordinator {
	if v == nil {
		v = validation.Default()
	}
	return &Coordinator{remote: remote, validator: v}
}

// Submit validates the draft and, when valid, sends it. It returns
// *domain.ValidationFailedError without any network call when the draft is
// invalid, and *domain.SubmissionError when the remote call fails. The remote
// response body is returned on success.
func (c *Coordinator) Submit(ctx context.Context, in SubmitInput) (json.RawMessage, error) {
	valid, errs := c.validator.Validate(in.Draft)
	if len(errs) > 0 {
		return nil, &domain.ValidationFailedError{Errors: errs}
	}

	payload, err := buildPayload(valid, in.Canvas, in.Attachment)
	if err != nil {
		return nil, err
	}

	var resp json.RawMessage
	if in.Mode == domain.ModeEdit {
		resp, err = c.remote.UpdateProjeto(ctx, in.ProjectID, payload)
	} else {
		resp, err = c.remote.CreateProjeto(ctx, payload)
	}
	if err != nil {
		logging.NewLogger(ctx).LogError("submit_project", err)
		return nil, classify(err)
	}
	return resp, nil
}

func buildPayload(d domain.ValidatedDraft, c *canvas.Store, attachment []byte) (*gateway.ProjectPayload, error) {
	if c == nil {
		c = canvas.NewStore()
	}

	p := &gateway.ProjectPayload{}
	p.Add(partNome, d.Nome)
	p.Add(partDescricao, d.Descricao)
	p.Add(partProgramaID, strconv.Itoa(d.ProgramaID))
	p.Add(partDataInicio, d.DataInicio.String())
	p.Add(partDataFim, d.DataFim.String())
	p.Add(partTRL, optionalInt(d.TRL))
	p.Add(partAcatech, optionalInt(d.Acatech))
	p.Add(partPrioridade, strconv.Itoa(d.Prioridade))
	p.Add(partPossuiImpulso, strconv.FormatBool(d.PossuiImpulso))
	p.Add(partImpulsoID, optionalInt(d.ImpulsoID))

	texts := c.Texts()
	for _, name := range canvas.Sections {
		p.Add(name, texts[name])
	}

	estilo, err := c.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize canvas: %w", err)
	}
	p.Add(partEstilo, string(estilo))

	if d.Upload != nil && attachment != nil {
		p.File = &gateway.FilePart{
			FieldName:   partUpload,
			FileName:    d.Upload.Name,
			ContentType: d.Upload.MediaType,
			Content:     bytes.NewReader(attachment),
		}
	}
	return p, nil
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// classify maps a gateway failure onto a user-facing submission error. Only a
// 403 is a permission problem; every other failure is worth a retry.
func classify(err error) *domain.SubmissionError {
	se := &domain.SubmissionError{
		Kind:    domain.KindRemote,
		Message: domain.RemoteFailureMessage,
		Err:     err,
	}
	var status *gateway.StatusError
	if errors.As(err, &status) {
		se.StatusCode = status.StatusCode
	}
	if gateway.IsForbidden(err) {
		se.Kind = domain.KindPermission
		se.Message = domain.PermissionDeniedMessage
	}
	return se
}
