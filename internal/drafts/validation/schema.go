package validation

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
)

// DefaultMaxUploadBytes bounds attachment size when no option overrides it.
const DefaultMaxUploadBytes int64 = 10 << 20

// schema is the validated shape of a draft. Field-level rules live in tags;
// cross-field refinements live in refine.
type schema struct {
	Nome          string          `json:"nome" validate:"notblank"`
	Descricao     string          `json:"descricao" validate:"notblank"`
	ProgramaID    int             `json:"programaId" validate:"gt=0"`
	DataInicio    *time.Time      `json:"dataInicio" validate:"required"`
	DataFim       *time.Time      `json:"dataFim" validate:"required"`
	TRL           *int            `json:"trl" validate:"omitempty,min=1,max=3"`
	Acatech       *int            `json:"acatech" validate:"omitempty,min=1,max=3"`
	Prioridade    int             `json:"prioridade" validate:"min=1,max=3"`
	PossuiImpulso bool            `json:"possuiImpulso"`
	ImpulsoID     *int            `json:"impulsoId" validate:"omitempty,gt=0"`
	Upload        *domain.FileRef `json:"upload"`
}

// Validator checks drafts against the project schema.
type Validator struct {
	validate       *validator.Validate
	maxUploadBytes int64
}

// Option customises a Validator.
type Option func(*Validator)

// WithMaxUploadBytes overrides the attachment size limit.
func WithMaxUploadBytes(n int64) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxUploadBytes = n
		}
	}
}

// New builds a Validator with the project schema registered.
func New(opts ...Option) *Validator {
	v := &Validator{
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.validate.RegisterStructValidation(v.refine, schema{})
	return v
}

var std = New()

// Validate runs the default validator.
func Validate(d domain.ProjectDraft) (domain.ValidatedDraft, domain.ValidationErrors) {
	return std.Validate(d)
}

// Validate returns the typed draft, or the complete error set when any rule fails.
func (v *Validator) Validate(d domain.ProjectDraft) (domain.ValidatedDraft, domain.ValidationErrors) {
	errs := v.collect(d)
	if len(errs) > 0 {
		return domain.ValidatedDraft{}, errs
	}

	out := domain.ValidatedDraft{
		Nome:          strings.TrimSpace(d.Nome),
		Descricao:     strings.TrimSpace(d.Descricao),
		ProgramaID:    d.ProgramaID,
		DataInicio:    *d.DataInicio,
		DataFim:       *d.DataFim,
		TRL:           d.TRL,
		Acatech:       d.Acatech,
		Prioridade:    d.Prioridade,
		PossuiImpulso: d.PossuiImpulso,
		Upload:        d.Upload,
	}
	if d.PossuiImpulso {
		out.ImpulsoID = d.ImpulsoID
	}
	return out, nil
}

// ValidateField returns the message for one path, or "" when that path is valid.
func (v *Validator) ValidateField(d domain.ProjectDraft, field string) string {
	return v.collect(d)[field]
}

func (v *Validator) collect(d domain.ProjectDraft) domain.ValidationErrors {
	errs := domain.ValidationErrors{}

	err := v.validate.Struct(toSchema(d))
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[""] = err.Error()
		return errs
	}

	// Field-level errors are reported before struct-level refinements, so the
	// first message recorded for a path wins.
	for _, fe := range verrs {
		path := fe.Field()
		if _, seen := errs[path]; seen {
			continue
		}
		errs[path] = message(path, fe.Tag())
	}
	return errs
}

func (v *Validator) refine(sl validator.StructLevel) {
	s := sl.Current().Interface().(schema)

	if s.DataInicio != nil && s.DataFim != nil && !s.DataInicio.Before(*s.DataFim) {
		sl.ReportError(s.DataInicio, domain.FieldDataInicio, "DataInicio", tagBeforeEnd, "")
	}

	if s.PossuiImpulso && s.ImpulsoID == nil {
		sl.ReportError(s.ImpulsoID, domain.FieldImpulsoID, "ImpulsoID", tagImpulsoRequired, "")
	}

	if s.Upload != nil {
		if !allowedExtension(s.Upload.Name) {
			sl.ReportError(s.Upload, domain.FieldUpload, "Upload", tagFileType, "")
		} else if s.Upload.SizeBytes > v.maxUploadBytes {
			sl.ReportError(s.Upload, domain.FieldUpload, "Upload", tagFileSize, "")
		}
	}
}

func toSchema(d domain.ProjectDraft) schema {
	s := schema{
		Nome:          d.Nome,
		Descricao:     d.Descricao,
		ProgramaID:    d.ProgramaID,
		TRL:           d.TRL,
		Acatech:       d.Acatech,
		Prioridade:    d.Prioridade,
		PossuiImpulso: d.PossuiImpulso,
		ImpulsoID:     d.ImpulsoID,
		Upload:        d.Upload,
	}
	if d.DataInicio != nil {
		t := d.DataInicio.Time
		s.DataInicio = &t
	}
	if d.DataFim != nil {
		t := d.DataFim.Time
		s.DataFim = &t
	}
	return s
}

// allowedExtension compares the file extension case-insensitively.
func allowedExtension(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range domain.AllowedUploadExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Default returns the shared validator with default options.
func Default() *Validator { return std }
