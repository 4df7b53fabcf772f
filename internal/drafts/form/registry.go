package form

import (
	"encoding/json"

	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
	"github.com/gate2way/gate2way-backend/internal/drafts/validation"
)

// Registry holds the current draft values and per-field dirty, touched and
// error state. It is not safe for concurrent use; sessions serialize access.
type Registry struct {
	values    domain.ProjectDraft
	dirty     map[string]bool
	touched   map[string]bool
	errors    domain.ValidationErrors
	rootError string
	loaded    bool

	validator *validation.Validator
}

// NewRegistry returns an empty registry. A nil validator uses the default one.
func NewRegistry(v *validation.Validator) *Registry {
	if v == nil {
		v = validation.Default()
	}
	return &Registry{
		dirty:     map[string]bool{},
		touched:   map[string]bool{},
		errors:    domain.ValidationErrors{},
		validator: v,
	}
}

// SetValue converts raw into the field's type and stores it. A value that cannot
// be converted leaves the previous value in place and records a field error.
// Dependent fields are patched and re-validated.
func (r *Registry) SetValue(field string, raw any) error {
	if !domain.IsField(field) {
		return domain.ErrUnknownField
	}

	r.touched[field] = true

	next := r.values
	if err := assign(&next, field, raw); err != nil {
		r.errors[field] = validation.TypeMessage
		return nil
	}

	r.values = next
	r.dirty[field] = true

	var toggled any
	if field == domain.FieldPossuiImpulso {
		toggled = r.values.PossuiImpulso
	}
	patch := OnToggle(field, toggled)
	for _, f := range patch.Clear {
		clearField(&r.values, f)
		r.dirty[f] = true
	}
	for _, f := range Hidden(r.values) {
		clearField(&r.values, f)
	}

	r.revalidate(field)
	for _, dep := range Dependents(field) {
		// Untouched empty fields with no visible error stay quiet until submit.
		if r.touched[dep] || r.errors[dep] != "" || isSet(r.values, dep) {
			r.revalidate(dep)
		}
	}
	return nil
}

func (r *Registry) revalidate(field string) {
	if msg := r.validator.ValidateField(r.values, field); msg != "" {
		r.errors[field] = msg
		return
	}
	delete(r.errors, field)
}

// Reset replaces all values with a fetched server record and clears dirty,
// touched and error state. It may only be called once per registry.
func (r *Registry) Reset(record domain.ProjectDraft) error {
	if r.loaded {
		return domain.ErrAlreadyLoaded
	}
	for _, f := range Hidden(record) {
		clearField(&record, f)
	}
	r.values = record
	r.dirty = map[string]bool{}
	r.touched = map[string]bool{}
	r.errors = domain.ValidationErrors{}
	r.rootError = ""
	r.loaded = true
	return nil
}

// ValidateAll runs the whole schema and makes the result the visible error set.
func (r *Registry) ValidateAll() domain.ValidationErrors {
	_, errs := r.validator.Validate(r.values)
	r.errors = domain.ValidationErrors{}
	for f, msg := range errs {
		r.errors[f] = msg
		r.touched[f] = true
	}
	return r.Errors()
}

// Snapshot returns a copy of the current draft.
func (r *Registry) Snapshot() domain.ProjectDraft {
	out := r.values
	out.DataInicio = copyDate(r.values.DataInicio)
	out.DataFim = copyDate(r.values.DataFim)
	out.TRL = copyInt(r.values.TRL)
	out.Acatech = copyInt(r.values.Acatech)
	out.ImpulsoID = copyInt(r.values.ImpulsoID)
	if r.values.Upload != nil {
		u := *r.values.Upload
		out.Upload = &u
	}
	return out
}

// FieldStates derives visibility and requiredness from the current values.
func (r *Registry) FieldStates() map[string]FieldState {
	return Evaluate(r.values)
}

func (r *Registry) Errors() domain.ValidationErrors {
	out := make(domain.ValidationErrors, len(r.errors))
	for k, v := range r.errors {
		out[k] = v
	}
	return out
}

func (r *Registry) Dirty() map[string]bool   { return copyFlags(r.dirty) }
func (r *Registry) Touched() map[string]bool { return copyFlags(r.touched) }
func (r *Registry) Loaded() bool             { return r.loaded }

// IsDirty reports whether any field changed since creation or Reset.
func (r *Registry) IsDirty() bool { return len(r.dirty) > 0 }

// RootError is the form-level error, distinct from field errors.
func (r *Registry) RootError() string       { return r.rootError }
func (r *Registry) SetRootError(msg string) { r.rootError = msg }
func (r *Registry) ClearRootError()         { r.rootError = "" }

type registryState struct {
	Values    domain.ProjectDraft     `json:"values"`
	Dirty     map[string]bool         `json:"dirty,omitempty"`
	Touched   map[string]bool         `json:"touched,omitempty"`
	Errors    domain.ValidationErrors `json:"errors,omitempty"`
	RootError string                  `json:"rootError,omitempty"`
	Loaded    bool                    `json:"loaded"`
}

func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(registryState{
		Values:    r.values,
		Dirty:     r.dirty,
		Touched:   r.touched,
		Errors:    r.errors,
		RootError: r.rootError,
		Loaded:    r.loaded,
	})
}

func (r *Registry) UnmarshalJSON(b []byte) error {
	var st registryState
	if err := json.Unmarshal(b, &st); err != nil {
		return err
	}
	r.values = st.Values
	r.dirty = orFlags(st.Dirty)
	r.touched = orFlags(st.Touched)
	r.errors = st.Errors
	if r.errors == nil {
		r.errors = domain.ValidationErrors{}
	}
	r.rootError = st.RootError
	r.loaded = st.Loaded
	if r.validator == nil {
		r.validator = validation.Default()
	}
	return nil
}

func copyFlags(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func orFlags(in map[string]bool) map[string]bool {
	if in == nil {
		return map[string]bool{}
	}
	return in
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyDate(p *domain.Date) *domain.Date {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
