package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrSessionNotFound = errors.New("draft session not found")
	ErrSubmitInFlight  = errors.New("submission already in progress")
	ErrUnknownField    = errors.New("unknown draft field")
	ErrAlreadyLoaded   = errors.New("draft already loaded from server record")
	ErrUploadTooLarge  = errors.New("upload exceeds maximum size")
)

// User-facing messages for submission failures.
const (
	PermissionDeniedMessage = "Você não tem permissão para cadastrar ou editar projetos desta empresa."
	RemoteFailureMessage    = "Não foi possível salvar o projeto. Tente novamente."
)

// ValidationErrors maps a field path to its message.
type ValidationErrors map[string]string

// Fields returns the failing paths in stable order.
func (v ValidationErrors) Fields() []string {
	out := make([]string, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range v.Fields() {
		parts = append(parts, f+": "+v[f])
	}
	return strings.Join(parts, "; ")
}

// ValidationFailedError is returned by submit when the draft does not validate.
// No network call has been made when it is returned.
type ValidationFailedError struct {
	Errors ValidationErrors
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Errors.Error())
}

// SubmissionKind classifies a failed submission.
type SubmissionKind string

const (
	KindPermission SubmissionKind = "permission"
	KindRemote     SubmissionKind = "remote"
)

// SubmissionError carries a user-displayable message for a failed remote call.
type SubmissionError struct {
	Kind       SubmissionKind
	Message    string
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// IsPermission reports whether err is a permission-denied submission failure.
func IsPermission(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se) && se.Kind == KindPermission
}
