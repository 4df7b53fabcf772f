package form

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
)

// Values arrive from JSON bodies, so numbers are float64 or json.Number and
// selectors may send ids as strings.

func toString(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("expected string, got %T", raw)
	}
}

// toOptionalInt maps null, "" and "indefinido" to nil.
func toOptionalInt(raw any) (*int, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" || strings.EqualFold(s, "indefinido") {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %q", v)
		}
		return &n, nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt || v >= math.MaxInt {
			return nil, fmt.Errorf("expected integer, got %v", v)
		}
		n := int(v)
		return &n, nil
	case int:
		return &v, nil
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %s", v)
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("expected integer, got %T", raw)
	}
}

// toInt treats an empty selection as 0, the unset value.
func toInt(raw any) (int, error) {
	n, err := toOptionalInt(raw)
	if err != nil || n == nil {
		return 0, err
	}
	return *n, nil
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("expected boolean, got %q", v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", raw)
	}
}

func toDate(raw any) (*domain.Date, error) {
	s, err := toString(raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toFileRef(raw any) (*domain.FileRef, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case *domain.FileRef:
		return v, nil
	case domain.FileRef:
		return &v, nil
	default:
		return nil, fmt.Errorf("expected file reference, got %T", raw)
	}
}

// assign converts raw and stores it in the named field of d.
func assign(d *domain.ProjectDraft, field string, raw any) error {
	var err error
	switch field {
	case domain.FieldNome:
		d.Nome, err = toString(raw)
	case domain.FieldDescricao:
		d.Descricao, err = toString(raw)
	case domain.FieldProgramaID:
		d.ProgramaID, err = toInt(raw)
	case domain.FieldDataInicio:
		d.DataInicio, err = toDate(raw)
	case domain.FieldDataFim:
		d.DataFim, err = toDate(raw)
	case domain.FieldTRL:
		d.TRL, err = toOptionalInt(raw)
	case domain.FieldAcatech:
		d.Acatech, err = toOptionalInt(raw)
	case domain.FieldPrioridade:
		d.Prioridade, err = toInt(raw)
	case domain.FieldPossuiImpulso:
		d.PossuiImpulso, err = toBool(raw)
	case domain.FieldImpulsoID:
		d.ImpulsoID, err = toOptionalInt(raw)
	case domain.FieldUpload:
		d.Upload, err = toFileRef(raw)
	default:
		return domain.ErrUnknownField
	}
	return err
}

// isSet reports whether field currently holds a value.
func isSet(d domain.ProjectDraft, field string) bool {
	switch field {
	case domain.FieldNome:
		return d.Nome != ""
	case domain.FieldDescricao:
		return d.Descricao != ""
	case domain.FieldProgramaID:
		return d.ProgramaID != 0
	case domain.FieldDataInicio:
		return d.DataInicio != nil
	case domain.FieldDataFim:
		return d.DataFim != nil
	case domain.FieldTRL:
		return d.TRL != nil
	case domain.FieldAcatech:
		return d.Acatech != nil
	case domain.FieldPrioridade:
		return d.Prioridade != 0
	case domain.FieldPossuiImpulso:
		return d.PossuiImpulso
	case domain.FieldImpulsoID:
		return d.ImpulsoID != nil
	case domain.FieldUpload:
		return d.Upload != nil
	}
	return false
}

// clearField resets a field to its empty value.
func clearField(d *domain.ProjectDraft, field string) {
	_ = assign(d, field, nil)
}
