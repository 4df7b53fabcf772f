package form

import "github.com/gate2way/gate2way-backend/internal/drafts/domain"

// FieldState is the derived visibility and requiredness of one field.
type FieldState struct {
	Visible  bool `json:"visible"`
	Required bool `json:"required"`
}

var alwaysRequired = map[string]bool{
	domain.FieldNome:       true,
	domain.FieldDescricao:  true,
	domain.FieldProgramaID: true,
	domain.FieldDataInicio: true,
	domain.FieldDataFim:    true,
	domain.FieldPrioridade: true,
}

// Evaluate derives field states from the current values. It has no side effects
// and returns the same result for the same draft.
func Evaluate(d domain.ProjectDraft) map[string]FieldState {
	out := make(map[string]FieldState, len(domain.Fields))
	for _, f := range domain.Fields {
		out[f] = FieldState{Visible: true, Required: alwaysRequired[f]}
	}
	out[domain.FieldImpulsoID] = FieldState{
		Visible:  d.PossuiImpulso,
		Required: d.PossuiImpulso,
	}
	return out
}

// Patch lists dependent fields a value change forces back to empty.
type Patch struct {
	Clear []string `json:"clear,omitempty"`
}

// Empty reports whether the patch has nothing to apply.
func (p Patch) Empty() bool { return len(p.Clear) == 0 }

// OnToggle is the state transition for gating fields: turning possuiImpulso off
// clears impulsoId so a hidden selection is never submitted.
func OnToggle(field string, value any) Patch {
	if field != domain.FieldPossuiImpulso {
		return Patch{}
	}
	if on, ok := value.(bool); ok && !on {
		return Patch{Clear: []string{domain.FieldImpulsoID}}
	}
	return Patch{}
}

// Hidden lists the fields Evaluate reports as not visible. A hidden field
// holds no value.
func Hidden(d domain.ProjectDraft) []string {
	states := Evaluate(d)
	var out []string
	for _, f := range domain.Fields {
		if !states[f].Visible {
			out = append(out, f)
		}
	}
	return out
}

var dependents = map[string][]string{
	domain.FieldPossuiImpulso: {domain.FieldImpulsoID},
	domain.FieldDataFim:       {domain.FieldDataInicio},
}

// Dependents returns the fields whose validity depends on field's value.
func Dependents(field string) []string {
	return dependents[field]
}
