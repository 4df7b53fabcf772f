package domain

// Field paths, equal to the JSON names of ProjectDraft.
const (
	FieldNome          = "nome"
	FieldDescricao     = "descricao"
	FieldProgramaID    = "programaId"
	FieldDataInicio    = "dataInicio"
	FieldDataFim       = "dataFim"
	FieldTRL           = "trl"
	FieldAcatech       = "acatech"
	FieldPrioridade    = "prioridade"
	FieldPossuiImpulso = "possuiImpulso"
	FieldImpulsoID     = "impulsoId"
	FieldUpload        = "upload"
)

// Fields lists every draft field in display order.
var Fields = []string{
	FieldNome,
	FieldDescricao,
	FieldProgramaID,
	FieldDataInicio,
	FieldDataFim,
	FieldTRL,
	FieldAcatech,
	FieldPrioridade,
	FieldPossuiImpulso,
	FieldImpulsoID,
	FieldUpload,
}

// IsField reports whether name is a known draft field.
func IsField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}
