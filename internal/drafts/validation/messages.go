package validation

import "github.com/gate2way/gate2way-backend/internal/drafts/domain"

const (
	tagBeforeEnd       = "beforeend"
	tagImpulsoRequired = "impulsorequired"
	tagFileType        = "filetype"
	tagFileSize        = "filesize"
)

var fieldMessages = map[string]map[string]string{
	domain.FieldNome: {
		"notblank": "O nome do projeto é obrigatório",
	},
	domain.FieldDescricao: {
		"notblank": "A descrição do projeto é obrigatória",
	},
	domain.FieldProgramaID: {
		"gt": "Selecione um programa",
	},
	domain.FieldDataInicio: {
		"required":   "Informe a data de início",
		tagBeforeEnd: "A data de início deve ser anterior à data de término",
	},
	domain.FieldDataFim: {
		"required": "Informe a data de término",
	},
	domain.FieldTRL: {
		"min": "TRL inválido",
		"max": "TRL inválido",
	},
	domain.FieldAcatech: {
		"min": "Índice ACATECH inválido",
		"max": "Índice ACATECH inválido",
	},
	domain.FieldPrioridade: {
		"min": "Selecione a prioridade",
		"max": "Prioridade inválida",
	},
	domain.FieldImpulsoID: {
		"gt":               "Selecione o impulso acadêmico",
		tagImpulsoRequired: "Selecione o impulso acadêmico",
	},
	domain.FieldUpload: {
		tagFileType: "Tipo de arquivo não permitido. Envie PDF, DOC, DOCX ou ODT",
		tagFileSize: "O arquivo excede o tamanho máximo permitido",
	},
}

var tagMessages = map[string]string{
	"required": "Campo obrigatório",
	"notblank": "Campo obrigatório",
	"gt":       "Valor inválido",
	"min":      "Valor inválido",
	"max":      "Valor inválido",
}

// TypeMessage is reported when a submitted value cannot be converted to the field type.
const TypeMessage = "Valor em formato inválido"

func message(field, tag string) string {
	if byTag, ok := fieldMessages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
	}
	if msg, ok := tagMessages[tag]; ok {
		return msg
	}
	return "Valor inválido"
}

// FileTypeMessage is the upload rejection message, exposed for callers that
// check attachments before they reach the draft.
func FileTypeMessage() string {
	return fieldMessages[domain.FieldUpload][tagFileType]
}
