package http

type setFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

type noteRequest struct {
	Content string `json:"content"`
}

type reorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}
