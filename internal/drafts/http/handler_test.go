package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gate2way/gate2way-backend/internal/drafts/canvas"
	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
	"github.com/gate2way/gate2way-backend/internal/drafts/repository"
	"github.com/gate2way/gate2way-backend/internal/drafts/service"
	"github.com/gate2way/gate2way-backend/internal/gateway"
)

// fakeAPI plays the remote Gate2Way API.
type fakeAPI struct {
	mu         sync.Mutex
	submitCode int
	auth       []string
	forms      []map[string][]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/programas":
		_, _ = w.Write([]byte(`[{"id":1,"nome":"Rota 2030"},{"id":2,"descricao":"Mover"}]`))
	case r.Method == http.MethodGet && r.URL.Path == "/impulsos":
		_, _ = w.Write([]byte(`{"results":[{"id":4,"nome":"Bolsa"}]}`))
	case r.Method == http.MethodGet && r.URL.Path == "/projetos/7":
		_, _ = w.Write([]byte(`{"id":7,"nome":"Salvo","descricao":"d","programa_id":1,
			"data_inicio":"2024-01-01","data_fim":"2024-03-01","trl":"indefinido","prioridade":3,
			"possui_impulso":true,"impulso_id":4,"estilo":"{\"custos\":{\"x\":8,\"y\":6,\"w\":2,\"h\":6,\"value\":\"Hardware\"}}"}`))
	case r.Method == http.MethodGet:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Não encontrado."}`))
	default:
		_ = r.ParseMultipartForm(1 << 20)
		f.mu.Lock()
		f.forms = append(f.forms, r.MultipartForm.Value)
		f.mu.Unlock()
		code := f.submitCode
		if code == 0 {
			code = http.StatusCreated
		}
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"id":55}`))
	}
}

type testServer struct {
	router *gin.Engine
	api    *fakeAPI
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &fakeAPI{}
	remote := httptest.NewServer(api)
	t.Cleanup(remote.Close)

	client := gateway.NewClient(remote.URL, gateway.Config{Timeout: 5 * time.Second})
	manager := service.NewManager(repository.NewMemoryStore(time.Hour), client, service.Config{MaxUploadBytes: 64})

	r := gin.New()
	NewHandler(manager, 64).Register(r.Group("/api/v1"))
	return &testServer{router: r, api: api}
}

type envelope struct {
	OK        bool              `json:"ok"`
	Error     string            `json:"error"`
	RootError string            `json:"root_error"`
	Errors    map[string]string `json:"errors"`
	Draft     service.View      `json:"draft"`
	Item      canvas.Item       `json:"item"`
	Options   service.Options   `json:"options"`
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (s *testServer) open(t *testing.T) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/drafts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, env.Draft.ID)
	return env.Draft.ID
}

func (s *testServer) fill(t *testing.T, id string) {
	t.Helper()
	for _, f := range []gin.H{
		{"field": "nome", "value": "Projeto"},
		{"field": "descricao", "value": "Descrição"},
		{"field": "programaId", "value": 1},
		{"field": "dataInicio", "value": "2024-01-01"},
		{"field": "dataFim", "value": "2024-02-01"},
		{"field": "prioridade", "value": 2},
	} {
		w, _ := s.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/fields", f)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestHandler_Options(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/v1/options", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.OK)
	assert.Equal(t, []domain.Option{{ID: 1, Label: "Rota 2030"}, {ID: 2, Label: "Mover"}}, env.Options.Programas)
	assert.Equal(t, []domain.Option{{ID: 4, Label: "Bolsa"}}, env.Options.Impulsos)
	assert.Contains(t, s.api.auth, "Bearer user-token")
}

func TestHandler_FieldsAndValidate(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)

	w, env := s.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/fields", gin.H{"field": "nome", "value": "  "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, env.Draft.Errors["nome"])

	w, _ = s.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/fields", gin.H{"field": "cor", "value": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPatch, "/api/v1/drafts/"+id+"/fields", gin.H{"value": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/validate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, env.OK)
	assert.Contains(t, env.Draft.Errors, "programaId")
	assert.Contains(t, env.Draft.Errors, "dataFim")

	w, _ = s.do(t, http.MethodGet, "/api/v1/drafts/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Canvas(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)
	base := "/api/v1/drafts/" + id + "/canvas/equipe"

	w, env := s.do(t, http.MethodPost, base+"/items", gin.H{"content": "Ana"})
	require.Equal(t, http.StatusCreated, w.Code)
	first := env.Item.ID
	require.NotEmpty(t, first)

	_, _ = s.do(t, http.MethodPost, base+"/items", gin.H{"content": "Bruno"})
	_, env = s.do(t, http.MethodPost, base+"/items", gin.H{"content": "Carla"})
	assert.Equal(t, "Ana\nBruno\nCarla", env.Draft.Canvas["equipe"].Value)

	w, env = s.do(t, http.MethodPost, base+"/reorder", gin.H{"from": 0, "to": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bruno\nCarla\nAna", env.Draft.Canvas["equipe"].Value)

	w, _ = s.do(t, http.MethodPost, base+"/reorder", gin.H{"from": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, base+"/reorder", gin.H{"from": 0, "to": 9})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = s.do(t, http.MethodPatch, base+"/items/"+first, gin.H{"content": "Ana Lima"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bruno\nCarla\nAna Lima", env.Draft.Canvas["equipe"].Value)

	w, _ = s.do(t, http.MethodPost, base+"/items", gin.H{"content": " "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/canvas/nada/items", gin.H{"content": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(t, http.MethodPut, base+"/layout", gin.H{"x": 0, "y": 0, "w": 2, "h": 10})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, env.Draft.Canvas["equipe"].H)

	w, _ = s.do(t, http.MethodPut, base+"/layout", gin.H{"x": 0, "y": 0, "w": 0, "h": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = s.do(t, http.MethodDelete, base+"/items/"+first, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.Draft.Canvas["equipe"].Items, 2)

	w, _ = s.do(t, http.MethodDelete, base+"/items/"+first, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func uploadRequest(t *testing.T, path, name string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_Upload(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)
	path := "/api/v1/drafts/" + id + "/upload"

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, uploadRequest(t, path, "grande.pdf", make([]byte, 128)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, uploadRequest(t, path, "resumo.odt", []byte("odt")))
	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Draft.Values.Upload)
	assert.Equal(t, "resumo.odt", env.Draft.Values.Upload.Name)

	w, env = s.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, env.Draft.Values.Upload)

	req := httptest.NewRequest(http.MethodPut, path, nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SubmitInvalid(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.OK)
	assert.Contains(t, env.Errors, "nome")
	assert.Empty(t, s.api.forms)
}

func TestHandler_SubmitForbidden(t *testing.T) {
	s := newTestServer(t)
	s.api.submitCode = http.StatusForbidden
	id := s.open(t)
	s.fill(t, id)

	w, env := s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, domain.PermissionDeniedMessage, env.RootError)

	_, env = s.do(t, http.MethodGet, "/api/v1/drafts/"+id, nil)
	assert.Equal(t, domain.PermissionDeniedMessage, env.Draft.RootError)
	assert.Equal(t, "Projeto", env.Draft.Values.Nome)
}

func TestHandler_SubmitServerError(t *testing.T) {
	s := newTestServer(t)
	s.api.submitCode = http.StatusInternalServerError
	id := s.open(t)
	s.fill(t, id)

	w, env := s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, domain.RemoteFailureMessage, env.Error)

	w, _ = s.do(t, http.MethodGet, "/api/v1/drafts/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_EditAndSubmit(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/projects/7/drafts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := env.Draft.ID
	assert.Equal(t, "Salvo", env.Draft.Values.Nome)
	assert.Nil(t, env.Draft.Values.TRL)
	assert.Equal(t, "Hardware", env.Draft.Canvas["custos"].Value)

	w, env = s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.OK)
	require.Len(t, s.api.forms, 1)
	assert.Equal(t, []string{"Hardware"}, s.api.forms[0]["custos"])
	assert.Equal(t, []string{"4"}, s.api.forms[0]["impulso_id"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/projects/8/drafts", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/projects/abc/drafts", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Cancel(t *testing.T) {
	s := newTestServer(t)
	id := s.open(t)

	w, _ := s.do(t, http.MethodDelete, "/api/v1/drafts/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
