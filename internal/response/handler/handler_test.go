package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"ouvidoria/internal/audit"
	"ouvidoria/internal/manifestation"
	mstore "ouvidoria/internal/manifestation/store"
	"ouvidoria/internal/platform/metrics"
	"ouvidoria/internal/response/service"
	rstore "ouvidoria/internal/response/store"
	id "ouvidoria/pkg/domain"
	"ouvidoria/pkg/testutil"
)

type ResponseHandlerSuite struct {
	suite.Suite

	router         chi.Router
	manifestations *mstore.InMemoryStore
	responses      *rstore.InMemoryStore
}

func TestResponseHandlerSuite(t *testing.T) {
	suite.Run(t, new(ResponseHandlerSuite))
}

func (s *ResponseHandlerSuite) SetupTest() {
	s.manifestations = mstore.NewInMemoryStore()
	s.responses = rstore.NewInMemoryStore()
	ledger := service.NewLedger(
		s.responses,
		s.manifestations,
		audit.NewMemoryPublisher(),
		metrics.NewWith(prometheus.NewRegistry()),
		slog.New(slog.DiscardHandler),
	)

	h := New(ledger, slog.New(slog.DiscardHandler))
	s.router = chi.NewRouter()
	h.Register(s.router)
	h.RegisterStaff(s.router)
}

func (s *ResponseHandlerSuite) seed(owner id.UserID) manifestation.Manifestation {
	m := manifestation.Manifestation{
		ID:        id.NewManifestationID(),
		Protocolo: "ZX98CV76BN",
		Texto:     "Semáforo quebrado",
		Assunto:   "Mobilidade Urbana",
		Status:    manifestation.StatusEmAndamento,
		Owner:     owner,
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.manifestations.Create(context.Background(), m))
	return m
}

func (s *ResponseHandlerSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ResponseHandlerSuite) TestAppend_Succeeds() {
	m := s.seed(id.NewUserID())

	req := testutil.WithStaff(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/manifestacoes/"+m.ID.String()+"/respostas",
		map[string]string{"orgao": "CET", "texto": "Equipe enviada ao local"}), id.NewUserID())
	w := s.serve(req)

	s.Equal(http.StatusCreated, w.Code)
	var resp AppendResponse
	testutil.DecodeJSON(s.T(), w, &resp)
	s.Equal("CET", resp.Orgao)
	s.False(resp.Lida)

	stored, err := s.responses.ListByManifestation(context.Background(), m.ID)
	s.Require().NoError(err)
	s.Len(stored, 1)
}

func (s *ResponseHandlerSuite) TestAppend_MissingFieldsRejected() {
	m := s.seed(id.NewUserID())

	req := testutil.WithStaff(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/manifestacoes/"+m.ID.String()+"/respostas",
		map[string]string{"orgao": " ", "texto": "texto"}), id.NewUserID())
	w := s.serve(req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ResponseHandlerSuite) TestAppend_UnknownManifestation() {
	req := testutil.WithStaff(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/manifestacoes/"+id.NewManifestationID().String()+"/respostas",
		map[string]string{"orgao": "CET", "texto": "texto"}), id.NewUserID())
	w := s.serve(req)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ResponseHandlerSuite) TestMarkRead_OwnerSucceeds() {
	owner := id.NewUserID()
	m := s.seed(owner)
	appendReq := testutil.WithStaff(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/manifestacoes/"+m.ID.String()+"/respostas",
		map[string]string{"orgao": "CET", "texto": "texto"}), id.NewUserID())
	var created AppendResponse
	testutil.DecodeJSON(s.T(), s.serve(appendReq), &created)

	req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodPost,
		"/respostas/"+created.ID+"/lida"), owner)
	w := s.serve(req)

	s.Equal(http.StatusNoContent, w.Code)

	rid, err := id.ParseResponseID(created.ID)
	s.Require().NoError(err)
	got, err := s.responses.FindByID(context.Background(), rid)
	s.Require().NoError(err)
	s.True(got.Lida)
}

func (s *ResponseHandlerSuite) TestMarkRead_NonOwnerForbidden() {
	m := s.seed(id.NewUserID())
	appendReq := testutil.WithStaff(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/manifestacoes/"+m.ID.String()+"/respostas",
		map[string]string{"orgao": "CET", "texto": "texto"}), id.NewUserID())
	var created AppendResponse
	testutil.DecodeJSON(s.T(), s.serve(appendReq), &created)

	req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodPost,
		"/respostas/"+created.ID+"/lida"), id.NewUserID())
	w := s.serve(req)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *ResponseHandlerSuite) TestMarkRead_BadIDRejected() {
	req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodPost,
		"/respostas/nope/lida"), id.NewUserID())
	w := s.serve(req)

	s.Equal(http.StatusBadRequest, w.Code)
}
