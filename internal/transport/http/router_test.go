package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"ouvidoria/internal/audit"
	"ouvidoria/internal/jwttoken"
	mhandler "ouvidoria/internal/manifestation/handler"
	mservice "ouvidoria/internal/manifestation/service"
	mstore "ouvidoria/internal/manifestation/store"
	"ouvidoria/internal/notification"
	"ouvidoria/internal/platform/metrics"
	"ouvidoria/internal/protocol"
	rhandler "ouvidoria/internal/response/handler"
	rservice "ouvidoria/internal/response/service"
	rstore "ouvidoria/internal/response/store"
	"ouvidoria/internal/submission"
	shandler "ouvidoria/internal/submission/handler"
	"ouvidoria/internal/submission/draftstore"
	id "ouvidoria/pkg/domain"
	"ouvidoria/pkg/requestcontext"
	"ouvidoria/pkg/testutil"
)

// RouterSuite exercises the assembled API through the real middleware chain,
// including JWT validation.
type RouterSuite struct {
	suite.Suite

	router http.Handler
	jwt    *jwttoken.Service
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	log := slog.New(slog.DiscardHandler)
	m := metrics.NewWith(prometheus.NewRegistry())
	manifestations := mstore.NewInMemoryStore()
	responses := rstore.NewInMemoryStore()
	publisher := audit.NewMemoryPublisher()
	s.jwt = jwttoken.NewService("test-signing-key", "ouvidoria-test")

	pipeline := submission.NewPipeline(manifestations, protocol.NewGenerator(), publisher, m, log, 25<<20)
	manifestationService := mservice.NewService(manifestations, responses, notification.NewService(responses), publisher, m, log)
	ledger := rservice.NewLedger(responses, manifestations, publisher, m, log)

	s.router = NewRouter(Deps{
		Logger:         log,
		Metrics:        m,
		JWT:            s.jwt,
		Manifestations: mhandler.New(manifestationService, log),
		Responses:      rhandler.New(ledger, log),
		Submissions:    shandler.New(pipeline, draftstore.NewInMemoryStore(time.Hour), log),
		Checks:         map[string]HealthChecker{"self": healthOK{}},
	})
}

type healthOK struct{}

func (healthOK) Health(context.Context) error { return nil }

func (s *RouterSuite) bearer(req *http.Request, userID id.UserID, role requestcontext.Role) *http.Request {
	token, err := s.jwt.GenerateAccessToken(userID, role, time.Hour)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (s *RouterSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) TestHealthz() {
	w := s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestMetricsExposed() {
	w := s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/metrics"))
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestAssuntosIsPublic() {
	w := s.serve(testutil.NewRequest(s.T(), http.MethodGet, "/v1/assuntos"))
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestSubmitWithoutTokenUnauthorized() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/manifestacoes",
		map[string]any{"texto": "texto", "assunto": "Outros"})
	w := s.serve(req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterSuite) TestSubmitThenListRoundTrip() {
	citizen := id.NewUserID()

	submit := s.bearer(testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/manifestacoes",
		map[string]any{"texto": "Praça abandonada", "assunto": "Meio Ambiente"}), citizen, requestcontext.RoleCitizen)
	w := s.serve(submit)
	s.Require().Equal(http.StatusCreated, w.Code)

	var created shandler.SubmitResponse
	testutil.DecodeJSON(s.T(), w, &created)
	s.Len(created.Protocolo, 10)

	list := s.bearer(testutil.NewRequest(s.T(), http.MethodGet, "/v1/manifestacoes"), citizen, requestcontext.RoleCitizen)
	w = s.serve(list)
	s.Require().Equal(http.StatusOK, w.Code)

	var listing mhandler.ListResponse
	testutil.DecodeJSON(s.T(), w, &listing)
	s.Require().Len(listing.Items, 1)
	s.Equal(created.Protocolo, listing.Items[0].Protocolo)
}

func (s *RouterSuite) TestCitizenCannotAdvanceStatus() {
	citizen := id.NewUserID()
	submit := s.bearer(testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/manifestacoes",
		map[string]any{"texto": "texto", "assunto": "Outros"}), citizen, requestcontext.RoleCitizen)
	w := s.serve(submit)
	s.Require().Equal(http.StatusCreated, w.Code)
	var created shandler.SubmitResponse
	testutil.DecodeJSON(s.T(), w, &created)

	patch := s.bearer(testutil.NewJSONRequest(s.T(), http.MethodPatch,
		"/v1/manifestacoes/"+created.ID+"/status",
		map[string]string{"status": "em_andamento"}), citizen, requestcontext.RoleCitizen)
	w = s.serve(patch)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *RouterSuite) TestStaffLifecycleEndToEnd() {
	citizen := id.NewUserID()
	staff := id.NewUserID()

	submit := s.bearer(testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/manifestacoes",
		map[string]any{"texto": "Fila enorme no posto", "assunto": "Saúde Pública"}), citizen, requestcontext.RoleCitizen)
	w := s.serve(submit)
	s.Require().Equal(http.StatusCreated, w.Code)
	var created shandler.SubmitResponse
	testutil.DecodeJSON(s.T(), w, &created)

	patch := s.bearer(testutil.NewJSONRequest(s.T(), http.MethodPatch,
		"/v1/manifestacoes/"+created.ID+"/status",
		map[string]string{"status": "em_andamento"}), staff, requestcontext.RoleStaff)
	s.Require().Equal(http.StatusNoContent, s.serve(patch).Code)

	respond := s.bearer(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/v1/manifestacoes/"+created.ID+"/respostas",
		map[string]string{"orgao": "Secretaria de Saúde", "texto": "Mutirão agendado"}), staff, requestcontext.RoleStaff)
	w = s.serve(respond)
	s.Require().Equal(http.StatusCreated, w.Code)
	var appended rhandler.AppendResponse
	testutil.DecodeJSON(s.T(), w, &appended)

	list := s.bearer(testutil.NewRequest(s.T(), http.MethodGet, "/v1/manifestacoes"), citizen, requestcontext.RoleCitizen)
	w = s.serve(list)
	s.Require().Equal(http.StatusOK, w.Code)
	var listing mhandler.ListResponse
	testutil.DecodeJSON(s.T(), w, &listing)
	s.Require().Len(listing.Items, 1)
	s.True(listing.HasUnread)

	markRead := s.bearer(testutil.NewRequest(s.T(), http.MethodPost,
		"/v1/respostas/"+appended.ID+"/lida"), citizen, requestcontext.RoleCitizen)
	s.Require().Equal(http.StatusNoContent, s.serve(markRead).Code)

	w = s.serve(s.bearer(testutil.NewRequest(s.T(), http.MethodGet, "/v1/manifestacoes"), citizen, requestcontext.RoleCitizen))
	testutil.DecodeJSON(s.T(), w, &listing)
	s.False(listing.HasUnread)
}

func (s *RouterSuite) TestExpiredTokenRejected() {
	token, err := s.jwt.GenerateAccessToken(id.NewUserID(), requestcontext.RoleCitizen, -time.Minute)
	s.Require().NoError(err)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/v1/manifestacoes")
	req.Header.Set("Authorization", "Bearer "+token)
	w := s.serve(req)
	s.Equal(http.StatusUnauthorized, w.Code)
}
