package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"github.com/metalife/leadbot/internal/auth"
	"github.com/metalife/leadbot/internal/chat"
	"github.com/metalife/leadbot/internal/flow"
	"github.com/metalife/leadbot/internal/leads"
	"github.com/metalife/leadbot/internal/observability/metrics"
	"github.com/metalife/leadbot/pkg/logging"
)

const testSecret = "router-test-secret"

func newTestServer(t *testing.T) (http.Handler, *leads.InMemoryRepository) {
	t.Helper()
	logger := logging.Default()

	leadsRepo := leads.NewInMemoryRepository()
	usersRepo := auth.NewInMemoryRepository()
	require.NoError(t, auth.Seed(context.Background(), usersRepo, auth.SeedConfig{
		Agents:           []string{"agent1"},
		DirectorPassword: "director-start",
		AgentPassword:    "agent-start",
	}, logger))

	assigner, err := flow.NewRoundRobin([]string{"agent1"})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	engine := flow.NewEngine(flow.NewGraph(flow.DefaultConfig()), assigner, leadsRepo, logger,
		flow.WithMetrics(metrics.NewChatMetrics(reg)))

	return New(&Config{
		Logger:             logger,
		ChatHandler:        chat.NewHandler(engine, nil, logger),
		LeadsHandler:       leads.NewHandler(leadsRepo, logger),
		AuthHandler:        auth.NewHandler(usersRepo, testSecret, time.Hour, logger),
		AuthSecret:         testSecret,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"https://metalife.example"},
	}), leadsRepo
}

func do(t *testing.T, router http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPublicEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/health", "", "").Code)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/metrics", "", "").Code)

	w := do(t, router, http.MethodPost, "/chat", "", `{"message":"hola"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var turn chat.TurnResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&turn))
	require.Equal(t, flow.LevelAge, turn.State.Level)
}

func TestLeadsRequireAuth(t *testing.T) {
	router, _ := newTestServer(t)

	require.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/leads", "", "").Code)
	require.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/leads", "not-a-token", "").Code)
}

func TestLoginRotationAndLeadsAccess(t *testing.T) {
	router, leadsRepo := newTestServer(t)

	_, err := leadsRepo.Insert(context.Background(), &leads.Lead{
		Name:  "Juan Pérez",
		Agent: "agent1",
		Score: 90,
	})
	require.NoError(t, err)

	w := do(t, router, http.MethodPost, "/auth/login", "", `{"username":"director","password":"director-start"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var login auth.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&login))
	require.True(t, login.MustChangePassword)

	// The seeded credential opens nothing but the password endpoint.
	require.Equal(t, http.StatusForbidden, do(t, router, http.MethodGet, "/leads", login.Token, "").Code)

	w = do(t, router, http.MethodPost, "/auth/password", login.Token,
		`{"current_password":"director-start","new_password":"director-rotated"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var rotated auth.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rotated))
	require.False(t, rotated.MustChangePassword)

	w = do(t, router, http.MethodGet, "/leads", rotated.Token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var list leads.ListLeadsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Equal(t, 1, list.Count)

	w = do(t, router, http.MethodPatch, "/leads/1/status", rotated.Token, `{"status":"Contactado"}`)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAgentScopedLeadAccess(t *testing.T) {
	router, leadsRepo := newTestServer(t)

	_, err := leadsRepo.Insert(context.Background(), &leads.Lead{Name: "Cliente A", Agent: "agent1", Score: 90})
	require.NoError(t, err)
	_, err = leadsRepo.Insert(context.Background(), &leads.Lead{Name: "Cliente B", Agent: "other", Score: 45})
	require.NoError(t, err)

	w := do(t, router, http.MethodPost, "/auth/login", "", `{"username":"agent1","password":"agent-start"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login auth.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&login))

	w = do(t, router, http.MethodPost, "/auth/password", login.Token,
		`{"current_password":"agent-start","new_password":"agent-rotated"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var rotated auth.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rotated))

	w = do(t, router, http.MethodGet, "/leads", rotated.Token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var list leads.ListLeadsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Equal(t, 1, list.Count)
	require.Equal(t, "agent1", list.Leads[0].Agent)

	// The other agent's lead reads as missing.
	require.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/leads/2", rotated.Token, "").Code)
}

func TestConversationToLeadEndToEnd(t *testing.T) {
	router, leadsRepo := newTestServer(t)

	var state *flow.State
	conversationID := ""
	for _, msg := range []string{
		"hola", "34", "Seguro de Vida (MetaLife)", "2", "Más de $7,000",
		"Ahorrar para el retiro", "Generar resumen", "Juan Pérez", "5512345678",
	} {
		reqBody, err := json.Marshal(chat.TurnRequest{Message: msg, State: state, ConversationID: conversationID})
		require.NoError(t, err)

		w := do(t, router, http.MethodPost, "/chat", "", string(reqBody))
		require.Equal(t, http.StatusOK, w.Code, "message %q", msg)

		var resp chat.TurnResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		state = &resp.State
		conversationID = resp.ConversationID
	}

	require.True(t, state.Closed())

	director := leads.Actor{Username: "director", Role: leads.RoleDirector}
	stored, err := leadsRepo.List(context.Background(), director)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, 100, stored[0].Score)
	require.Equal(t, "Caliente", stored[0].Priority)
	require.Equal(t, leads.StatusNew, stored[0].Status)
	require.Equal(t, "agent1", stored[0].Agent)
}
