package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mfc-voice-agent/internal/config"
	"mfc-voice-agent/internal/domain"
	"mfc-voice-agent/internal/repository"
	"mfc-voice-agent/internal/usecase"
)

type memConvStore struct {
	convs map[string]domain.Conversation
}

func (m *memConvStore) GetConversation(_ context.Context, id string) (domain.Conversation, error) {
	conv, ok := m.convs[id]
	if !ok {
		return domain.Conversation{}, repository.ErrConversationNotFound
	}
	return conv, nil
}

func (m *memConvStore) PutConversation(_ context.Context, conv domain.Conversation) error {
	m.convs[conv.ID] = conv
	return nil
}

func (m *memConvStore) LatestCompletedByPhone(_ context.Context, phone string) (domain.Conversation, error) {
	for _, conv := range m.convs {
		if conv.PhoneNumber == phone && conv.Status == domain.ConversationCompleted {
			return conv, nil
		}
	}
	return domain.Conversation{}, repository.ErrConversationNotFound
}

type memLeadWriter struct {
	puts []domain.Lead
}

func (m *memLeadWriter) PutLead(_ context.Context, lead domain.Lead) error {
	m.puts = append(m.puts, lead)
	return nil
}

type stubRouting struct{}

func (stubRouting) ActiveTerritories(context.Context) ([]domain.Territory, error) {
	return []domain.Territory{
		{Code: "MT-SW", Name: "Southwest Montana", Counties: []string{"Beaverhead"}},
	}, nil
}

func (stubRouting) SpecialistsForTerritory(_ context.Context, code string) ([]domain.Specialist, error) {
	if code == "MT-SW" {
		return []domain.Specialist{{ID: "spec-01", Name: "Dale Hamm", Phone: "406-555-0101"}}, nil
	}
	return nil, nil
}

func (stubRouting) ActiveSpecialists(context.Context) ([]domain.Specialist, error) {
	return nil, nil
}

type stubCounter struct {
	n   int
	err error
}

func (c stubCounter) Count(context.Context) (int, error) { return c.n, c.err }

func testConfig() *config.Config {
	return &config.Config{
		CallbackNumber:   "406-555-0145",
		AllowedOrigins:   []string{"*"},
		MaxResults:       5,
		LeadScoreCutoff:  40,
		RateLimitWindow:  60,
		RateLimitCeiling: 1000,
		ListenAddr:       ":0",
	}
}

func newTestServer(t *testing.T, counters map[string]Counter) (*Server, *memLeadWriter, *memConvStore) {
	t.Helper()

	store := &memConvStore{convs: map[string]domain.Conversation{}}
	writer := &memLeadWriter{}
	resolver, err := usecase.NewResolver(stubRouting{}, nil)
	require.NoError(t, err)
	leads, err := usecase.NewLeadService(writer, resolver, nil, "", nil)
	require.NoError(t, err)
	conversations, err := usecase.NewConversationService(store, leads, 40, nil)
	require.NoError(t, err)

	srv, err := New(testConfig(), conversations, leads, resolver, nil, counters, nil)
	require.NoError(t, err)
	return srv, writer, store
}

func do(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	rec := do(srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	require.Equal(t, "healthy", out["status"])
	require.NotEmpty(t, out["timestamp"])
}

func TestMetrics_ConcurrentCounts(t *testing.T) {
	srv, _, _ := newTestServer(t, map[string]Counter{
		"leads":         stubCounter{n: 12},
		"conversations": stubCounter{n: 34},
		"broken":        stubCounter{err: errors.New("scan failed")},
	})

	rec := do(srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	data := out["data"].(map[string]any)
	require.EqualValues(t, 12, data["leads"])
	require.EqualValues(t, 34, data["conversations"])
	require.EqualValues(t, -1, data["broken"])
}

func TestConversationFlow_EndToEnd(t *testing.T) {
	srv, writer, store := newTestServer(t, nil)

	rec := do(srv, http.MethodPost, "/conversations", `{"channel":"voice","phone_number":"406-555-0199"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode(t, rec)["data"].(map[string]any)["conversation_id"].(string)
	require.NotEmpty(t, id)

	rec = do(srv, http.MethodPost, "/conversations/"+id+"/ranch-data", `{"caller_name":"Guy Hanson","county":"Beaverhead","herd_size":250}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(srv, http.MethodPost, "/conversations/"+id+"/messages", `{"message":"what does protein cost?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	turn := decode(t, rec)
	require.Equal(t, "pricing", turn["intent"])
	require.EqualValues(t, 25, turn["lead_score"])

	rec = do(srv, http.MethodPost, "/conversations/"+id+"/messages", `{"message":"and do you deliver to Dillon?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 40, decode(t, rec)["lead_score"])

	rec = do(srv, http.MethodPost, "/conversations/"+id+"/end", "")
	require.Equal(t, http.StatusOK, rec.Code)
	end := decode(t, rec)["data"].(map[string]any)
	require.Equal(t, true, end["lead_created"])

	require.Len(t, writer.puts, 1)
	require.Equal(t, "Guy", writer.puts[0].FirstName)
	require.Equal(t, "MT-SW", writer.puts[0].TerritoryCode)
	require.Equal(t, domain.ConversationCompleted, store.convs[id].Status)

	// Double end conflicts and cannot create a second lead.
	rec = do(srv, http.MethodPost, "/conversations/"+id+"/end", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Len(t, writer.puts, 1)
}

func TestConversationTurn_UnknownConversationSpeaksError(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	rec := do(srv, http.MethodPost, "/conversations/missing/messages", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	require.Equal(t, true, out["error"])
	require.Equal(t, "conversation_not_found", out["error_type"])
}

func TestCallerContext_NewCaller(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	rec := do(srv, http.MethodPost, "/caller-context", `{"phone_number":"406-555-0199"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	require.Equal(t, true, out["is_new_caller"])
}

func TestCreateLeadRoute(t *testing.T) {
	srv, writer, _ := newTestServer(t, nil)

	rec := do(srv, http.MethodPost, "/leads", `{"name":"Guy Hanson","phone":"406-555-0199","county":"Beaverhead"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	require.Equal(t, "MT-SW", data["territory_code"])
	require.Len(t, writer.puts, 1)

	rec = do(srv, http.MethodPost, "/leads", `{"phone":"406-555-0199"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindSpecialistRoute_Get(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	rec := do(srv, http.MethodGet, "/specialists/find?county=Beaverhead+County", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	require.Contains(t, out["result"], "Dale Hamm")
	require.Contains(t, out["result"], "Beaverhead County")
}

func TestSpeakRouteAbsentWithoutSpeaker(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	rec := do(srv, http.MethodPost, "/speak", `{"text":"howdy"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimiter_Denies(t *testing.T) {
	store := &memConvStore{convs: map[string]domain.Conversation{}}
	resolver, err := usecase.NewResolver(stubRouting{}, nil)
	require.NoError(t, err)
	leads, err := usecase.NewLeadService(&memLeadWriter{}, resolver, nil, "", nil)
	require.NoError(t, err)
	conversations, err := usecase.NewConversationService(store, leads, 40, nil)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.RateLimitCeiling = 2
	srv, err := New(cfg, conversations, leads, resolver, nil, nil, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		rec := do(srv, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}
