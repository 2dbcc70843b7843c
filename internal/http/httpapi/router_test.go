package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"samakicash/internal/adapter/repo"
	"samakicash/internal/advisory"
	"samakicash/internal/auth"
	"samakicash/internal/domain"
	"samakicash/internal/http/handlers"
	"samakicash/internal/providers/market"
	"samakicash/internal/providers/pricing"
	"samakicash/internal/providers/speech"
	"samakicash/internal/storage"
	"samakicash/internal/worker"
)

const generatedRef = "price_alert_0123456789abcdef0123456789abcdef.mp3"

type fixedPricing struct{}

func (fixedPricing) Analyze(context.Context, pricing.Request) domain.Result[domain.PriceAnalysis] {
	return domain.Fallback(pricing.FallbackAnalysis, "http_request")
}

type fixedMarket struct{}

func (fixedMarket) Analyze(context.Context, market.Request) domain.Result[domain.MarketInsight] {
	return domain.Fallback(market.FallbackInsight, "http_request")
}

type fixedVision struct{}

func (fixedVision) Analyze(_ context.Context, image string) domain.Result[domain.ImageAnalysis] {
	return domain.Absent(domain.NoImage())
}

type fixedSpeech struct{ outcome domain.VoiceOutcome }

func (f fixedSpeech) Synthesize(context.Context, speech.Request) domain.VoiceOutcome {
	return f.outcome
}

type fixedProber struct{}

func (fixedProber) Probe(context.Context) speech.ProbeResult {
	return speech.ProbeResult{KeyConfigured: true, KeyFormatValid: true, StatusCode: 200, VoicesAvailable: 3}
}

type testServer struct {
	handler   http.Handler
	store     *repo.MemoryStore
	persister *worker.Persister
	audio     *storage.FileStore
}

func newTestServer(t *testing.T, voice domain.VoiceOutcome, debug bool) *testServer {
	t.Helper()
	store := repo.NewMemoryStore()
	persister := worker.NewPersister(store, nil, 8)
	persister.Start()
	t.Cleanup(func() { _ = persister.Close(context.Background()) })

	audio, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	app := &handlers.App{
		Store: store,
		Pipeline: advisory.NewPipeline(advisory.Options{
			Pricing:   fixedPricing{},
			Market:    fixedMarket{},
			Vision:    fixedVision{},
			Speech:    fixedSpeech{outcome: voice},
			Scheduler: persister,
		}),
		AudioStore: audio,
		Voices:     fixedProber{},
		Hasher:     auth.NewHasher("test-pepper"),
	}
	return &testServer{
		handler:   NewRouter(app, Options{DefaultLocale: "sw", Debug: debug, AllowedOrigins: []string{"http://localhost:3000"}}),
		store:     store,
		persister: persister,
		audio:     audio,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, domain.Skipped(domain.VoiceReasonNoKey), false)

	rec := s.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "healthy", decode(t, rec)["status"])

	rec = s.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "healthy", body["status"])
	require.NotEmpty(t, body["timestamp"])
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, domain.Skipped(domain.VoiceReasonNoKey), false)

	rec := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{"email": "Juma@Example.com", "password": "samaki123"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	userID := decode(t, rec)["user_id"].(string)
	require.NotEmpty(t, userID)

	rec = s.do(t, http.MethodPost, "/api/auth/register", map[string]string{"email": "juma@example.com", "password": "other"}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "juma@example.com", "password": "samaki123"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, userID, body["user_id"])
	require.Equal(t, "fisher", body["user_type"])

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "juma@example.com", "password": "wrong"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "error", decode(t, rec)["status"])

	users, err := s.store.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NotContains(t, users[0].PasswordHash, "samaki123")
}

func TestRegisterRejectsUnknownUserType(t *testing.T) {
	s := newTestServer(t, domain.Skipped(domain.VoiceReasonNoKey), false)
	rec := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{"email": "a@b.tz", "password": "x", "user_type": "admin"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeCatchDegradedProviders(t *testing.T) {
	s := newTestServer(t, domain.Failed(domain.VoiceReasonConnectionError), false)

	rec := s.do(t, http.MethodPost, "/api/analyze-catch", map[string]any{
		"fish_type":   "Tilapia",
		"quantity_kg": 10,
		"location":    "Mwanza",
		"user_id":     "u1",
	}, map[string]string{"Accept-Language": "en"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	require.Equal(t, "success", body["status"])
	require.Equal(t, "voice_connection_error", body["voice_message_url"])
	require.Equal(t, "Suggested price: TZS 5200 per kg", body["recommendation"])
	price := body["price_analysis"].(map[string]any)
	require.EqualValues(t, 5200, price["fair_price"])
	require.Equal(t, "High demand in Mwanza market", price["reasoning"])
	require.Equal(t, map[string]any{"analysis": domain.NoImageAnalysis}, body["image_analysis"])

	require.NoError(t, s.persister.Close(context.Background()))
	rec = s.do(t, http.MethodGet, "/api/users/u1/catches", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	catches := decode(t, rec)["catches"].([]any)
	require.Len(t, catches, 1)
}

func TestAnalyzeCatchSwahiliRecommendation(t *testing.T) {
	s := newTestServer(t, domain.Generated(generatedRef), false)
	rec := s.do(t, http.MethodPost, "/api/analyze-catch", map[string]any{
		"fish_type": "Dagaa", "quantity_kg": 4.5, "location": "Kigoma", "user_id": "u2",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "Bei inayopendekezwa: TZS 5200 kwa kilo", body["recommendation"])
	require.Equal(t, "/audio/"+generatedRef, body["voice_message_url"])
}

func TestAnalyzeCatchValidation(t *testing.T) {
	s := newTestServer(t, domain.Skipped(domain.VoiceReasonNoKey), false)

	rec := s.do(t, http.MethodPost, "/api/analyze-catch", map[string]any{
		"fish_type": "Tilapia", "quantity_kg": 0, "location": "Mwanza", "user_id": "u1",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decode(t, rec)["message"], "quantity_kg")

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-catch", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreditScore(t *testing.T) {
	s := newTestServer(t, domain.Skipped(domain.VoiceReasonNoKey), false)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.store.InsertCatch(context.Background(), domain.CatchRecord{
			ID: string(rune('a' + i)), UserID: "u7", FishType: "Tilapia", QuantityKg: 1, Location: "Mwanza",
			PriceAnalysis: json.RawMessage(`{}`), CreatedAt: time.Now(),
		}))
	}
	rec := s.do(t, http.MethodPost, "/api/credit-score?user_id=u7", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.EqualValues(t, 680, body["credit_score"])
	require.Equal(t, true, body["loan_eligible"])
	require.EqualValues(t, 680000, body["max_loan_amount"])
	require.EqualValues(t, 3, body["catch_count"])

	rec = s.do(t, http.MethodPost, "/api/credit-score", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsuranceQuote(t *testing.T) {
	s := newTestServer(t, domain.Skipped(domain.VoiceReasonNoKey), false)
	rec := s.do(t, http.MethodPost, "/api/insurance-quote", map[string]any{"user_id": "u1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "equipment", body["coverage_type"])
	require.EqualValues(t, 1000000, body["coverage_amount"])
	require.EqualValues(t, 50000, body["annual_premium"])

	rec = s.do(t, http.MethodPost, "/api/insurance-quote", map[string]any{"user_id": "u1", "coverage_type": "boat", "coverage_amount": 200000}, nil)
	require.EqualValues(t, 10000, decode(t, rec)["annual_premium"])
}

func TestAudioRetrieval(t *testing.T) {
	s := newTestServer(t, domain.Skipped(domain.VoiceReasonNoKey), false)
	_, err := s.audio.Write(context.Background(), generatedRef, []byte("ID3-bytes"))
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/audio/"+generatedRef, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	require.Equal(t, "ID3-bytes", rec.Body.String())

	for _, ref := range []string{
		domain.VoiceSentinelFailed,
		domain.VoiceSentinelSkipped,
		"price_alert_ffffffffffffffffffffffffffffffff.mp3",
	} {
		rec := s.do(t, http.MethodGet, "/audio/"+ref, nil, nil)
		require.Equal(t, http.StatusNotFound, rec.Code, ref)
	}
}

func TestDebugRoutesRequireFlag(t *testing.T) {
	off := newTestServer(t, domain.Skipped(domain.VoiceReasonNoKey), false)
	require.Equal(t, http.StatusNotFound, off.do(t, http.MethodGet, "/api/debug/users", nil, nil).Code)

	on := newTestServer(t, domain.Skipped(domain.VoiceReasonNoKey), true)
	rec := on.do(t, http.MethodGet, "/api/debug/elevenlabs", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 3, decode(t, rec)["voices_available"])

	rec = on.do(t, http.MethodGet, "/api/debug/catches", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []any{}, decode(t, rec)["catches"])
}
