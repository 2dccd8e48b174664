package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/veriplagio/veriplagio/internal/analysis"
	"github.com/veriplagio/veriplagio/internal/config"
	"github.com/veriplagio/veriplagio/internal/document"
	"github.com/veriplagio/veriplagio/internal/highlight"
	"github.com/veriplagio/veriplagio/internal/report"
	"github.com/veriplagio/veriplagio/internal/search"
	"github.com/veriplagio/veriplagio/internal/session"
	"github.com/veriplagio/veriplagio/pkg/docstore"
)

type fakeAnalyzer struct {
	completion string
	err        error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (string, error) {
	return f.completion, f.err
}

type fakeDetector struct {
	result *analysis.DetectionResult
	err    error
}

func (f *fakeDetector) Detect(ctx context.Context, text string) (*analysis.DetectionResult, error) {
	return f.result, f.err
}

type fakeParaphraser struct {
	out string
	err error
}

func (f *fakeParaphraser) Paraphrase(ctx context.Context, text string) (string, error) {
	return f.out, f.err
}

type fakeSearcher struct {
	results []search.Organic
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, num int) ([]search.Organic, error) {
	return f.results, f.err
}

type fakeConfirmer struct{ verified bool }

func (f *fakeConfirmer) Confirm(ctx context.Context, link, excerpt string) bool {
	return f.verified
}

type fakeSpanResolver struct{ source string }

func (f *fakeSpanResolver) Resolve(ctx context.Context, excerpt string) string {
	return f.source
}

type testEnv struct {
	handler  *Handler
	router   *gin.Engine
	analyzer *fakeAnalyzer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := log.New(io.Discard, "", 0)
	cfg := &config.Config{
		DocumentTTL:    time.Hour,
		MaxUploadBytes: 16 * 1024 * 1024,
	}

	analyzer := &fakeAnalyzer{}
	docs := docstore.New()
	t.Cleanup(func() { docs.Close() })

	store := sessions.NewCookieStore([]byte("test-secret"))
	store.Options = &sessions.Options{Path: "/", MaxAge: 3600}

	handler := NewHandler(
		cfg,
		document.NewProcessor(logger, cfg.MaxUploadBytes),
		analyzer,
		&fakeDetector{result: &analysis.DetectionResult{PredictedClass: "human", AverageGeneratedProb: 0.1}},
		&fakeParaphraser{out: "reworded"},
		&fakeSearcher{results: []search.Organic{{Title: "A", Link: "http://a.test", Snippet: "s"}}},
		&fakeConfirmer{verified: true},
		report.NewParser(&fakeSpanResolver{source: "http://resolved.test"}, logger),
		report.NewStaticSource(),
		docs,
		session.NewManager(logger, store),
		logger,
	)
	handler.buildDoc = func(runs []highlight.Run) ([]byte, error) {
		return []byte("DOCXBYTES"), nil
	}

	return &testEnv{
		handler:  handler,
		router:   NewRouter(handler, cfg.MaxUploadBytes, logger),
		analyzer: analyzer,
	}
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestCheckPlagiarismFullPipeline(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.completion = "Análise:\nTrecho: hello world - Fonte: http://x.test"

	rec := postForm(env.router, "/api/check", url.Values{"text": {"hello world this is fine"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)

	spans := body["spans"].([]any)
	if len(spans) != 1 {
		t.Fatalf("spans = %v", spans)
	}
	span := spans[0].(map[string]any)
	if span["excerpt"] != "hello world" || span["source"] != "http://x.test" {
		t.Errorf("span = %v", span)
	}

	if pct := body["percentage"].(float64); pct != 40.0 {
		t.Errorf("percentage = %v", pct)
	}

	if ready := body["download_ready"].(bool); !ready {
		t.Error("expected download_ready")
	}
	token := body["download_token"].(string)
	if token == "" {
		t.Fatal("expected a download token")
	}

	// The stored document is served back by explicit token.
	req := httptest.NewRequest("GET", "/download/"+token, nil)
	rec2 := httptest.NewRecorder()
	env.router.ServeHTTP(rec2, req)

	if rec2.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec2.Code)
	}
	if rec2.Body.String() != "DOCXBYTES" {
		t.Errorf("download body = %q", rec2.Body.String())
	}
	if cd := rec2.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestCheckPlagiarismEmptyText(t *testing.T) {
	env := newTestEnv(t)

	rec := postForm(env.router, "/api/check", url.Values{"text": {"   "}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if ready := body["download_ready"].(bool); ready {
		t.Error("empty submission must not produce a document")
	}
	if len(body["spans"].([]any)) != 0 {
		t.Errorf("spans = %v", body["spans"])
	}
	if body["percentage"].(float64) != 0.0 {
		t.Errorf("percentage = %v", body["percentage"])
	}
}

func TestCheckPlagiarismUnsupportedUpload(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("some plain text"))
	writer.Close()

	req := httptest.NewRequest("POST", "/api/check", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["text"] != "" {
		t.Errorf("text = %q, expected empty extraction", body["text"])
	}
	if ready := body["download_ready"].(bool); ready {
		t.Error("unsupported upload must degrade to the empty state")
	}
}

func TestCheckPlagiarismUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.err = errors.New("request failed with status 503: unavailable")

	rec := postForm(env.router, "/api/check", url.Values{"text": {"some text"}})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if !strings.Contains(body["error"].(string), "503") {
		t.Errorf("error = %v", body["error"])
	}
}

func TestDetectAI(t *testing.T) {
	env := newTestEnv(t)

	rec := postForm(env.router, "/api/detect", url.Values{"text": {"is this generated?"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	result := body["result"].(map[string]any)
	if result["predicted_class"] != "human" {
		t.Errorf("result = %v", result)
	}
}

func TestDetectAIEmptyText(t *testing.T) {
	env := newTestEnv(t)

	rec := postForm(env.router, "/api/detect", url.Values{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["result"] != nil {
		t.Errorf("result = %v", body["result"])
	}
}

func TestHumanize(t *testing.T) {
	env := newTestEnv(t)

	rec := postForm(env.router, "/api/humanize", url.Values{"text": {"stiff text"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["humanized"] != "reworded" {
		t.Errorf("humanized = %v", body["humanized"])
	}
}

func TestCompareTexts(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.completion = "Nenhum plágio cruzado encontrado."

	rec := postForm(env.router, "/api/compare", url.Values{
		"text1": {"first essay"},
		"text2": {"second essay"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["analysis"] != "Nenhum plágio cruzado encontrado." {
		t.Errorf("analysis = %v", body["analysis"])
	}
	results1 := body["results1"].([]any)
	if len(results1) != 1 {
		t.Fatalf("results1 = %v", results1)
	}
	if first := results1[0].(map[string]any); first["link"] != "http://a.test" {
		t.Errorf("results1[0] = %v", first)
	}
}

func TestCompareTextsAnalysisFailureDegrades(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.err = errors.New("request failed with status 500: boom")

	rec := postForm(env.router, "/api/compare", url.Values{"text1": {"a"}, "text2": {"b"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if !strings.Contains(body["analysis"].(string), "500") {
		t.Errorf("analysis = %v", body["analysis"])
	}
}

func TestSimilarityReport(t *testing.T) {
	env := newTestEnv(t)

	rec := postForm(env.router, "/api/report", url.Values{"text": {"five words are right here"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if terms := body["total_terms"].(float64); terms != 5 {
		t.Errorf("total_terms = %v", terms)
	}
	if sim := body["total_similarity"].(float64); sim != 15.8 {
		t.Errorf("total_similarity = %v", sim)
	}
	if rows := body["results"].([]any); len(rows) != 3 {
		t.Errorf("results = %v", rows)
	}
}

func TestDownloadUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/download/not-a-token", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestDownloadWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/download", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
}
