package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/findoc/internal/classifier"
	"github.com/dgallion1/findoc/internal/config"
	"github.com/dgallion1/findoc/internal/extract"
	"github.com/dgallion1/findoc/internal/llm"
	"github.com/dgallion1/findoc/internal/pipeline"
	"github.com/dgallion1/findoc/internal/responder"
	"github.com/dgallion1/findoc/internal/store"
)

const testKey = "test-key"

const statement = `Portfolio Statement

Holdings
Security | ISIN | Quantity | Market Value
Apple Inc. | US0378331005 | 100 | $18,950.00
Microsoft Corp. | US5949181045 | 50 | $20,500.00
`

type testEnv struct {
	srv   *Server
	store *store.Memory
	orch  *pipeline.Orchestrator
}

func newTestEnv(t *testing.T, stats *llm.Stats) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewMemory(0)
	cls := classifier.New(classifier.WithLogger(log))
	w := pipeline.NewWorker(cls, extract.New(extract.WithLogger(log)), log, pipeline.WithStore(st))
	orch := pipeline.NewOrchestrator(pipeline.Options{Workers: 1, QueueSize: 8}, w, log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)

	cfg := config.Config{APIKey: testKey, MaxUploadBytes: 1 << 20}
	srv := NewServer(Deps{
		Orchestrator: orch,
		Store:        st,
		Classifier:   cls,
		Responder:    responder.New(responder.WithLogger(log)),
		Stats:        stats,
		Model:        "fake-model",
	}, log, cfg)
	return &testEnv{srv: srv, store: st, orch: orch}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

// ingest uploads statement.txt and waits for the job to finish.
func (e *testEnv) ingest(t *testing.T) string {
	t.Helper()
	body, ct := multipartBody(t, "file", map[string]string{"statement.txt": statement})
	rec := e.do(t, http.MethodPost, "/api/documents", body, ct)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted map[string]any
	decodeBody(t, rec, &accepted)
	jobID, _ := accepted["job_id"].(string)
	docID, _ := accepted["doc_id"].(string)

	deadline := time.Now().Add(5 * time.Second)
	for {
		rec := e.do(t, http.MethodGet, "/api/jobs/"+jobID, nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("job status: %d %s", rec.Code, rec.Body.String())
		}
		var snap pipeline.JobSnapshot
		decodeBody(t, rec, &snap)
		if snap.Status.Terminal() {
			if snap.Status != pipeline.StatusCompleted {
				t.Fatalf("expected completed, got %q: %v", snap.Status, snap.Progress.Errors)
			}
			return docID
		}
		if time.Now().After(deadline) {
			t.Fatalf("job %s did not finish", jobID)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHealth_NoAuth(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestAuth_Rejections(t *testing.T) {
	env := newTestEnv(t, nil)
	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic abc"},
		{"wrong key", "Bearer nope"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			env.srv.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestDocumentLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	docID := env.ingest(t)

	rec := env.do(t, http.MethodGet, "/api/documents", nil, "")
	var list struct {
		Documents []map[string]any `json:"documents"`
	}
	decodeBody(t, rec, &list)
	if len(list.Documents) != 1 || list.Documents[0]["id"] != docID {
		t.Fatalf("expected one listed document %q, got %v", docID, list.Documents)
	}

	rec = env.do(t, http.MethodGet, "/api/documents/"+docID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get document: %d", rec.Code)
	}
	var bundle struct {
		Tables []struct {
			Type string `json:"table_type"`
		} `json:"tables"`
		Entities []map[string]any `json:"entities"`
	}
	decodeBody(t, rec, &bundle)
	if len(bundle.Tables) != 1 || bundle.Tables[0].Type != "securities_table" {
		t.Errorf("expected one securities table, got %+v", bundle.Tables)
	}
	if len(bundle.Entities) != 2 {
		t.Errorf("expected 2 entities, got %d", len(bundle.Entities))
	}

	rec = env.do(t, http.MethodPost, "/api/documents/"+docID+"/chat",
		strings.NewReader(`{"question": "How many tables are in this document?"}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("chat: %d %s", rec.Code, rec.Body.String())
	}
	var chat chatResponse
	decodeBody(t, rec, &chat)
	if chat.Intent != responder.IntentTable || chat.Answer != "This document contains 1 table." {
		t.Errorf("unexpected chat reply %+v", chat)
	}
	if chat.DocumentID != docID || chat.Timestamp.IsZero() {
		t.Errorf("expected document id and timestamp, got %+v", chat)
	}

	rec = env.do(t, http.MethodDelete, "/api/documents/"+docID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/documents/"+docID, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestIngest_UnsupportedType(t *testing.T) {
	env := newTestEnv(t, nil)
	body, ct := multipartBody(t, "file", map[string]string{"scan.pdf": "%PDF"})
	rec := env.do(t, http.MethodPost, "/api/documents", body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestIngest_MissingFile(t *testing.T) {
	env := newTestEnv(t, nil)
	body, ct := multipartBody(t, "file", nil)
	rec := env.do(t, http.MethodPost, "/api/documents", body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestBatchIngest_MixedFiles(t *testing.T) {
	env := newTestEnv(t, nil)
	body, ct := multipartBody(t, "files", map[string]string{
		"statement.txt": statement,
		"scan.pdf":      "%PDF",
	})
	rec := env.do(t, http.MethodPost, "/api/documents/batch", body, ct)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var out struct {
		Jobs []map[string]any `json:"jobs"`
	}
	decodeBody(t, rec, &out)
	if len(out.Jobs) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out.Jobs))
	}
	accepted, rejected := 0, 0
	for _, j := range out.Jobs {
		if _, ok := j["error"]; ok {
			rejected++
		} else {
			accepted++
		}
	}
	if accepted != 1 || rejected != 1 {
		t.Errorf("expected 1 accepted and 1 rejected, got %d and %d", accepted, rejected)
	}
}

func TestJobStatus_NotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/api/jobs/missing", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestChat_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"bad json", "/api/documents/x/chat", `{`, http.StatusBadRequest},
		{"blank question", "/api/documents/x/chat", `{"question": "  "}`, http.StatusBadRequest},
		{"unknown document", "/api/documents/missing/chat", `{"question": "summary"}`, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tc.path, strings.NewReader(tc.body), "application/json")
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestClassifyTable(t *testing.T) {
	env := newTestEnv(t, nil)
	req := `{"table_text": "Date | Description | Amount\n2024-01-05 | Buy AAPL | $1,000.00", "document_text": "", "start_line": 0, "end_line": 1}`
	rec := env.do(t, http.MethodPost, "/api/tables/classify", strings.NewReader(req), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var table struct {
		Type    string           `json:"table_type"`
		Records []map[string]any `json:"records"`
	}
	decodeBody(t, rec, &table)
	if table.Type != "transactions_table" {
		t.Errorf("expected transactions_table, got %q", table.Type)
	}
	if len(table.Records) != 1 || table.Records[0]["Amount"] != 1000.0 {
		t.Errorf("unexpected records %v", table.Records)
	}
}

func TestLLMStats(t *testing.T) {
	env := newTestEnv(t, nil)
	if rec := env.do(t, http.MethodGet, "/api/stats/llm", nil, ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without an LLM, got %d", rec.Code)
	}

	stats := llm.NewStats(time.Hour)
	stats.Record(100, false)
	stats.Record(300, true)
	env = newTestEnv(t, stats)
	rec := env.do(t, http.MethodGet, "/api/stats/llm", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Model       string            `json:"model"`
		Stats       llm.StatsSnapshot `json:"stats"`
		FailureRate float64           `json:"failure_rate"`
	}
	decodeBody(t, rec, &out)
	if out.Model != "fake-model" || out.Stats.Count != 2 || out.FailureRate != 0.5 {
		t.Errorf("unexpected stats %+v", out)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.md":        "report.md",
		"../../etc/passwd": "passwd",
		"a..b.txt":         "a_b.txt",
		"":                 "unnamed",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
