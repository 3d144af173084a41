package rewrite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/llm"
)

func newTestRouter(t *testing.T, client llm.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(&Service{LLM: client}).RegisterRoutes(r.Group("/api"))
	return r
}

func postForm(t *testing.T, r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/rewrite", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRewriteEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubLLM{resp: `{"summary":"Rewritten."}`})

	rec := postForm(t, r, url.Values{
		"resume_text": {sampleResume},
		"jd":          {sampleJD},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Summary != "Rewritten." {
		t.Fatalf("summary = %q", result.Summary)
	}
}

func TestRewriteEndpointValidation(t *testing.T) {
	r := newTestRouter(t, &stubLLM{resp: "{}"})

	rec := postForm(t, r, url.Values{"resume_text": {"short"}, "jd": {sampleJD}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRewriteEndpointModelErrorPassesActionableMessage(t *testing.T) {
	r := newTestRouter(t, &stubLLM{err: &llm.ModelError{Kind: llm.ModelNotFound, Model: "gemma2:2b"}})

	rec := postForm(t, r, url.Values{"resume_text": {sampleResume}, "jd": {sampleJD}})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ollama pull") {
		t.Fatalf("body should carry the actionable message, got %s", rec.Body.String())
	}
}

func TestRewriteEndpointGenericGatewayFailure(t *testing.T) {
	r := newTestRouter(t, &stubLLM{err: &llm.UnavailableError{URL: "http://localhost:11434"}})

	rec := postForm(t, r, url.Values{"resume_text": {sampleResume}, "jd": {sampleJD}})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
