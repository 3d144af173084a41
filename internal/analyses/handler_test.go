package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, h *Handler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "u1")
		c.Next()
	})
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func multipartBody(t *testing.T, filename string, content []byte, jd string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("resume", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.WriteField("jd", jd); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestAnalyzeEndpoint(t *testing.T) {
	client := &routingLLM{
		keywordJSON: `{"skills":["Python"],"tools":[],"soft_skills":[]}`,
		narrative:   "Looks good.",
	}
	svc, _, _ := newTestService(t, client, wordbagEmbedder{})
	r := newTestRouter(t, NewHandler(svc, 10<<20))

	body, contentType := multipartBody(t, "resume.txt", []byte(sampleResume), sampleJD)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.ResumeID == "" || result.Analysis != "Looks good." {
		t.Fatalf("result = %+v", result)
	}
}

func TestAnalyzeEndpointRejectsBadExtensionBeforeStorage(t *testing.T) {
	client := &routingLLM{narrative: "ok"}
	svc, resumeRepo, _ := newTestService(t, client, wordbagEmbedder{})
	r := newTestRouter(t, NewHandler(svc, 10<<20))

	body, contentType := multipartBody(t, "resume.exe", []byte("binary"), sampleJD)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if _, err := resumeRepo.GetByID(context.Background(), "any"); err == nil {
		t.Fatal("nothing should be stored for a rejected upload")
	}
}

func TestAnalyzeEndpointMissingFile(t *testing.T) {
	svc, _, _ := newTestService(t, &routingLLM{}, wordbagEmbedder{})
	r := newTestRouter(t, NewHandler(svc, 10<<20))

	body, contentType := multipartBody(t, "", nil, sampleJD)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeEndpointBodyTooLarge(t *testing.T) {
	svc, _, _ := newTestService(t, &routingLLM{narrative: "ok"}, wordbagEmbedder{})
	r := newTestRouter(t, NewHandler(svc, 256))

	payload := bytes.Repeat([]byte("x"), 4096)
	body, contentType := multipartBody(t, "resume.txt", payload, sampleJD)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestListEndpoint(t *testing.T) {
	svc, _, analysisRepo := newTestService(t, &routingLLM{}, wordbagEmbedder{})
	_ = analysisRepo.Create(context.Background(), Analysis{ID: "a1", UserID: "u1", Narrative: "n1"})
	_ = analysisRepo.Create(context.Background(), Analysis{ID: "a2", UserID: "someone-else", Narrative: "n2"})

	r := newTestRouter(t, NewHandler(svc, 10<<20))
	req := httptest.NewRequest(http.MethodGet, "/api/analyses", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Analyses []Analysis `json:"analyses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Analyses) != 1 || payload.Analyses[0].ID != "a1" {
		t.Fatalf("analyses = %+v", payload.Analyses)
	}
}
