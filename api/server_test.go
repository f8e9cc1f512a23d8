package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golisting/app"
	"golisting/internal/config"
	appErrors "golisting/internal/errors"
	"golisting/models"
)

const testSellerElfCSV = `关键词,月搜索量,月购买量,购买率,前十ASIN
uggs,1902043,40000,2.1,"B07AAA,B08BBB"
slippers,700329,52000,7.4,B09CCC
`

type stubGenerator struct {
	lastReq app.GenerateRequest
	result  *models.GenerationResult
	err     error
}

func (g *stubGenerator) GenerateSingle(ctx context.Context, req app.GenerateRequest) (*models.GenerationResult, error) {
	g.lastReq = req
	return g.result, g.err
}

func (g *stubGenerator) GenerateOrchestrated(ctx context.Context, req app.GenerateRequest) (*models.GenerationResult, error) {
	g.lastReq = req
	return g.result, g.err
}

func testServer(t *testing.T, gen ListingGenerator, apiKey string) *Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:            "0",
			CORSOrigins:     []string{"http://localhost:5173"},
			UploadDir:       t.TempDir(),
			ShutdownTimeout: time.Second,
		},
		AI:      &models.AIConfig{APIKey: apiKey, Model: "test-model"},
		Quality: config.QualityConfig{PassThreshold: 7},
	}
	return NewServer(cfg, gen)
}

func multipartBody(t *testing.T, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, content := range files {
		name := field + ".csv"
		if field == "files" {
			name = "upload.csv"
		}
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	server := testServer(t, &stubGenerator{}, "key")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["api_key_configured"])
}

func TestRootEndpoint(t *testing.T) {
	server := testServer(t, &stubGenerator{}, "")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ServiceName)
}

func TestGenerateHappyPath(t *testing.T) {
	gen := &stubGenerator{result: &models.GenerationResult{
		ListingContent: models.ListingContent{Titles: []string{"T1", "T2", "T3"}},
		Metadata:       models.RunMetadata{RunID: "run-1", Model: "test-model"},
	}}
	server := testServer(t, gen, "key")

	body, contentType := multipartBody(t,
		map[string]string{"seller_elf": testSellerElfCSV, "sif": "x\na,b\n1,2\n"},
		map[string]string{"brand_name": "Amazing Cosy", "product_type": "Women's Slippers", "top_n": "25"},
	)
	req := httptest.NewRequest(http.MethodPost, "/generate", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Amazing Cosy", gen.lastReq.BrandName)
	assert.Equal(t, 25, gen.lastReq.TopN)
	assert.Contains(t, rec.Body.String(), `"run_id":"run-1"`)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	server := testServer(t, &stubGenerator{}, "")

	body, contentType := multipartBody(t, map[string]string{"seller_elf": "a", "sif": "b"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/generate", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGenerateMissingFile(t *testing.T) {
	server := testServer(t, &stubGenerator{}, "key")

	body, contentType := multipartBody(t,
		map[string]string{"seller_elf": testSellerElfCSV},
		map[string]string{"brand_name": "b", "product_type": "p"},
	)
	req := httptest.NewRequest(http.MethodPost, "/generate", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "sif file is required")
}

func TestGenerateInvalidRequestMapsTo400(t *testing.T) {
	gen := &stubGenerator{err: appErrors.InvalidInput("brand_name is required and cannot be empty")}
	server := testServer(t, gen, "key")

	body, contentType := multipartBody(t,
		map[string]string{"seller_elf": testSellerElfCSV, "sif": "x\na\n1\n"},
		map[string]string{"brand_name": "", "product_type": "p"},
	)
	req := httptest.NewRequest(http.MethodPost, "/generate", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNormalizeReturnsCombinedJSON(t *testing.T) {
	server := testServer(t, &stubGenerator{}, "")

	body, contentType := multipartBody(t,
		map[string]string{"files": testSellerElfCSV},
		map[string]string{"format": "json", "max_rows": "1"},
	)
	req := httptest.NewRequest(http.MethodPost, "/normalize", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sections []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sections))
	require.Len(t, sections, 1)
	assert.Equal(t, "upload.csv", sections[0]["file"])
	assert.Equal(t, "seller_elf", sections[0]["format_type"])
	data := sections[0]["data"].([]interface{})
	assert.Len(t, data, 1)
	// 关键词 survives byte-for-byte.
	assert.True(t, strings.Contains(rec.Body.String(), "关键词"))
}

func TestNormalizeUnknownFormat(t *testing.T) {
	server := testServer(t, &stubGenerator{}, "")

	body, contentType := multipartBody(t,
		map[string]string{"files": testSellerElfCSV},
		map[string]string{"format": "xml"},
	)
	req := httptest.NewRequest(http.MethodPost, "/normalize", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	server := testServer(t, &stubGenerator{}, "")

	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/generate", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
