//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"record-store-go/internal/app"
	"record-store-go/internal/config"
	"record-store-go/internal/db"
	"record-store-go/pkg/logger"
)

type testEnv struct {
	server *httptest.Server
	app    *app.App
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	cfg := config.Config{
		HTTPPort: "0",
		Backend:  config.BackendPostgres,
		Store: config.StoreConfig{
			Name:          "documents",
			PartitionSize: 3,
			RingCapacity:  64,
		},
		DB:    config.DBConfig{DSN: dsn, AutoMigrate: true},
		Cache: config.CacheConfig{Enabled: true, TTL: time.Minute, Capacity: 1000},
	}

	if err := cleanDB(cfg.DB); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	application, err := app.Build(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}

	server := httptest.NewServer(application.HTTPServer().Handler)
	return &testEnv{server: server, app: application}
}

func (e *testEnv) Close() {
	e.server.Close()
	_ = e.app.Close()
}

func cleanDB(cfg config.DBConfig) error {
	dbConn, err := db.NewPostgres(cfg, logger.Nop())
	if err != nil {
		return err
	}
	defer db.Close(dbConn)

	if err := db.Migrate(dbConn, logger.Nop()); err != nil {
		return err
	}
	return dbConn.WithContext(context.Background()).Exec("TRUNCATE TABLE documents").Error
}

func requestJSON(t *testing.T, client *http.Client, method, url string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type documentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      string    `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type documentListResponse struct {
	Items []documentResponse `json:"items"`
}

type statsResponse struct {
	Published int64 `json:"published"`
	Processed int64 `json:"processed"`
}

func TestE2EHealth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EDocumentFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api/documents"

	resp, body := requestJSON(t, client, http.MethodPost, base, map[string]string{"title": "Plan", "body": "draft", "tags": "Work"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var created documentResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.ID == "" || created.Tags != "work" {
		t.Fatalf("unexpected document: %+v", created)
	}

	title := "Plan v2"
	resp, body = requestJSON(t, client, http.MethodPut, base+"/"+created.ID, map[string]*string{"title": &title})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var fetched documentResponse
	if err := json.Unmarshal(body, &fetched); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if fetched.Title != title || fetched.Body != "draft" {
		t.Fatalf("unexpected document after update: %+v", fetched)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, base+"/"+created.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/"+created.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d: %s", resp.StatusCode, string(body))
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if envelope.Error.Code != "document_not_found" {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestE2EBatchAcrossPartitions(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api/documents"

	docs := make([]map[string]string, 0, 7)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		docs = append(docs, map[string]string{"id": id, "title": "Doc " + id})
	}
	resp, body := requestJSON(t, client, http.MethodPost, base+"/batch", map[string]interface{}{"documents": docs})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("batch create: expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"?ids=g,a,missing,d", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var list documentListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(list.Items))
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/delete", map[string][]string{"ids": {"a", "b", "c", "d", "e"}})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("batch delete: expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"?ids=a,b,c,d,e,f,g", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list after delete: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	list = documentListResponse{}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 documents left, got %d", len(list.Items))
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/events/stats", nil)
		var stats statsResponse
		if err := json.Unmarshal(body, &stats); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if stats.Published == 12 && stats.Processed == 12 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("events not processed: %+v", stats)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
