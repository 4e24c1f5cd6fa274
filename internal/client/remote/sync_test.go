package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/shipdash/internal/client/storage"
)

// roundTripperFunc позволяет удобно замокать http.Client.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *http.Client {
	return &http.Client{Transport: fn, Timeout: time.Second}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestPull_NetworkError(t *testing.T) {
	store := storage.NewMemoryStore()
	_ = storage.Set(store, storage.KeyMaterials, []string{"a"})
	c := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	}), store, nil)

	if err := c.Pull(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got, _ := storage.Get[[]string](store, storage.KeyMaterials); len(got) != 1 {
		t.Errorf("local materials changed: %v", got)
	}
}

func TestPull_ServerError(t *testing.T) {
	store := storage.NewMemoryStore()
	c := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"detail":"boom"}`), nil
	}), store, nil)

	err := c.Pull(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != 500 || apiErr.Detail != "boom" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if len(store.Keys()) != 0 {
		t.Errorf("store written on failure: %v", store.Keys())
	}
}

func TestPull_InvalidJSON(t *testing.T) {
	store := storage.NewMemoryStore()
	c := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "not-json"), nil
	}), store, nil)

	err := c.Pull(context.Background())
	if err == nil || !strings.Contains(err.Error(), "invalid response") {
		t.Errorf("expected JSON decode error, got %v", err)
	}
}

func TestPull_Policy(t *testing.T) {
	store := storage.NewMemoryStore()
	_ = storage.Set(store, storage.KeyMaterials, []string{"local"})
	_ = storage.Set(store, storage.KeyObservations, []string{"keep"})

	c := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet || req.URL.String() != "http://example.com/api/sync/data" {
			t.Errorf("unexpected request: %s %s", req.Method, req.URL)
		}
		return jsonResponse(http.StatusOK, `{
			"materials": [],
			"observations": "not a list",
			"finishedGoods": [{"finishedGood":"FG1"},{"finishedGood":"FG2"}]
		}`), nil
	}), store, nil)

	if err := c.Pull(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// пустой список с сервера не затирает локальные данные
	if got, _ := storage.Get[[]string](store, storage.KeyMaterials); len(got) != 1 || got[0] != "local" {
		t.Errorf("materials = %v; want [local]", got)
	}
	if got, _ := storage.Get[[]string](store, storage.KeyObservations); len(got) != 1 || got[0] != "keep" {
		t.Errorf("observations = %v; want [keep]", got)
	}
	fgs, ok := storage.Get[[]map[string]string](store, storage.KeyFinishedGoods)
	if !ok || len(fgs) != 2 || fgs[1]["finishedGood"] != "FG2" {
		t.Errorf("finishedGoods = %v", fgs)
	}
}

func TestPush_NoToken(t *testing.T) {
	store := storage.NewMemoryStore()
	_ = storage.Set(store, storage.KeyFinishedGoods, []string{"x"})
	called := false
	c := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		called = true
		return jsonResponse(http.StatusOK, `{}`), nil
	}), store, nil)

	if err := c.Push(context.Background()); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if called {
		t.Error("request sent without token")
	}
}

func TestPush_OnlyNonEmptyLists(t *testing.T) {
	store := storage.NewMemoryStore()
	_ = storage.Set(store, storage.KeyAuthToken, "tok-1")
	_ = storage.Set(store, storage.KeyMaterialsBOM, []string{})
	_ = storage.Set(store, storage.KeyFinishedGoods, []string{"x"})
	_ = storage.Set(store, storage.KeyEntries, []string{"not on allow-list"})
	_ = store.SetRaw(storage.KeyObservations, []byte(`{"not":"a list"}`))

	var got map[string]json.RawMessage
	c := New("http://example.com/", newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.String() != "http://example.com/api/sync/upload" {
			t.Errorf("unexpected URL: %s", req.URL)
		}
		if auth := req.Header.Get("Authorization"); auth != "Bearer tok-1" {
			t.Errorf("Authorization = %q", auth)
		}
		body, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"ok":true}`), nil
	}), store, nil)

	if err := c.Push(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("payload = %s; want only finishedGoods", got)
	}
	if !bytes.Equal(got[storage.KeyFinishedGoods], []byte(`["x"]`)) {
		t.Errorf("finishedGoods = %s", got[storage.KeyFinishedGoods])
	}
}

func TestPush_ServerError(t *testing.T) {
	store := storage.NewMemoryStore()
	_ = storage.Set(store, storage.KeyAuthToken, "tok")
	c := New("http://example.com", newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"detail":"Invalid token"}`), nil
	}), store, nil)

	err := c.Push(context.Background())
	if err == nil || err.Error() != "Invalid token" {
		t.Errorf("expected API error, got %v", err)
	}
}
