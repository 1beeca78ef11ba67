package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"campusstay/internal/config"
	"campusstay/internal/queue"
)

func newWardenTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Load()
	cfg.StoreBackend = "memory"
	app := buildApplication(cfg, nil, queue.NewInMemory(16))
	r := gin.New()
	registerWardenRoutes(r.Group("/"), app)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetCapacityAcceptsZero(t *testing.T) {
	r := newWardenTestRouter()

	w := doJSON(r, http.MethodPost, "/rooms", `{"name":"A-101","capacity":3}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create room = %d, body %s", w.Code, w.Body.String())
	}
	var room struct {
		ID       string `json:"id"`
		Capacity int    `json:"capacity"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &room); err != nil {
		t.Fatal(err)
	}

	// An explicit zero must bind and get floored to 1, not rejected.
	w = doJSON(r, http.MethodPut, "/rooms/"+room.ID+"/capacity", `{"capacity":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set capacity 0 = %d, body %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &room); err != nil {
		t.Fatal(err)
	}
	if room.Capacity != 1 {
		t.Fatalf("capacity = %d, want floor of 1", room.Capacity)
	}

	w = doJSON(r, http.MethodPut, "/rooms/"+room.ID+"/capacity", `{"capacity":-2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set capacity -2 = %d, body %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &room); err != nil {
		t.Fatal(err)
	}
	if room.Capacity != 1 {
		t.Fatalf("capacity = %d, want floor of 1", room.Capacity)
	}

	// A missing capacity field is still a 400.
	w = doJSON(r, http.MethodPut, "/rooms/"+room.ID+"/capacity", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing capacity = %d, want 400", w.Code)
	}
}
