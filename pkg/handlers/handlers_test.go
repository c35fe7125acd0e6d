package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/nanohunter/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
	}{
		{
			name:       "200 with map",
			status:     http.StatusOK,
			data:       map[string]string{"key": "value"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "201 with struct",
			status:     http.StatusCreated,
			data:       struct{ ID string }{ID: "0190f"},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		status  int
		err     error
		wantMsg string
	}{
		{"client error keeps message", http.StatusBadRequest, errors.New("invalid input"), "invalid input"},
		{"server error hides cause", http.StatusInternalServerError, errors.New("dial tcp 10.0.0.3:6379"), "Internal Server Error"},
		{"upstream error hides cause", http.StatusBadGateway, errors.New("quota exceeded for key abc"), "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondError(rec, logger, tt.status, tt.err)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.status {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.status)
			}

			var parsed map[string]string
			if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if parsed["error"] != tt.wantMsg {
				t.Errorf("error: got %q, want %q", parsed["error"], tt.wantMsg)
			}
		})
	}
}

func TestRespondAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondAttachment(rec, "prompt.txt", "text/plain; charset=utf-8", []byte("cinematic lighting"))

	res := rec.Result()
	defer res.Body.Close()

	if got := res.Header.Get("Content-Disposition"); got != `attachment; filename="prompt.txt"` {
		t.Errorf("content-disposition: got %s", got)
	}
	body, _ := io.ReadAll(res.Body)
	if string(body) != "cinematic lighting" {
		t.Errorf("body: got %q", body)
	}
}
