package module_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/nanohunter/pkg/module"
)

func echoPath(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.URL.Path))
}

func TestNewPrefixValidation(t *testing.T) {
	tests := []struct {
		prefix  string
		wantErr bool
	}{
		{"/api", false},
		{"/v1", false},
		{"", true},
		{"/", true},
		{"api", true},
		{"/api/v1", true},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			m, err := module.New(tt.prefix, http.NewServeMux())
			if tt.wantErr {
				if !errors.Is(err, module.ErrInvalidPrefix) {
					t.Errorf("expected ErrInvalidPrefix, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Prefix() != tt.prefix {
				t.Errorf("prefix: got %s, want %s", m.Prefix(), tt.prefix)
			}
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	inner := http.NewServeMux()
	inner.HandleFunc("/", echoPath)

	api, err := module.New("/api", inner)
	if err != nil {
		t.Fatal(err)
	}

	var hits int
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			next.ServeHTTP(w, r)
		})
	})

	router := module.NewRouter()
	if err := router.Mount(api); err != nil {
		t.Fatal(err)
	}
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("native"))
	})

	tests := []struct {
		path string
		want string
	}{
		{"/api/history", "/history"},
		{"/api/history/", "/history"},
		{"/api", "/"},
		{"/api/options/preset", "/options/preset"},
		{"/healthz", "native"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body: got %q, want %q", got, tt.want)
			}
		})
	}

	if hits != 4 {
		t.Errorf("module middleware hits: got %d, want 4", hits)
	}
}

func TestRouterUnknownPathFallsThrough(t *testing.T) {
	router := module.NewRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestMountDuplicate(t *testing.T) {
	router := module.NewRouter()
	a, _ := module.New("/api", http.NewServeMux())
	b, _ := module.New("/api", http.NewServeMux())

	if err := router.Mount(a); err != nil {
		t.Fatal(err)
	}
	if err := router.Mount(b); err == nil {
		t.Error("expected error mounting duplicate prefix")
	}
}
