package signup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"5082223333", "5082223333", true},
		{"1-508-222-3333", "5082223333", true},
		{"+1 (508) 222.3333", "5082223333", true},
		{"508-222-333", "", false},
		{"2-508-222-3333", "", false},
		{"508-CALL-NOW", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if tt.ok {
			if err != nil {
				t.Errorf("Normalize(%q) error: %v", tt.in, err)
			} else if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidNumber) {
			t.Errorf("Normalize(%q) err = %v, want ErrInvalidNumber", tt.in, err)
		}
	}
}

func TestClientSubmit(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/ping")
	if err := c.Submit(context.Background(), "5082223333"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.Number != "5082223333" {
		t.Errorf("posted number = %q", got.Number)
	}
}

func TestClientSubmit_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Submit(context.Background(), "5082223333")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("err = %v, want ErrRejected", err)
	}
}

func TestClientSubmit_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	if err := NewClient(url).Submit(context.Background(), "5082223333"); err == nil {
		t.Fatal("expected error for closed server")
	}
}
