package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchSuccessFirstAttempt(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	f := New(time.Second, 3, time.Millisecond)
	content, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if content != "hello" {
		t.Errorf("Fetch() content = %q, want %q", content, "hello")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	for _, retries := range []int{1, 2, 3, 5} {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusInternalServerError)
		}))

		f := New(time.Second, retries, time.Millisecond)
		_, err := f.Fetch(context.Background(), srv.URL)
		if err == nil {
			t.Errorf("retries=%d: Fetch() error = nil, want error", retries)
		}
		if attempts != retries {
			t.Errorf("retries=%d: attempts = %d, want %d", retries, attempts, retries)
		}
		srv.Close()
	}
}

func TestFetchSucceedsMidway(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := New(time.Second, 5, time.Millisecond)
	content, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if content != "ok" {
		t.Errorf("Fetch() content = %q, want %q", content, "ok")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestFetchNonOKStatusIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(time.Second, 1, 0)
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Fetch() error = nil, want error for non-200 status")
	}
}
