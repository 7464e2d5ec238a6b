package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

func fastOptions() Options {
	return Options{
		Timeout:         2 * time.Second,
		PerHostInterval: time.Millisecond,
		MaxRetries:      0,
		CacheTTL:        time.Minute,
	}
}

func TestCheckURLStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/moved":
			w.Header().Set("Location", "/elsewhere")
			w.WriteHeader(http.StatusMovedPermanently)
		case "/gone":
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	checker := NewChecker(fastOptions(), zerolog.Nop())

	testCases := []struct {
		name   string
		path   string
		status Status
	}{
		{"reachable", "/ok", StatusOK},
		{"redirected", "/moved", StatusMoved},
		{"missing", "/gone", StatusBroken},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := checker.CheckURL(context.Background(), server.URL+tc.path)
			if result.Status != tc.status {
				t.Errorf("Status = %q, want %q", result.Status, tc.status)
			}
		})
	}
}

func TestCheckURLRecordsRedirectTarget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://example.com/new-home")
		w.WriteHeader(http.StatusMovedPermanently)
	}))
	defer server.Close()

	checker := NewChecker(fastOptions(), zerolog.Nop())
	result := checker.CheckURL(context.Background(), server.URL)
	if result.Location != "https://example.com/new-home" {
		t.Errorf("Location = %q, want the redirect target", result.Location)
	}
}

func TestCheckURLUnparseable(t *testing.T) {
	checker := NewChecker(fastOptions(), zerolog.Nop())
	result := checker.CheckURL(context.Background(), "not a url")
	if result.Status != StatusBroken {
		t.Errorf("Status = %q, want %q", result.Status, StatusBroken)
	}
}

func TestCheckDocumentsReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	documents := []types.RegulatoryDocument{
		{DocumentCode: "B", SourceURL: server.URL + "/ok"},
		{DocumentCode: "A", SourceURL: server.URL + "/gone"},
		{DocumentCode: "C"},
	}

	checker := NewChecker(fastOptions(), zerolog.Nop())
	report := checker.CheckDocuments(context.Background(), documents)

	if report.Checked != 2 {
		t.Errorf("Checked = %d, want 2", report.Checked)
	}
	if report.Broken != 1 {
		t.Errorf("Broken = %d, want 1", report.Broken)
	}
	if len(report.Results) != 3 {
		t.Fatalf("Results = %d, want 3", len(report.Results))
	}
	// Ordered by document code regardless of completion order.
	if report.Results[0].DocumentCode != "A" || report.Results[2].DocumentCode != "C" {
		t.Errorf("results not ordered by code: %q, %q, %q",
			report.Results[0].DocumentCode, report.Results[1].DocumentCode, report.Results[2].DocumentCode)
	}
	if report.Results[2].Status != StatusSkipped {
		t.Errorf("document without a source URL should be skipped, got %q", report.Results[2].Status)
	}
}

func TestCheckCachesResults(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewChecker(fastOptions(), zerolog.Nop())
	checker.CheckURL(context.Background(), server.URL)
	checker.CheckURL(context.Background(), server.URL)

	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 (second check served from cache)", hits.Load())
	}
}

func TestCheckRetriesServerErrors(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	opts := fastOptions()
	opts.MaxRetries = 2
	checker := NewChecker(opts, zerolog.Nop())

	result := checker.CheckURL(context.Background(), server.URL)
	if result.Status != StatusOK {
		t.Errorf("Status = %q, want %q after retry", result.Status, StatusOK)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}
}

func TestCheckDoesNotRetryNotFound(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	opts := fastOptions()
	opts.MaxRetries = 3
	checker := NewChecker(opts, zerolog.Nop())

	checker.CheckURL(context.Background(), server.URL)
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 (4xx is definitive)", hits.Load())
	}
}
