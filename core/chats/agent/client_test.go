package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAskReturnsReplyText(t *testing.T) {
	var gotBody askRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST request, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text":      "Room 12 is available.",
			"video_url": nil,
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	reply, err := client.Ask(context.Background(), "session-1", "Any rooms free tonight?")
	if err != nil {
		t.Fatalf("expected ask to succeed, got %v", err)
	}
	if reply != "Room 12 is available." {
		t.Fatalf("unexpected reply text: %q", reply)
	}
	if gotBody.SessionID != "session-1" {
		t.Fatalf("expected session id to be carried on the wire, got %q", gotBody.SessionID)
	}
	if gotBody.Message != "Any rooms free tonight?" {
		t.Fatalf("expected message to be carried on the wire, got %q", gotBody.Message)
	}
}

func TestAskReportsNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.Ask(context.Background(), "session-1", "hello"); err == nil {
		t.Fatalf("expected an error for a 500 response")
	}
}

func TestAskReportsMissingReplyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"video_url": null}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.Ask(context.Background(), "session-1", "hello"); err == nil {
		t.Fatalf("expected an error for a reply without text")
	}
}

func TestAskReportsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text": `))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.Ask(context.Background(), "session-1", "hello"); err == nil {
		t.Fatalf("expected an error for a malformed body")
	}
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	if _, err := NewClient("   "); err == nil {
		t.Fatalf("expected an error for a blank endpoint")
	}
}
