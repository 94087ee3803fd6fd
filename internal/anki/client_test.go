package anki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// recordedRequest is one decoded envelope seen by the fake server.
type recordedRequest struct {
	Action  string         `json:"action"`
	Version int            `json:"version"`
	Params  map[string]any `json:"params"`
}

// newFakeServer returns a client pointed at an httptest server that replies
// to every request with the given body, recording envelopes as they arrive.
func newFakeServer(t *testing.T, body string) (*Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req recordedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("request body did not decode: %v", err)
		}
		requests = append(requests, req)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	client := New(&Config{URL: srv.URL})
	t.Cleanup(client.Close)
	return client, &requests
}

func TestInvokeSendsVersionedEnvelope(t *testing.T) {
	client, requests := newFakeServer(t, `{"result": [], "error": null}`)

	if _, err := client.Invoke(context.Background(), ActionFindCards, map[string]any{"query": "is:due"}); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if len(*requests) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(*requests))
	}
	req := (*requests)[0]
	if req.Action != "findCards" {
		t.Errorf("action = %q, want findCards", req.Action)
	}
	if req.Version != ProtocolVersion {
		t.Errorf("version = %d, want %d", req.Version, ProtocolVersion)
	}
	if req.Params["query"] != "is:due" {
		t.Errorf("params[query] = %v, want is:due", req.Params["query"])
	}
}

func TestInvokeReturnsResultUnmodified(t *testing.T) {
	client, _ := newFakeServer(t, `{"result": {"a": [1, 2], "b": "x"}, "error": null}`)

	raw, err := client.Invoke(context.Background(), ActionDeckNames, nil)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("result did not round-trip: %v", err)
	}
	if got["b"] != "x" {
		t.Errorf("result[b] = %v, want x", got["b"])
	}
}

func TestInvokeApplicationError(t *testing.T) {
	client, _ := newFakeServer(t, `{"result": 99, "error": "deck not found"}`)

	_, err := client.Invoke(context.Background(), ActionFindCards, nil)
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "deck not found" {
		t.Errorf("message = %q, want verbatim server message", apiErr.Message)
	}
	if !strings.Contains(err.Error(), "deck not found") {
		t.Errorf("error text %q does not contain the server message", err.Error())
	}
}

func TestInvokeTransportErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(&Config{URL: srv.URL})
	defer client.Close()

	_, err := client.Invoke(context.Background(), ActionDeckNames, nil)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if transportErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", transportErr.Status)
	}
}

// timeoutError satisfies net.Error with Timeout() == true.
type timeoutError struct{}

func (timeoutError) Error() string   { return "connection timed out" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// scriptedTransport fails the first failures attempts with a timeout, then
// serves a canned success response. It counts every attempt.
type scriptedTransport struct {
	failures int
	attempts int
	body     string
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.attempts++
	if s.attempts <= s.failures {
		return nil, timeoutError{}
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     make(http.Header),
	}, nil
}

// newScriptedClient builds a client over a scriptedTransport with the sleep
// function replaced by a recorder.
func newScriptedClient(transport *scriptedTransport) (*Client, *[]time.Duration) {
	client := New(&Config{URL: "http://localhost:8765"})
	client.http = &http.Client{Transport: transport}
	var delays []time.Duration
	client.sleep = func(d time.Duration) {
		delays = append(delays, d)
	}
	return client, &delays
}

func TestInvokeRetriesTimeoutsWithBackoff(t *testing.T) {
	transport := &scriptedTransport{failures: 3}
	client, delays := newScriptedClient(transport)

	_, err := client.Invoke(context.Background(), ActionDeckNames, nil)
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected *ConnectionError, got %T: %v", err, err)
	}
	if connErr.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", connErr.Attempts)
	}
	if transport.attempts != 3 {
		t.Errorf("transport saw %d attempts, want 3", transport.attempts)
	}
	if !strings.Contains(err.Error(), "http://localhost:8765") {
		t.Errorf("error text %q missing endpoint URL", err.Error())
	}
	if !strings.Contains(err.Error(), "3 attempts") {
		t.Errorf("error text %q missing attempt count", err.Error())
	}

	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("recorded %d backoff delays, want %d", len(*delays), len(want))
	}
	for i, d := range want {
		if (*delays)[i] != d {
			t.Errorf("delay %d = %v, want %v", i, (*delays)[i], d)
		}
	}
}

func TestInvokeRecoversAfterSingleTimeout(t *testing.T) {
	transport := &scriptedTransport{failures: 1, body: `{"result": 7, "error": null}`}
	client, delays := newScriptedClient(transport)

	raw, err := client.Invoke(context.Background(), ActionFindNotes, nil)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if string(raw) != "7" {
		t.Errorf("result = %s, want 7", raw)
	}
	if transport.attempts != 2 {
		t.Errorf("transport saw %d attempts, want exactly 2", transport.attempts)
	}
	if len(*delays) != 1 || (*delays)[0] != 1*time.Second {
		t.Errorf("delays = %v, want [1s]", *delays)
	}
}

// failingTransport fails every attempt with a non-timeout error.
type failingTransport struct {
	attempts int
}

func (f *failingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.attempts++
	return nil, errors.New("connection refused")
}

func TestInvokeDoesNotRetryNonTimeoutFailures(t *testing.T) {
	transport := &failingTransport{}
	client := New(nil)
	client.http = &http.Client{Transport: transport}
	client.sleep = func(time.Duration) {
		t.Error("backoff sleep must not run for non-timeout failures")
	}

	_, err := client.Invoke(context.Background(), ActionDeckNames, nil)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if transport.attempts != 1 {
		t.Errorf("transport saw %d attempts, want 1", transport.attempts)
	}
}

func TestInvokeUnexpectedErrorOnMalformedResponse(t *testing.T) {
	client, _ := newFakeServer(t, `not json at all`)

	_, err := client.Invoke(context.Background(), ActionDeckNames, nil)
	var unexpectedErr *UnexpectedError
	if !errors.As(err, &unexpectedErr) {
		t.Fatalf("expected *UnexpectedError, got %T: %v", err, err)
	}
}
