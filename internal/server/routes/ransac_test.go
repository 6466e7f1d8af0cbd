package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/jonazpiazu/mrdja/internal/logging"
	"github.com/jonazpiazu/mrdja/internal/ransac"
)

func TestRansacIterationsEndpoint(t *testing.T) {
	app := newTestApp(t, logging.Discard(), RegisterRansacRoutes)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/-/ransac/iterations?inlier_ratio=0.5&probability=0.99", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var payload struct {
		Iterations    float64 `json:"iterations"`
		MinIterations int     `json:"min_iterations"`
		SampleSize    int     `json:"sample_size"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want, err := ransac.EstimateIterations(0.5, 0.99)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if payload.Iterations != want {
		t.Fatalf("expected %v, got %v", want, payload.Iterations)
	}
	if payload.MinIterations != 1 || payload.SampleSize != ransac.DefaultSampleSize {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestRansacIterationsAcceptsSmallRatio(t *testing.T) {
	app := newTestApp(t, logging.Discard(), RegisterRansacRoutes)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/-/ransac/iterations?inlier_ratio=0.0001&probability=0.99", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("small ratio must be accepted, got %d", resp.StatusCode)
	}
	var payload struct {
		Iterations    float64 `json:"iterations"`
		MinIterations int64   `json:"min_iterations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload.Iterations < 1e10 || payload.MinIterations != 10050335854 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestRansacIterationsRejectsBadInput(t *testing.T) {
	app := newTestApp(t, logging.Discard(), RegisterRansacRoutes)

	for _, query := range []string{
		"",
		"inlier_ratio=abc&probability=0.99",
		"inlier_ratio=0.5",
		"inlier_ratio=0&probability=0.99",
		"inlier_ratio=1&probability=0.99",
		"inlier_ratio=0.5&probability=0.99&sample_size=0",
		"inlier_ratio=0.5&probability=0.99&sample_size=x",
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/-/ransac/iterations?"+query, nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %d", query, resp.StatusCode)
		}
		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if body["error"] != "invalid_argument" {
			t.Fatalf("%q: unexpected error code %q", query, body["error"])
		}
	}
}
