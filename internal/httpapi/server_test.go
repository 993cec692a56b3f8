package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sengdao/splitkip/internal/engine"
	"github.com/sengdao/splitkip/internal/models"
	"github.com/sengdao/splitkip/internal/session"
	"github.com/sengdao/splitkip/internal/storage/sqlite"
)

// setupTestServer creates a test server backed by a temp SQLite database.
// The store is returned so tests can inspect or mutate persisted state
// behind the API.
func setupTestServer(t *testing.T) (*httptest.Server, *sqlite.SQLiteStore) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitkip-api-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	mux := http.NewServeMux()
	NewServer(session.New(store, nil)).Register(mux)

	server := httptest.NewServer(LoggingMiddleware(CORSMiddleware(mux)))
	t.Cleanup(server.Close)
	return server, store
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func createSplit(t *testing.T, server *httptest.Server, total float64, names []string) *models.Split {
	t.Helper()
	resp, data := doJSON(t, http.MethodPost, server.URL+"/api/splits", map[string]any{
		"totalAmount": total,
		"userNames":   names,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create split: status %d, body %s", resp.StatusCode, data)
	}
	var split models.Split
	if err := json.Unmarshal(data, &split); err != nil {
		t.Fatalf("decode split: %v", err)
	}
	return &split
}

func TestCreateSplit(t *testing.T) {
	server, _ := setupTestServer(t)

	split := createSplit(t, server, 90000, []string{"Ann", "Bob", "Cid"})
	if split.ID == "" {
		t.Error("split ID missing")
	}
	if len(split.Users) != 3 {
		t.Fatalf("users = %d, want 3", len(split.Users))
	}
	for _, u := range split.Users {
		if math.Abs(u.CurrentBalance-30000) > 0.01 {
			t.Errorf("%s balance = %v, want 30000", u.UserName, u.CurrentBalance)
		}
	}
}

func TestCreateSplitValidation(t *testing.T) {
	server, _ := setupTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"non-positive total", map[string]any{"totalAmount": 0, "userNames": []string{"Ann"}}},
		{"no participants", map[string]any{"totalAmount": 100, "userNames": []string{}}},
		{"blank name", map[string]any{"totalAmount": 100, "userNames": []string{"Ann", "  "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := doJSON(t, http.MethodPost, server.URL+"/api/splits", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body %s", resp.StatusCode, data)
			}
			var body map[string]string
			if err := json.Unmarshal(data, &body); err != nil || body["error"] == "" {
				t.Errorf("expected error message, got %s", data)
			}
		})
	}
}

func TestAddPurchaseFlow(t *testing.T) {
	server, _ := setupTestServer(t)
	split := createSplit(t, server, 90000, []string{"Ann", "Bob", "Cid"})

	url := fmt.Sprintf("%s/api/splits/%s/purchases", server.URL, split.ID)

	resp, data := doJSON(t, http.MethodPost, url, map[string]any{
		"userIndex": 0, "itemName": "Coffee", "amount": 10000,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add purchase: status %d, body %s", resp.StatusCode, data)
	}
	var updated models.Split
	if err := json.Unmarshal(data, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(updated.Users[0].CurrentBalance-20000) > 0.01 {
		t.Errorf("Ann balance = %v, want 20000", updated.Users[0].CurrentBalance)
	}

	// Exceeding the current balance is a 400 and changes nothing
	resp, data = doJSON(t, http.MethodPost, url, map[string]any{
		"userIndex": 0, "itemName": "Coffee", "amount": 25000,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("overspend: status %d, body %s", resp.StatusCode, data)
	}

	resp, data = doJSON(t, http.MethodGet, server.URL+"/api/splits/"+split.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get split: status %d", resp.StatusCode)
	}
	var after models.Split
	if err := json.Unmarshal(data, &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(after.Users[0].CurrentBalance-20000) > 0.01 {
		t.Errorf("balance after rejected purchase = %v, want 20000", after.Users[0].CurrentBalance)
	}
}

func TestSettlementsEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)
	split := createSplit(t, server, 90000, []string{"Ann", "Bob", "Cid"})

	// No purchases: everyone still owes their share, nobody is owed, so the
	// sweep has no creditors and returns an empty list.
	resp, data := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/splits/%s/settlements", server.URL, split.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settlements: status %d", resp.StatusCode)
	}
	var settlements []engine.Settlement
	if err := json.Unmarshal(data, &settlements); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(settlements) != 0 {
		t.Errorf("settlements = %+v, want none", settlements)
	}
}

func TestTogglePaid(t *testing.T) {
	server, _ := setupTestServer(t)
	split := createSplit(t, server, 100, []string{"Ann", "Bob"})

	url := fmt.Sprintf("%s/api/splits/%s/paid", server.URL, split.ID)
	resp, data := doJSON(t, http.MethodPost, url, map[string]any{"userId": "user_1", "isPaid": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle paid: status %d, body %s", resp.StatusCode, data)
	}
	var updated models.Split
	if err := json.Unmarshal(data, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !updated.Users[0].IsPaid {
		t.Error("IsPaid not set")
	}

	resp, _ = doJSON(t, http.MethodPost, url, map[string]any{"userId": "user_9", "isPaid": true})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown user: status %d, want 400", resp.StatusCode)
	}
}

func TestSplitHistory(t *testing.T) {
	server, _ := setupTestServer(t)
	first := createSplit(t, server, 100, []string{"Ann", "Bob"})
	second := createSplit(t, server, 200, []string{"Cid", "Dee"})

	resp, data := doJSON(t, http.MethodGet, server.URL+"/api/splits", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d", resp.StatusCode)
	}
	var splits []models.Split
	if err := json.Unmarshal(data, &splits); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(splits) != 2 {
		t.Fatalf("history = %d entries, want 2", len(splits))
	}

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/splits/"+first.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/splits/"+first.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted: status %d, want 404", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/splits/"+second.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("get remaining: status %d, want 200", resp.StatusCode)
	}
}

func TestClearSplit(t *testing.T) {
	server, store := setupTestServer(t)
	split := createSplit(t, server, 90000, []string{"Ann", "Bob", "Cid"})

	resp, data := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/splits/%s/purchases", server.URL, split.ID), map[string]any{
		"userIndex": 0, "itemName": "Coffee", "amount": 10000,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add purchase: status %d, body %s", resp.StatusCode, data)
	}

	// Rewrite the record behind the API; the live session keeps shadowing it
	fresh := split.Users
	if err := store.UpdateSplitUsers(context.Background(), split.ID, fresh); err != nil {
		t.Fatalf("UpdateSplitUsers failed: %v", err)
	}
	resp, data = doJSON(t, http.MethodGet, server.URL+"/api/splits/"+split.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get split: status %d", resp.StatusCode)
	}
	var live models.Split
	if err := json.Unmarshal(data, &live); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(live.Users[0].CurrentBalance-20000) > 0.01 {
		t.Fatalf("live balance = %v, want 20000", live.Users[0].CurrentBalance)
	}

	// Clear drops the live session; the next read reloads the stored record
	resp, data = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/splits/%s/clear", server.URL, split.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear: status %d, body %s", resp.StatusCode, data)
	}
	resp, data = doJSON(t, http.MethodGet, server.URL+"/api/splits/"+split.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get split after clear: status %d", resp.StatusCode)
	}
	var reloaded models.Split
	if err := json.Unmarshal(data, &reloaded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(reloaded.Users[0].CurrentBalance-30000) > 0.01 {
		t.Errorf("balance after clear = %v, want stored 30000", reloaded.Users[0].CurrentBalance)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)
	split := createSplit(t, server, 90000, []string{"Ann", "Bob", "Cid"})

	resp, data := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/splits/%s/summary", server.URL, split.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	for _, want := range []string{"Ann", "Bob", "Cid", "30,000"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("summary missing %q:\n%s", want, data)
		}
	}
}

// TestSummaryTransfers stores a snapshot with an overpaid participant and
// checks the rendered transfers agree with the rendered balances.
func TestSummaryTransfers(t *testing.T) {
	server, store := setupTestServer(t)

	split := &models.Split{
		TotalAmount:   60000,
		TotalUsers:    2,
		PerUserAmount: 30000,
		Users: []models.UserShare{
			{UserID: "user_1", UserName: "Ann", InitialShare: 30000, CurrentBalance: -5000},
			{UserID: "user_2", UserName: "Bob", InitialShare: 30000, CurrentBalance: 5000},
		},
	}
	if err := store.CreateSplit(context.Background(), split); err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	resp, data := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/splits/%s/summary", server.URL, split.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: status %d", resp.StatusCode)
	}
	for _, want := range []string{"ການໂອນ", "Bob → Ann", "5,000"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("summary missing %q:\n%s", want, data)
		}
	}
}

func TestCalculations(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, data := doJSON(t, http.MethodPost, server.URL+"/api/calculations", map[string]any{
		"totalAmount": 90000, "userAmount": 3, "calculationType": "divide",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create calculation: status %d, body %s", resp.StatusCode, data)
	}
	var rec models.Calculation
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(rec.Result-30000) > 0.01 {
		t.Errorf("result = %v, want 30000", rec.Result)
	}
	if rec.Details.Formula == "" {
		t.Error("formula missing")
	}

	// Invalid operands are rejected
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/calculations", map[string]any{
		"totalAmount": 100, "userAmount": 150, "calculationType": "subtract",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid calculation: status %d, want 400", resp.StatusCode)
	}

	resp, data = doJSON(t, http.MethodGet, server.URL+"/api/calculations", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list calculations: status %d", resp.StatusCode)
	}
	var calcs []models.Calculation
	if err := json.Unmarshal(data, &calcs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(calcs) != 1 {
		t.Fatalf("calculations = %d, want 1", len(calcs))
	}

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/calculations/"+rec.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete calculation: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/calculations/"+rec.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	server, _ := setupTestServer(t)
	resp, data := doJSON(t, http.MethodGet, server.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: status %d", resp.StatusCode)
	}
	if !strings.Contains(string(data), "ok") {
		t.Errorf("healthz body = %s", data)
	}
}
