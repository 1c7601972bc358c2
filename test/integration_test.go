// ABOUTME: Integration tests for the liftlog CLI.
// ABOUTME: Builds the binary and runs the plan/sync workflow against a fake remote.
package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(projectRoot, "liftlog")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/liftlog")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(binary)

	exerciseID := "0b8f7d4e-5a1c-4e2b-9f3d-6c7a8b9d0e1f"
	remotePlanID := "7c2e9f1a-3b4d-4c5e-8a6f-1d2e3f4a5b6c"
	var planUpserts atomic.Int64

	// Fake remote: serves the catalog and plans, accepts plan upserts.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/exercises":
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": exerciseID, "name": "Bench Press", "category": "strength",
					"has_reps": true, "has_weight": true, "calories_per_minute": 6.5},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/workout_plans":
			if r.URL.Query().Get("day_of_week") != "eq.monday" {
				json.NewEncoder(w).Encode([]map[string]interface{}{})
				return
			}
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": remotePlanID, "day_of_week": "monday",
					"exercise_id": exerciseID, "exercise_name": "Incline Press",
					"order_index": 5},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/workout_plans":
			planUpserts.Add(1)
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tmpDir := t.TempDir()
	run := func(server string, args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = append(os.Environ(),
			"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
			"LIFTLOG_DATA_DIR="+filepath.Join(tmpDir, "data"),
			"LIFTLOG_SERVER="+server,
		)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Offline with an empty catalog: reads work, sync is skipped.
	output, err := run("", "catalog", "list")
	if err != nil {
		t.Fatalf("Failed to list empty catalog: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Catalog is empty") {
		t.Errorf("Expected empty-catalog notice, got: %s", output)
	}

	output, err = run("", "sync", "now")
	if err != nil {
		t.Fatalf("Offline sync should not fail: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Offline") {
		t.Errorf("Expected offline notice, got: %s", output)
	}

	// Pull the catalog.
	output, err = run(srv.URL, "catalog", "refresh")
	if err != nil {
		t.Fatalf("Failed to refresh catalog: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Catalog refreshed") {
		t.Errorf("Expected 'Catalog refreshed' in output, got: %s", output)
	}

	output, err = run(srv.URL, "catalog", "list")
	if err != nil {
		t.Fatalf("Failed to list catalog: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Bench Press") {
		t.Errorf("Expected 'Bench Press' in catalog, got: %s", output)
	}

	// Plan an exercise; the write lands locally and queues a mutation.
	output, err = run("", "plan", "add", "monday", exerciseID, "--sets", "3", "--reps", "10")
	if err != nil {
		t.Fatalf("Failed to add plan: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Added Bench Press to monday") {
		t.Errorf("Expected plan confirmation, got: %s", output)
	}

	output, err = run("", "plan", "list", "monday")
	if err != nil {
		t.Fatalf("Failed to list plans: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Bench Press") || !strings.Contains(output, "3x10") {
		t.Errorf("Expected planned exercise in list, got: %s", output)
	}

	output, err = run("", "sync", "status")
	if err != nil {
		t.Fatalf("Failed to get sync status: %v\n%s", err, output)
	}
	if !strings.Contains(output, "pending: 1") {
		t.Errorf("Expected 1 pending mutation, got: %s", output)
	}

	// Drain against the fake remote.
	output, err = run(srv.URL, "sync", "now")
	if err != nil {
		t.Fatalf("Failed to sync: %v\n%s", err, output)
	}
	if !strings.Contains(output, "1 synced") {
		t.Errorf("Expected 1 synced in drain summary, got: %s", output)
	}
	if planUpserts.Load() != 1 {
		t.Errorf("Expected 1 remote plan upsert, got %d", planUpserts.Load())
	}

	// Re-draining finds nothing pending and stays quiet.
	output, err = run(srv.URL, "sync", "status")
	if err != nil {
		t.Fatalf("Failed to get sync status: %v\n%s", err, output)
	}
	if !strings.Contains(output, "pending: 0") || !strings.Contains(output, "synced:  1") {
		t.Errorf("Expected drained queue, got: %s", output)
	}

	// Cold-start pull: remote plans land in the local cache next to the
	// locally-created one.
	output, err = run(srv.URL, "pull")
	if err != nil {
		t.Fatalf("Failed to pull: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Local caches refreshed") {
		t.Errorf("Expected pull confirmation, got: %s", output)
	}

	output, err = run("", "plan", "list", "monday")
	if err != nil {
		t.Fatalf("Failed to list plans after pull: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Incline Press") {
		t.Errorf("Expected pulled plan in list, got: %s", output)
	}
	if !strings.Contains(output, "Bench Press") {
		t.Errorf("Pull must not drop the local plan, got: %s", output)
	}
}
