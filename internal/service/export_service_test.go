package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"masquerade/internal/domain"
	"masquerade/internal/service"
)

func TestExportFileName(t *testing.T) {
	tests := map[string]string{
		"Account Page":       "account-page.masquerade.json",
		"Q3 Pipeline (v2)":   "q3-pipeline--v2-.masquerade.json",
		"Café":               "caf-.masquerade.json",
		"already-kebab-case": "already-kebab-case.masquerade.json",
	}
	for in, want := range tests {
		if got := service.ExportFileName(in); got != want {
			t.Errorf("ExportFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExportService_Envelope(t *testing.T) {
	e := newEnv(t)
	svc := service.NewExportService(e.designs, nil)

	out, err := svc.Export(domain.SavedDesign{Name: "Account Page", Data: `{"id":"d1"}`})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "\n  \"name\": \"Account Page\"") {
		t.Errorf("expected two-space indented envelope, got:\n%s", out)
	}

	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatal(err)
	}
	if env["version"] != "1.0.0" || env["data"] != `{"id":"d1"}` {
		t.Errorf("envelope = %v", env)
	}
	if _, ok := env["exportedAt"].(float64); !ok {
		t.Errorf("exportedAt should be epoch ms, got %T", env["exportedAt"])
	}
}

func TestExportService_Import(t *testing.T) {
	e := newEnv(t)
	svc := service.NewExportService(e.designs, nil)

	d, err := svc.Import([]byte(`{"data":"{}","version":"1.0.0"}`))
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "Imported Design" || d.ID == "" {
		t.Errorf("imported = %+v", d)
	}

	again, _ := svc.Import([]byte(`{"name":"Twin","data":"{}"}`))
	if again.ID == d.ID {
		t.Error("every import gets a fresh id")
	}

	for _, bad := range []string{`{"name":"x"}`, `not json`} {
		if _, err := svc.Import([]byte(bad)); !errors.Is(err, domain.ErrInvalidEnvelope) {
			t.Errorf("Import(%s): err = %v, want ErrInvalidEnvelope", bad, err)
		}
	}

	list, _ := e.designs.ListDesigns()
	if len(list) != 2 {
		t.Errorf("saved designs = %d, want 2", len(list))
	}
}

func TestExportService_FileRoundTrip(t *testing.T) {
	e := newEnv(t)
	svc := service.NewExportService(e.designs, nil)
	dir := t.TempDir()

	e.designs.SaveDesign(&domain.SavedDesign{ID: "d1", Name: "Case Console", Data: `{"id":"d1"}`})

	path, err := svc.ExportFile("d1", dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "case-console.masquerade.json" {
		t.Errorf("path = %s", path)
	}

	imported, err := svc.ImportFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if imported.Name != "Case Console" || imported.Data != `{"id":"d1"}` || imported.ID == "d1" {
		t.Errorf("imported = %+v", imported)
	}

	if _, err := svc.ExportFile("missing", dir); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("export missing: err = %v", err)
	}
}

func TestExportService_ExportAll(t *testing.T) {
	e := newEnv(t)
	svc := service.NewExportService(e.designs, nil)
	dir := t.TempDir()

	e.designs.SaveDesign(&domain.SavedDesign{ID: "a", Name: "Home", Data: "{}"})
	e.designs.SaveDesign(&domain.SavedDesign{ID: "b", Name: "Home", Data: "{}"})
	e.designs.SaveDesign(&domain.SavedDesign{ID: "c", Name: "Opportunity", Data: "{}"})

	paths, err := svc.ExportAll(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v", paths)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 3 {
		t.Errorf("same-named designs overwrote each other: %d files", len(entries))
	}
}
