package cli

import (
	"os"
	"path/filepath"
	"testing"

	"storefront/domain"
	"storefront/store"
)

// capture error return of Execute for commands expecting failure
func TestPersistentPreRun_FileStoreMissingPath(t *testing.T) {
	defer resetCLI()
	rootCmd.SetArgs([]string{"--store", "file", "--location", "", "browse"})
	if err := Execute(); err == nil {
		t.Fatalf("expected error when file store path is empty, got nil")
	}
}

func TestUnknownStoreKind(t *testing.T) {
	defer resetCLI()
	rootCmd.SetArgs([]string{"--store", "unknown", "browse"})
	if err := Execute(); err == nil {
		t.Fatalf("expected error for unknown store kind, got nil")
	}
}

func TestBadRedisURL(t *testing.T) {
	defer resetCLI()
	rootCmd.SetArgs([]string{"--store", "memory", "--redis-url", "ftp://nope", "browse"})
	if err := Execute(); err == nil {
		t.Fatalf("expected error for malformed redis url, got nil")
	}
}

func TestImport_UnsupportedFormat(t *testing.T) {
	defer resetCLI()
	catalogStore = store.NewInMemoryStore()
	tmp := filepath.Join(t.TempDir(), "bad_import.json")
	if err := os.WriteFile(tmp, []byte("this is not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"import", "--file", tmp})
	if err := Execute(); err == nil {
		t.Fatalf("expected error for unsupported import format, got nil")
	}
}

func TestImport_ReportsInvalidProducts(t *testing.T) {
	defer resetCLI()
	catalogStore = store.NewInMemoryStore()
	tmp := filepath.Join(t.TempDir(), "mixed.json")
	if err := os.WriteFile(tmp, []byte(`[{"id":1,"title":"ok"},{"id":0,"title":"bad"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"import", "--file", tmp})
	err := Execute()
	if !domain.IsInvalidProductError(err) {
		t.Fatalf("expected InvalidProductError, got %v", err)
	}
}

func TestMissingFileFlags(t *testing.T) {
	for _, name := range []string{"import", "export"} {
		t.Run(name, func(t *testing.T) {
			defer resetCLI()
			catalogStore = store.NewInMemoryStore()
			rootCmd.SetArgs([]string{name})
			if err := Execute(); err == nil {
				t.Fatalf("expected error when %s --file missing, got nil", name)
			}
		})
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	defer resetCLI()
	catalogStore = store.NewInMemoryStore()
	rootCmd.SetArgs([]string{"export", "--file", filepath.Join(t.TempDir(), "out.csv")})
	if err := Execute(); err == nil {
		t.Fatalf("expected error for csv export, got nil")
	}
}

func TestShowAndReview_BadInput(t *testing.T) {
	defer resetCLI()
	catalogStore = store.NewInMemoryStore()

	rootCmd.SetArgs([]string{"show", "abc"})
	if err := Execute(); !domain.IsInvalidProductError(err) {
		t.Fatalf("expected InvalidProductError for non-numeric id, got %v", err)
	}

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"review", "1", "--comment", "no name"})
	if err := Execute(); !domain.IsInvalidProductError(err) {
		t.Fatalf("expected InvalidProductError for missing reviewer, got %v", err)
	}

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"review", "1", "--name", "a", "--comment", "b"})
	if err := Execute(); !domain.IsProductNotFoundError(err) {
		t.Fatalf("expected ProductNotFoundError, got %v", err)
	}
}
