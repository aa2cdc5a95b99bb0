package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "greeting.txt"), []byte("Hello, {{ name }}!"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "partials"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "partials", "footer.txt"), []byte("bye"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, err := New(dir, ".txt")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	src, ok := fs.Template("greeting")
	if !ok || src != "Hello, {{ name }}!" {
		t.Fatalf("got %q, %v", src, ok)
	}
	src2, ok := fs.Template("partials/footer")
	if !ok || src2 != "bye" {
		t.Fatalf("got %q, %v", src2, ok)
	}
}

func TestLoadIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs, err := New(dir, ".txt")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if names := fs.Names(); len(names) != 0 {
		t.Fatalf("expected no templates loaded, got %v", names)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.txt")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs, err := New(dir, ".txt")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer fs.Stop()

	changed := make(chan string, 1)
	if err := fs.Watch(func(name string) { changed <- name }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-changed:
		if name != "greeting" {
			t.Fatalf("got %q", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload notification")
	}

	src, _ := fs.Template("greeting")
	if src != "v2" {
		t.Fatalf("got %q", src)
	}
}
