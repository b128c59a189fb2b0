package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gaurav-prasanna/postpipe/core"
)

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"tips-home":            "tips-home",
		"/blog-post/Tips-Home": "tips-home",
		"../../etc/passwd":     "______etc_passwd",
		"a b?c":                "a_b_c",
		"":                     "index",
	}
	for in, want := range tests {
		if got := FileName(in); got != want {
			t.Errorf("FileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteOneAndAll(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	path, err := w.WriteOne("tips-home", []byte("one"), ".md")
	if err != nil {
		t.Fatalf("WriteOne() error = %v", err)
	}
	if want := filepath.Join(dir, "tips-home.md"); path != want {
		t.Errorf("WriteOne() path = %q, want %q", path, want)
	}

	path, err = w.WriteAll("tips-home", []byte("all"), ".html")
	if err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if want := filepath.Join(dir, PostDir, "tips-home.html"); path != want {
		t.Errorf("WriteAll() path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "all" {
		t.Errorf("ReadFile() = %q, %v", data, err)
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if _, err := New(dir); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestWriteIndex(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	path, err := w.WriteIndex([]core.ArticleMeta{
		{Slug: "tips-home", Title: "Tips & Tricks", Category: "Home", Author: "admin", PublishedAt: "2024-10-12"},
		{Slug: "untitled"},
	}, ".html")
	if err != nil {
		t.Fatalf("WriteIndex() error = %v", err)
	}
	if path != filepath.Join(dir, IndexFile) {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	contains := []string{
		"# Articles",
		"2 articles exported.",
		"[Tips & Tricks](blog-post/tips-home.html)",
		"[untitled](blog-post/untitled.html)",
		"2024-10-12",
	}
	for _, want := range contains {
		if !strings.Contains(got, want) {
			t.Errorf("index missing %q\n%s", want, got)
		}
	}
}
