package fileio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("Hello\r\nWorld"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Hello\r\nWorld" {
		t.Errorf("read %q", data)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(filepath.Join(dir, "missing.txt")); !errors.Is(err, ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}
	if _, err := Open(dir); !errors.Is(err, ErrIsDir) {
		t.Errorf("directory error = %v, want ErrIsDir", err)
	}
}

func TestSaveCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")

	if err := Save(path, strings.NewReader("one\ntwo\n")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("content = %q", data)
	}

	if runtime.GOOS != "windows" {
		info, _ := os.Stat(path)
		if info.Mode().Perm() != DefaultPerm {
			t.Errorf("mode = %v, want %v", info.Mode().Perm(), DefaultPerm)
		}
	}
}

func TestSaveReplacesAndKeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not preserved on windows")
	}
	path := filepath.Join(t.TempDir(), "script.sh")
	if err := os.WriteFile(path, []byte("old contents that are longer"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := Save(path, strings.NewReader("new")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", data, "new")
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	for i := 0; i < 3; i++ {
		if err := Save(path, strings.NewReader(strings.Repeat("x", i))); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "doc.txt" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory = %v, want only doc.txt", names)
	}
}

func TestSaveErrors(t *testing.T) {
	dir := t.TempDir()

	if err := Save(dir, strings.NewReader("x")); !errors.Is(err, ErrIsDir) {
		t.Errorf("Save(dir) error = %v, want ErrIsDir", err)
	}
	if err := Save(filepath.Join(dir, "no", "such", "dir.txt"), strings.NewReader("x")); err == nil {
		t.Error("Save into a missing directory should fail")
	}
}

type failingWriterTo struct{}

func (failingWriterTo) WriteTo(w io.Writer) (int64, error) {
	n, _ := w.Write([]byte("partial"))
	return int64(n), errors.New("boom")
}

func TestSaveFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Save(path, failingWriterTo{}); err == nil {
		t.Fatal("Save() should fail")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "original" {
		t.Errorf("content = %q, want original", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}
