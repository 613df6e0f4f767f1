package scratch

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"photo.png", true},
		{"photo.JPG", true},
		{"a.b.jpeg", true},
		{"anim.GiF", true},
		{"x.bmp", true},
		{"x.webp", true},
		{"x.tiff", false},
		{"x.svg", false},
		{"png", false},
		{"", false},
		{"archive.png.zip", false},
		{"trailing.", false},
	}
	for _, tt := range tests {
		if got := Allowed(tt.name); got != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{`..\..\windows\win.ini`, "windows_win.ini"},
		{"i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{"café.png", "cafe.png"},
		{"photo (1).jpg", "photo_1.jpg"},
		{"...", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStageStaysInsideDir(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f, err := d.Stage("../../evil.png", []byte("x"))
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	defer f.Remove()

	if filepath.Dir(f.Path) != d.Path() {
		t.Errorf("staged at %s, outside %s", f.Path, d.Path())
	}
	if !strings.HasSuffix(f.Path, "_evil.png") {
		t.Errorf("unexpected name %s", f.Path)
	}
}

func TestStageEmptyName(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f, err := d.Stage("///", []byte("x"))
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	defer f.Remove()
	if !strings.HasSuffix(f.Path, "_upload") {
		t.Errorf("unexpected name %s", f.Path)
	}
}

func TestRemoveOnce(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f, err := d.Stage("a.png", []byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.Read()
	if err != nil || string(got) != "abc" {
		t.Fatalf("Read = %q, %v", got, err)
	}
	if err := f.Remove(); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
	// second call reports the first result instead of ENOENT
	if err := f.Remove(); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestStageSameNameConcurrently(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	const n = 16
	var wg sync.WaitGroup
	files := make([]*File, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			files[i], errs[i] = d.Stage("same.png", bytes.Repeat([]byte{byte(i)}, 64))
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i, f := range files {
		if errs[i] != nil {
			t.Fatalf("Stage %d: %v", i, errs[i])
		}
		if seen[f.Path] {
			t.Fatalf("duplicate path %s", f.Path)
		}
		seen[f.Path] = true
		got, err := f.Read()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, bytes.Repeat([]byte{byte(i)}, 64)) {
			t.Errorf("file %d holds another request's bytes", i)
		}
		_ = f.Remove()
	}
}

func TestWriteNeverOverwrites(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	first, err := d.write("abcd1234_same.png", []byte("first"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := d.write("abcd1234_same.png", []byte("second")); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("second write err = %v, want fs.ErrExist", err)
	}
	got, err := first.Read()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "first" {
		t.Errorf("existing file now holds %q", got)
	}
}

func TestWriteFailureLeavesNothing(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.write(filepath.Join("missing", "x.png"), []byte("x")); err == nil {
		t.Fatal("write into a missing subdirectory succeeded")
	}
	entries, err := os.ReadDir(d.Path())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("scratch dir holds %d entries after a failed write", len(entries))
	}
}
