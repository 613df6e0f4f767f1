// Package scratch stages uploads on local disk for the lifetime of one request.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var allowedExt = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "bmp": {}, "webp": {},
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Allowed reports whether the part after the last dot is a supported image extension.
func Allowed(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return false
	}
	_, ok := allowedExt[strings.ToLower(name[i+1:])]
	return ok
}

// Sanitize reduces an untrusted filename to a single safe path component.
// The result may be empty.
func Sanitize(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range name {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	name = b.String()

	name = strings.ReplaceAll(name, "/", " ")
	name = strings.ReplaceAll(name, `\`, " ")
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

type Dir struct {
	path string
}

// Open returns the scratch directory at path, creating it if absent.
func Open(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("scratch dir %s: %w", path, err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) Path() string { return d.path }

// Stage writes data under a request-unique name derived from the original filename.
func (d *Dir) Stage(filename string, data []byte) (*File, error) {
	safe := Sanitize(filename)
	if safe == "" {
		safe = "upload"
	}
	return d.write(uuid.New().String()[:8]+"_"+safe, data)
}

// write creates name exclusively; an existing file with that name is an
// error, never overwritten. A failed write leaves nothing behind.
func (d *Dir) write(name string, data []byte) (*File, error) {
	path := filepath.Join(d.path, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", name, err)
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("stage %s: %w", name, err)
	}
	return &File{Path: path}, nil
}

// File is one staged upload.
type File struct {
	Path string

	once sync.Once
	err  error
}

// Read returns the staged bytes.
func (f *File) Read() ([]byte, error) {
	return os.ReadFile(f.Path)
}

// Remove deletes the file. Only the first call touches the disk.
func (f *File) Remove() error {
	f.once.Do(func() {
		f.err = os.Remove(f.Path)
	})
	return f.err
}
