// Package storage manages the on-disk upload roots for ebook covers and
// documents.
package storage

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Kind is a logical upload destination.
type Kind string

const (
	Cover    Kind = "cover"
	Document Kind = "document"
)

var dirs = map[Kind]string{
	Cover:    "covers",
	Document: "documents",
}

// URLPrefix is where the upload root is served from.
const URLPrefix = "/uploads"

// Layout resolves upload kinds to directories below Root.
type Layout struct {
	Root string
}

func New(root string) *Layout { return &Layout{Root: root} }

// Dir returns the directory for kind, creating it and any parents if missing.
func (l *Layout) Dir(kind Kind) (string, error) {
	sub, ok := dirs[kind]
	if !ok {
		return "", errors.Errorf("unknown upload kind %q", kind)
	}
	dir := filepath.Join(l.Root, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create %s dir", kind)
	}
	return dir, nil
}

// Save copies r into a new file called name under kind's directory and returns
// the server relative path (e.g. /uploads/covers/name) and bytes written.
func (l *Layout) Save(kind Kind, name string, r io.Reader) (string, int64, error) {
	dir, err := l.Dir(kind)
	if err != nil {
		return "", 0, err
	}
	name = filepath.Base(name)
	full := filepath.Join(dir, name)
	out, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, errors.Wrapf(err, "create %s", full)
	}
	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return "", 0, errors.Wrapf(err, "write %s", full)
	}
	return path.Join(URLPrefix, dirs[kind], name), n, nil
}

// Path maps a stored server relative path back onto the filesystem. Only the
// base name is trusted, so a tampered record cannot escape kind's directory.
func (l *Layout) Path(kind Kind, rel string) string {
	base := path.Base(strings.ReplaceAll(rel, "\\", "/"))
	return filepath.Join(l.Root, dirs[kind], base)
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (l *Layout) Remove(kind Kind, rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(l.Path(kind, rel))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
