// Package blobstore persists audio bytes under {root}/{folder}/{audio_id}_{filename}.
// Paths are rebuilt from stored metadata on every read and delete.
package blobstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"audiovault"
	"audiovault/internal/models"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

var ErrPathTraversal = errors.New("path escapes upload root")

type Store struct {
	fs afero.Fs
}

// New roots a store at dir on the local disk, creating it when missing.
func New(dir string) (*Store, error) {
	osfs := afero.NewOsFs()
	if err := osfs.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload root %q: %w", dir, err)
	}
	return NewWithFs(afero.NewBasePathFs(osfs, dir)), nil
}

// NewWithFs wraps an already-rooted filesystem.
func NewWithFs(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// SanitizeFilename keeps only the final element of a client-supplied name.
func SanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(path.Clean("/" + name))
	if base == "/" || base == "." || base == ".." || strings.ContainsRune(base, 0) {
		return "", audiovault.E(audiovault.KindValidation, "invalid filename")
	}
	return base, nil
}

// BlobName is the on-disk name of an audio file inside its owner folder.
func BlobName(audioID, filename string) string {
	return audioID + "_" + filename
}

// ParseBlobName splits a blob name back into audio id and filename.
// Generated ids never contain '_', so the first one separates them.
func ParseBlobName(name string) (audioID, filename string, ok bool) {
	i := strings.IndexByte(name, '_')
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}

func (s *Store) blobPath(ref models.BlobRef) (string, error) {
	if err := checkElem(ref.Folder); err != nil {
		return "", err
	}
	if err := checkElem(ref.Filename); err != nil {
		return "", err
	}
	return path.Join("/", ref.Folder, BlobName(ref.AudioID, ref.Filename)), nil
}

// checkElem rejects anything that is not a single path element.
func checkElem(elem string) error {
	if elem == "" || elem == "." || elem == ".." || strings.ContainsAny(elem, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrPathTraversal, elem)
	}
	return nil
}

// EnsureFolder creates an owner folder.
func (s *Store) EnsureFolder(folder string) error {
	if err := checkElem(folder); err != nil {
		return err
	}
	return s.fs.MkdirAll(path.Join("/", folder), 0o750)
}

// Save writes r to the blob path and returns the byte count. A failed write leaves no file.
func (s *Store) Save(ref models.BlobRef, r io.Reader) (int64, error) {
	p, err := s.blobPath(ref)
	if err != nil {
		return 0, err
	}
	if err := s.fs.MkdirAll(path.Dir(p), 0o750); err != nil {
		return 0, fmt.Errorf("create folder for %s: %w", p, err)
	}

	f, err := s.fs.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", p, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, multierr.Append(fmt.Errorf("write %s: %w", p, err), s.fs.Remove(p))
	}
	return n, nil
}

// Open returns the blob and its size. A missing file is NotFound.
func (s *Store) Open(ref models.BlobRef) (io.ReadCloser, int64, error) {
	p, err := s.blobPath(ref)
	if err != nil {
		return nil, 0, err
	}
	f, err := s.fs.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, audiovault.Wrap(audiovault.KindNotFound, "audio content not found", err)
		}
		return nil, 0, fmt.Errorf("open %s: %w", p, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", p, err)
	}
	return f, st.Size(), nil
}

// Remove deletes one blob. Removing a missing blob succeeds.
func (s *Store) Remove(ref models.BlobRef) error {
	p, err := s.blobPath(ref)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}

// RemoveAll deletes every blob it can and reports how many went away.
func (s *Store) RemoveAll(refs []models.BlobRef) (removed int, err error) {
	for _, ref := range refs {
		if rerr := s.Remove(ref); rerr != nil {
			err = multierr.Append(err, rerr)
			continue
		}
		removed++
	}
	return removed, err
}

// RemoveFolder deletes an owner folder with whatever it still holds.
func (s *Store) RemoveFolder(folder string) error {
	if err := checkElem(folder); err != nil {
		return err
	}
	if err := s.fs.RemoveAll(path.Join("/", folder)); err != nil {
		return fmt.Errorf("remove folder %s: %w", folder, err)
	}
	return nil
}
