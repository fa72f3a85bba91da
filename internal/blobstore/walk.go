package blobstore

import (
	"errors"
	"os"
	"path"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// Folder is one owner folder and the blobs directly inside it.
type Folder struct {
	Name  string
	Info  os.FileInfo
	Files []os.FileInfo
}

// Folders lists owner folders. Stray files at the root are ignored.
func (s *Store) Folders() ([]Folder, error) {
	entries, err := afero.ReadDir(s.fs, "/")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var (
		out  []Folder
		errs error
	)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		files, err := afero.ReadDir(s.fs, path.Join("/", e.Name()))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		f := Folder{Name: e.Name(), Info: e}
		for _, fi := range files {
			if !fi.IsDir() {
				f.Files = append(f.Files, fi)
			}
		}
		out = append(out, f)
	}
	return out, errs
}

// Usage counts blobs and their total size.
func (s *Store) Usage() (files, bytes int64, err error) {
	folders, err := s.Folders()
	for _, f := range folders {
		for _, fi := range f.Files {
			files++
			bytes += fi.Size()
		}
	}
	return files, bytes, err
}

// RemoveName deletes a file by its raw name inside folder.
func (s *Store) RemoveName(folder, name string) error {
	if err := checkElem(folder); err != nil {
		return err
	}
	if err := checkElem(name); err != nil {
		return err
	}
	if err := s.fs.Remove(path.Join("/", folder, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
