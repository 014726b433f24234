// Package filestore keeps uploaded images on local disk. Handlers store the
// file first and only then persist a database row referencing it.
package filestore

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

type Store struct {
	Dir string
}

func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Save writes the uploaded file under the store directory with a generated
// name and returns the path relative to the directory.
func (s *Store) Save(prefix string, file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", err
	}
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	name := prefix + "_" + hex.EncodeToString(suffix) + filepath.Ext(header.Filename)

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Remove deletes a previously stored file. Missing files are not an error;
// the referencing row may outlive a manually cleaned directory.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
