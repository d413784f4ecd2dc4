package faceauth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

var ErrImageNotFound = errors.New("reference image not found")

// DirImageStore keeps one reference image per citizen in a directory.
type DirImageStore struct {
	dir string
}

var _ ports.ReferenceImageStore = (*DirImageStore)(nil)

func NewDirImageStore(dir string) (*DirImageStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &DirImageStore{dir: dir}, nil
}

// Save writes through a temporary file so a reader never sees a partial image.
func (s *DirImageStore) Save(ctx context.Context, citizenID uuid.UUID, image []byte) error {
	tmp, err := os.CreateTemp(s.dir, citizenID.String()+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(citizenID))
}

func (s *DirImageStore) Load(ctx context.Context, citizenID uuid.UUID) ([]byte, error) {
	image, err := os.ReadFile(s.path(citizenID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrImageNotFound
	}
	return image, err
}

func (s *DirImageStore) Delete(ctx context.Context, citizenID uuid.UUID) error {
	if err := os.Remove(s.path(citizenID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *DirImageStore) path(citizenID uuid.UUID) string {
	return filepath.Join(s.dir, citizenID.String()+".img")
}
