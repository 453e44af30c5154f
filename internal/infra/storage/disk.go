package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// 振込証憑画像をローカルディスクへ保存する。
// DB行より先に書く。ここで失敗したら行は一切触らない。
type DiskEvidenceStore struct {
	dir string
}

func NewDiskEvidenceStore(dir string) *DiskEvidenceStore {
	return &DiskEvidenceStore{dir: dir}
}

// Save は画像を保存して相対パスを返す。
func (s *DiskEvidenceStore) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create evidence dir: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create evidence file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		//書きかけのファイルは残さない
		os.Remove(path)
		return "", fmt.Errorf("write evidence file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close evidence file: %w", err)
	}

	return filepath.Join("payments", name), nil
}
