package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ai-daily/internal/domain"
)

// DirSource читает документы сводки из локального каталога.
type DirSource struct {
	dir string
}

var _ domain.DigestSource = (*DirSource)(nil)

// NewDir создаёт источник поверх каталога.
func NewDir(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Fetch открывает {dir}/{artifact}.json.
func (s *DirSource) Fetch(ctx context.Context, artifact string) (domain.DailyDigest, error) {
	if err := ctx.Err(); err != nil {
		return domain.DailyDigest{}, err
	}
	if artifact == "" || strings.ContainsAny(artifact, `/\`) || strings.Contains(artifact, "..") {
		return domain.DailyDigest{}, fmt.Errorf("artifact %q: %w", artifact, domain.ErrArtifactNotFound)
	}
	f, err := os.Open(filepath.Join(s.dir, fileName(artifact)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DailyDigest{}, fmt.Errorf("artifact %q: %w", artifact, domain.ErrArtifactNotFound)
		}
		return domain.DailyDigest{}, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
