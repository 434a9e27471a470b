// Package artifact grava os relatórios gerados em disco ou no S3.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/domain/repository"
)

// LocalSink grava o PDF em um diretório local.
type LocalSink struct {
	dir string
	now func() time.Time
}

// NewLocalSink creates a sink writing under dir (cwd when empty).
func NewLocalSink(dir string) *LocalSink {
	return &LocalSink{dir: dir, now: time.Now}
}

// Store writes the report and returns its absolute path.
func (s *LocalSink) Store(ctx context.Context, report *entity.GeneratedReport) (string, error) {
	path, err := s.generateFilename(report.Filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, report.Data, 0o644); err != nil {
		return "", fmt.Errorf("error writing report file: %w", err)
	}
	return filepath.Abs(path)
}

// generateFilename resolve o diretório de saída e evita sobrescrever um
// relatório já existente acrescentando um timestamp.
func (s *LocalSink) generateFilename(name string) (string, error) {
	dir := s.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		path = filepath.Join(dir, fmt.Sprintf("%s_%s%s", base, s.now().Format("20060102_150405"), ext))
	}
	return path, nil
}

var _ repository.ArtifactSink = (*LocalSink)(nil)
