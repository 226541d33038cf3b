package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"masquerade/internal/domain"
)

const (
	exportVersion      = "1.0.0"
	exportSuffix       = ".masquerade.json"
	defaultImportName  = "Imported Design"
	maxParallelExports = 4
)

// ExportEnvelope is the on-disk form of an exported design. Data is the
// serialized design, kept opaque.
type ExportEnvelope struct {
	Name       string `json:"name"`
	Data       string `json:"data"`
	ExportedAt int64  `json:"exportedAt"` // epoch ms
	Version    string `json:"version"`
}

// ExportService converts saved designs to and from portable files.
type ExportService struct {
	designs domain.DesignStore
	log     *zap.Logger
	now     func() time.Time
}

func NewExportService(designs domain.DesignStore, log *zap.Logger) *ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportService{designs: designs, log: log.Named("export"), now: time.Now}
}

// ExportFileName is the design name with every character outside [a-zA-Z0-9]
// replaced by '-', lowercased, plus the .masquerade.json suffix.
func ExportFileName(name string) string {
	slug := strings.Map(func(r rune) rune {
		if r < 128 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, name)
	return strings.ToLower(slug) + exportSuffix
}

// Export renders a saved design as a two-space indented envelope.
func (s *ExportService) Export(d domain.SavedDesign) ([]byte, error) {
	env := ExportEnvelope{
		Name:       d.Name,
		Data:       d.Data,
		ExportedAt: s.now().UnixMilli(),
		Version:    exportVersion,
	}
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return out, nil
}

// Import saves the design carried by an envelope under a fresh id.
func (s *ExportService) Import(raw []byte) (*domain.SavedDesign, error) {
	var env ExportEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEnvelope, err)
	}
	if env.Data == "" {
		return nil, fmt.Errorf("%w: missing data", domain.ErrInvalidEnvelope)
	}

	d := &domain.SavedDesign{
		ID:   uuid.NewString(),
		Name: env.Name,
		Data: env.Data,
	}
	if d.Name == "" {
		d.Name = defaultImportName
	}
	if err := s.designs.SaveDesign(d); err != nil {
		return nil, err
	}
	return d, nil
}

// ExportFile writes one saved design into dir and returns the file path.
func (s *ExportService) ExportFile(id, dir string) (string, error) {
	d, err := s.designs.GetDesign(id)
	if err != nil {
		return "", err
	}
	if d == nil {
		return "", fmt.Errorf("design %s: %w", id, domain.ErrNotFound)
	}
	return s.writeFile(*d, dir)
}

func (s *ExportService) writeFile(d domain.SavedDesign, dir string) (string, error) {
	data, err := s.Export(d)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, ExportFileName(d.Name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// ImportFile reads an exported file and saves it as a new design.
func (s *ExportService) ImportFile(path string) (*domain.SavedDesign, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	d, err := s.Import(raw)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}
	s.log.Info("design imported", zap.String("path", path), zap.String("id", d.ID))
	return d, nil
}

// ExportAll writes every saved design into dir. Designs with the same name
// get their id appended so nothing is overwritten.
func (s *ExportService) ExportAll(ctx context.Context, dir string) ([]string, error) {
	designs, err := s.designs.ListDesigns()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	for _, d := range designs {
		seen[ExportFileName(d.Name)]++
	}

	paths := make([]string, len(designs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelExports)
	for i, d := range designs {
		if seen[ExportFileName(d.Name)] > 1 {
			d.Name = d.Name + " " + d.ID
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := s.writeFile(d, dir)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
