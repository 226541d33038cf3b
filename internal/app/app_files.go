package app

import (
	"fmt"
	"os"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"masquerade/internal/domain"
	"masquerade/internal/service"
)

var designFileFilters = []wailsRuntime.FileFilter{
	{DisplayName: "Masquerade Designs", Pattern: "*.masquerade.json"},
	{DisplayName: "JSON", Pattern: "*.json"},
}

// ExportDesign asks where to save a saved design and writes its envelope.
// An empty result means the user cancelled.
func (a *App) ExportDesign(id string) (string, error) {
	saved, err := a.core.Store.GetDesign(id)
	if err != nil {
		return "", err
	}
	if saved == nil {
		return "", fmt.Errorf("design %s: %w", id, domain.ErrNotFound)
	}

	path, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           "Export Design",
		DefaultFilename: service.ExportFileName(saved.Name),
		Filters:         designFileFilters,
	})
	if err != nil || path == "" {
		return "", err
	}

	data, err := a.core.Exporter.Export(*saved)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	a.log.Info("design exported", zap.String("path", path))
	return path, nil
}

// ImportDesign asks for an exported file and saves it as a new design.
// A nil result means the user cancelled.
func (a *App) ImportDesign() (*domain.SavedDesign, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title:   "Import Design",
		Filters: designFileFilters,
	})
	if err != nil || path == "" {
		return nil, err
	}
	saved, err := a.core.Exporter.ImportFile(path)
	if err != nil {
		return nil, err
	}
	a.emitter.Emit(a.ctx, service.EventDesignImported, saved)
	return saved, nil
}

// ExportAllDesigns asks for a folder and writes every saved design into it.
func (a *App) ExportAllDesigns() ([]string, error) {
	dir, err := wailsRuntime.OpenDirectoryDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title:                "Export All Designs",
		CanCreateDirectories: true,
	})
	if err != nil || dir == "" {
		return nil, err
	}
	return a.core.Exporter.ExportAll(a.ctx, dir)
}

// BackupNow runs a backup outside the schedule.
func (a *App) BackupNow() (*service.BackupResult, error) {
	return a.core.Backups.RunNow(a.ctx)
}
