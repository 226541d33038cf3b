package app

import (
	"masquerade/internal/domain"
	"masquerade/internal/service"
)

// ── Remotes ────────────────────────────────────────────────

func (a *App) ListRemotes() ([]domain.RemoteConnection, error) {
	list, err := a.core.Sharing.ListRemotes()
	if list == nil {
		list = []domain.RemoteConnection{}
	}
	return list, err
}

func (a *App) CreateRemote(input service.CreateRemoteInput) (*domain.RemoteConnection, error) {
	return a.core.Sharing.CreateRemote(input)
}

func (a *App) DeleteRemote(id string) error {
	return a.core.Sharing.DeleteRemote(id)
}

// TestRemote pings a remote so the settings dialog can show a status.
func (a *App) TestRemote(id string) error {
	return a.core.Sharing.TestRemote(a.ctx, id)
}

// ── Publishing ─────────────────────────────────────────────

func (a *App) PublishDesign(remoteID, designID string) error {
	return a.core.Sharing.Publish(a.ctx, remoteID, designID)
}

func (a *App) ListShared(remoteID string) ([]domain.SavedDesign, error) {
	list, err := a.core.Sharing.ListShared(a.ctx, remoteID)
	if list == nil {
		list = []domain.SavedDesign{}
	}
	return list, err
}

// PullDesign copies a published design into the local library.
func (a *App) PullDesign(remoteID, designID string) (*domain.SavedDesign, error) {
	return a.core.Sharing.Pull(a.ctx, remoteID, designID)
}

// ── Window ─────────────────────────────────────────────────

func (a *App) LoadWindowSize() service.WindowSize {
	return a.core.Window.LoadWindowSize()
}

func (a *App) SaveWindowSize(width, height int) error {
	return a.core.Window.SaveWindowSize(width, height)
}
