package service

import "masquerade/internal/storage"

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowSettingsService persists the main window size between sessions.
type WindowSettingsService struct {
	settings *storage.SettingsStore
}

func NewWindowSettingsService(settings *storage.SettingsStore) *WindowSettingsService {
	return &WindowSettingsService{settings: settings}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	defaultWindowWidth  = 1440
	defaultWindowHeight = 900
)

// Smallest usable window; stored sizes below it fall back to the default.
const (
	MinWindowWidth  = 1024
	MinWindowHeight = 680
)

// LoadWindowSize returns the saved dimensions, or defaults when nothing
// usable is stored.
func (s *WindowSettingsService) LoadWindowSize() WindowSize {
	if s.settings == nil {
		return WindowSize{Width: defaultWindowWidth, Height: defaultWindowHeight}
	}
	w := s.settings.GetInt(settingWindowWidth, defaultWindowWidth)
	h := s.settings.GetInt(settingWindowHeight, defaultWindowHeight)
	if w < MinWindowWidth {
		w = defaultWindowWidth
	}
	if h < MinWindowHeight {
		h = defaultWindowHeight
	}
	return WindowSize{Width: w, Height: h}
}

// SaveWindowSize persists the current window dimensions.
func (s *WindowSettingsService) SaveWindowSize(width, height int) error {
	if err := s.settings.SetInt(settingWindowWidth, width); err != nil {
		return err
	}
	return s.settings.SetInt(settingWindowHeight, height)
}
