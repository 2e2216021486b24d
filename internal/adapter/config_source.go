package adapter

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	m "testtree.dev/pkg/testtree/internal/model"
)

const (
	// ExplorerConfigSection holds the settings shared by every workspace.
	ExplorerConfigSection = "explorer"
	// WorkspacesConfigSection holds per-workspace overrides.
	WorkspacesConfigSection = "workspaces"
)

// SettingKeys lists every explorer setting key.
var SettingKeys = []string{
	m.SettingOnStart,
	m.SettingOnReload,
	m.SettingCodeLens,
	m.SettingGutterDecoration,
	m.SettingErrorDecoration,
}

// SettingsChange reports the settings keys that changed for a workspace.
type SettingsChange struct {
	Workspace string
	Keys      []string
}

// ViperConfigSource reads explorer settings from a viper instance.
// A key under workspaces.<name> overrides the same key under explorer.
type ViperConfigSource struct {
	v *viper.Viper

	mu   sync.Mutex
	seen map[string]m.Settings
}

// NewViperConfigSource wraps v; a nil v reads the global viper instance.
func NewViperConfigSource(v *viper.Viper) *ViperConfigSource {
	if v == nil {
		v = viper.GetViper()
	}

	return &ViperConfigSource{v: v, seen: make(map[string]m.Settings)}
}

// Settings implements ConfigSource.
func (s *ViperConfigSource) Settings(workspace string) m.Settings {
	settings := s.read(workspace)

	s.mu.Lock()
	s.seen[workspace] = settings
	s.mu.Unlock()

	return settings
}

func (s *ViperConfigSource) read(workspace string) m.Settings {
	defaults := m.DefaultSettings()

	return m.Settings{
		OnStart:          m.ParsePolicy(s.stringKey(workspace, m.SettingOnStart, string(defaults.OnStart))),
		OnReload:         m.ParsePolicy(s.stringKey(workspace, m.SettingOnReload, string(defaults.OnReload))),
		CodeLens:         s.boolKey(workspace, m.SettingCodeLens, defaults.CodeLens),
		GutterDecoration: s.boolKey(workspace, m.SettingGutterDecoration, defaults.GutterDecoration),
		ErrorDecoration:  s.boolKey(workspace, m.SettingErrorDecoration, defaults.ErrorDecoration),
	}
}

func (s *ViperConfigSource) lookup(workspace, key string) (string, bool) {
	if workspace != "" {
		override := WorkspacesConfigSection + "." + workspace + "." + key
		if s.v.IsSet(override) {
			return override, true
		}
	}

	shared := ExplorerConfigSection + "." + key
	if s.v.IsSet(shared) {
		return shared, true
	}

	return "", false
}

func (s *ViperConfigSource) stringKey(workspace, key, fallback string) string {
	if full, ok := s.lookup(workspace, key); ok {
		return s.v.GetString(full)
	}

	return fallback
}

func (s *ViperConfigSource) boolKey(workspace, key string, fallback bool) bool {
	if full, ok := s.lookup(workspace, key); ok {
		return s.v.GetBool(full)
	}

	return fallback
}

// Refresh re-reads the settings of every workspace seen so far and returns
// the ones whose values changed.
func (s *ViperConfigSource) Refresh() []SettingsChange {
	s.mu.Lock()
	defer s.mu.Unlock()

	workspaces := make([]string, 0, len(s.seen))
	for workspace := range s.seen {
		workspaces = append(workspaces, workspace)
	}

	sort.Strings(workspaces)

	var changes []SettingsChange

	for _, workspace := range workspaces {
		next := s.read(workspace)

		keys := ChangedSettings(s.seen[workspace], next)
		if len(keys) == 0 {
			continue
		}

		s.seen[workspace] = next
		changes = append(changes, SettingsChange{Workspace: workspace, Keys: keys})
	}

	return changes
}

// Watch re-reads the config file whenever it changes and reports the
// resulting settings changes to onChange.
func (s *ViperConfigSource) Watch(onChange func([]SettingsChange)) {
	if s.v.ConfigFileUsed() == "" {
		return
	}

	s.v.OnConfigChange(func(event fsnotify.Event) {
		changes := s.Refresh()
		if len(changes) == 0 {
			return
		}

		slog.Info("configuration changed", "file", event.Name, "workspaces", len(changes))
		onChange(changes)
	})
	s.v.WatchConfig()
}

// ChangedSettings lists the keys whose value differs between two settings.
func ChangedSettings(previous, next m.Settings) []string {
	var keys []string

	if previous.OnStart != next.OnStart {
		keys = append(keys, m.SettingOnStart)
	}

	if previous.OnReload != next.OnReload {
		keys = append(keys, m.SettingOnReload)
	}

	if previous.CodeLens != next.CodeLens {
		keys = append(keys, m.SettingCodeLens)
	}

	if previous.GutterDecoration != next.GutterDecoration {
		keys = append(keys, m.SettingGutterDecoration)
	}

	if previous.ErrorDecoration != next.ErrorDecoration {
		keys = append(keys, m.SettingErrorDecoration)
	}

	return keys
}

// StaticConfigSource serves fixed settings, optionally per workspace.
type StaticConfigSource struct {
	Default    m.Settings
	Workspaces map[string]m.Settings
}

// NewStaticConfigSource serves settings to every workspace.
func NewStaticConfigSource(settings m.Settings) *StaticConfigSource {
	return &StaticConfigSource{Default: settings}
}

// Settings implements ConfigSource.
func (s *StaticConfigSource) Settings(workspace string) m.Settings {
	if settings, ok := s.Workspaces[workspace]; ok {
		return settings
	}

	return s.Default
}
