package model

import "strings"

// Policy decides what happens to finished states when a run starts or the tree reloads.
type Policy string

// Available Policy values.
const (
	PolicyNothing Policy = "nothing"
	PolicyRetire  Policy = "retire"
	PolicyReset   Policy = "reset"
)

// ParsePolicy maps a configuration value to a Policy; unknown values mean nothing.
func ParsePolicy(value string) Policy {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case PolicyRetire:
		return PolicyRetire
	case PolicyReset:
		return PolicyReset
	default:
		return PolicyNothing
	}
}

// Settings is the per-workspace configuration read by a collection.
type Settings struct {
	OnStart          Policy `yaml:"on_start"`
	OnReload         Policy `yaml:"on_reload"`
	CodeLens         bool   `yaml:"code_lens"`
	GutterDecoration bool   `yaml:"gutter_decoration"`
	ErrorDecoration  bool   `yaml:"error_decoration"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		OnStart:          PolicyNothing,
		OnReload:         PolicyNothing,
		CodeLens:         true,
		GutterDecoration: true,
		ErrorDecoration:  true,
	}
}

// Configuration keys, relative to the explorer section.
const (
	SettingOnStart          = "on_start"
	SettingOnReload         = "on_reload"
	SettingCodeLens         = "code_lens"
	SettingGutterDecoration = "gutter_decoration"
	SettingErrorDecoration  = "error_decoration"
)
