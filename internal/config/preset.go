package config

import "time"

// Preset represents a named way to play.
type Preset string

const (
	PresetCampaign Preset = "campaign" // Score carries across levels
	PresetPractice Preset = "practice" // Score restarts on every level
	PresetRelaxed  Preset = "relaxed"  // Longer pause between levels
	PresetSpeedrun Preset = "speedrun" // Next level loads almost at once
)

// Presets lists every preset in display order.
func Presets() []Preset {
	return []Preset{PresetCampaign, PresetPractice, PresetRelaxed, PresetSpeedrun}
}

// ParsePreset maps a name to a preset. Unknown names fall back to campaign.
func ParsePreset(name string) (Preset, bool) {
	for _, p := range Presets() {
		if string(p) == name {
			return p, true
		}
	}
	return PresetCampaign, false
}

// ApplyPreset modifies the config based on a preset.
func ApplyPreset(cfg *TileMatchConfig, preset Preset) {
	switch preset {
	case PresetPractice:
		cfg.Scoring.ResetScoreOnLoad = true
	case PresetRelaxed:
		cfg.Scoring.AdvanceDelay = 4 * time.Second
	case PresetSpeedrun:
		cfg.Scoring.AdvanceDelay = 500 * time.Millisecond
	}
}
