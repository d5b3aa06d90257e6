package config

import (
	"os"
	"strconv"
)

// envPrefix namespaces all environment overrides.
const envPrefix = "CHORDKIT_"

// applyEnv overlays CHORDKIT_* environment variables onto cfg.
// Unparseable values are ignored; validation catches out-of-range ones.
func applyEnv(cfg *Config) {
	envString("LOG_LEVEL", &cfg.Log.Level)
	envString("KEYMAP", &cfg.Keymap.Path)
	envString("SCRIPT", &cfg.Script.Path)

	envBool("TAP_HOLD_ENABLED", &cfg.TapHold.Enabled)
	envInt("TAP_HOLD_TIMEOUT_MS", &cfg.TapHold.TimeoutMS)
	envInt("TAP_HOLD_STREAK_WINDOW_MS", &cfg.TapHold.StreakWindowMS)
	envInt("TAP_HOLD_MATRIX_ROWS", &cfg.TapHold.MatrixRows)

	envBool("REPEAT_ENABLED", &cfg.Repeat.Enabled)
	envBool("SENTENCE_CASE_ENABLED", &cfg.SentenceCase.Enabled)
	envInt("SENTENCE_CASE_TIMEOUT_MS", &cfg.SentenceCase.TimeoutMS)
	envBool("CAPS_WORD_ENABLED", &cfg.CapsWord.Enabled)
	envInt("CAPS_WORD_IDLE_TIMEOUT_MS", &cfg.CapsWord.IdleTimeoutMS)
	envBool("LAYER_LOCK_ENABLED", &cfg.LayerLock.Enabled)
	envInt("LAYER_LOCK_IDLE_TIMEOUT_MS", &cfg.LayerLock.IdleTimeoutMS)
	envBool("SELECT_WORD_ENABLED", &cfg.SelectWord.Enabled)
	envBool("SELECT_WORD_MAC_HOTKEYS", &cfg.SelectWord.MacHotkeys)
	envBool("CUSTOM_SHIFT_ENABLED", &cfg.CustomShift.Enabled)
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(name string, dst *bool) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
