package config

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the full chordkit configuration.
type Config struct {
	Log          LogConfig          `toml:"log"`
	Keymap       KeymapConfig       `toml:"keymap"`
	Script       ScriptConfig       `toml:"script"`
	TapHold      TapHoldConfig      `toml:"tap_hold"`
	Repeat       RepeatConfig       `toml:"repeat"`
	SentenceCase SentenceCaseConfig `toml:"sentence_case"`
	CapsWord     CapsWordConfig     `toml:"caps_word"`
	LayerLock    LayerLockConfig    `toml:"layer_lock"`
	SelectWord   SelectWordConfig   `toml:"select_word"`
	CustomShift  CustomShiftConfig  `toml:"custom_shift"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `toml:"level"`
}

// KeymapConfig locates the keymap file.
type KeymapConfig struct {
	Path string `toml:"path"`
}

// ScriptConfig locates the optional Lua hook script.
type ScriptConfig struct {
	Path string `toml:"path"`
}

// TapHoldConfig controls the tap-hold engine.
type TapHoldConfig struct {
	Enabled bool `toml:"enabled"`

	// TimeoutMS is how long a dual-role key may stay undecided. 0
	// disables the engine's own decision window.
	TimeoutMS int `toml:"timeout_ms"`

	// StreakWindowMS forces taps during fast typing streaks. 0 disables
	// streak detection.
	StreakWindowMS int `toml:"streak_window_ms"`

	// TapDelayMS separates a synthesized tap press from its release.
	TapDelayMS int `toml:"tap_delay_ms"`

	// MatrixRows is the keyboard's row count, used by the
	// opposite-hands rule.
	MatrixRows int `toml:"matrix_rows"`
}

// RepeatConfig controls the repeat-key engine.
type RepeatConfig struct {
	Enabled bool `toml:"enabled"`

	// KeepShift lists key names that repeat shifted when shift was held.
	KeepShift []string `toml:"keep_shift"`

	// AlternatePairs maps keys to their alternate-repeat partner, as
	// [from, to] key name pairs. Pairs apply in both directions.
	AlternatePairs [][]string `toml:"alternate_pairs"`
}

// SentenceCaseConfig controls automatic sentence capitalization.
type SentenceCaseConfig struct {
	Enabled bool `toml:"enabled"`

	// TimeoutMS clears matching state after inactivity. 0 disables;
	// otherwise it must be between 100 and 30000.
	TimeoutMS int `toml:"timeout_ms"`

	// BufferSize is the trailing key history depth.
	BufferSize int `toml:"buffer_size"`

	// Abbreviations are endings that do not start a new sentence.
	Abbreviations []string `toml:"abbreviations"`
}

// CapsWordConfig controls the caps-word engine.
type CapsWordConfig struct {
	Enabled bool `toml:"enabled"`

	// IdleTimeoutMS deactivates the mode after inactivity.
	IdleTimeoutMS int `toml:"idle_timeout_ms"`

	// BothShifts activates the mode by pressing both shift keys.
	BothShifts bool `toml:"both_shifts"`
}

// LayerLockConfig controls the layer-lock engine.
type LayerLockConfig struct {
	Enabled bool `toml:"enabled"`

	// IdleTimeoutMS releases all locks after inactivity. 0 disables.
	IdleTimeoutMS int `toml:"idle_timeout_ms"`
}

// SelectWordConfig controls the select-word engine.
type SelectWordConfig struct {
	Enabled bool `toml:"enabled"`

	// MacHotkeys uses Option/Command navigation instead of Ctrl and
	// Home/End.
	MacHotkeys bool `toml:"mac_hotkeys"`

	// IdleTimeoutMS forgets selection state after inactivity. 0
	// disables.
	IdleTimeoutMS int `toml:"idle_timeout_ms"`
}

// CustomShiftConfig controls shift remapping.
type CustomShiftConfig struct {
	Enabled bool `toml:"enabled"`

	// Pairs lists [key, shifted] key name pairs.
	Pairs [][]string `toml:"pairs"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		TapHold: TapHoldConfig{
			Enabled:        true,
			TimeoutMS:      800,
			StreakWindowMS: 220,
			TapDelayMS:     0,
			MatrixRows:     4,
		},
		Repeat: RepeatConfig{
			Enabled:   true,
			KeepShift: []string{"n", "z"},
		},
		SentenceCase: SentenceCaseConfig{
			Enabled:       true,
			TimeoutMS:     2000,
			BufferSize:    8,
			Abbreviations: []string{"vs.", "etc."},
		},
		CapsWord: CapsWordConfig{
			Enabled:       true,
			IdleTimeoutMS: 5000,
			BothShifts:    true,
		},
		LayerLock:   LayerLockConfig{Enabled: true},
		SelectWord:  SelectWordConfig{Enabled: true},
		CustomShift: CustomShiftConfig{Enabled: false},
	}
}

// Load reads a TOML configuration file, applies environment overrides,
// and validates the result. An empty path returns the defaults with
// environment overrides applied.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return cfg, err
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, &ParseError{Path: path, Err: err}
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges. Seriously wrong values return errors;
// merely unusual ones are clamped.
func (c *Config) Validate() error {
	if c.TapHold.TimeoutMS < 0 || c.TapHold.TimeoutMS > 5000 {
		return &ValidationError{Setting: "tap_hold.timeout_ms",
			Message: fmt.Sprintf("must be 0-5000, got %d", c.TapHold.TimeoutMS)}
	}
	if c.TapHold.StreakWindowMS < 0 {
		return &ValidationError{Setting: "tap_hold.streak_window_ms",
			Message: "must not be negative"}
	}
	if t := c.SentenceCase.TimeoutMS; t != 0 && (t < 100 || t > 30000) {
		return &ValidationError{Setting: "sentence_case.timeout_ms",
			Message: fmt.Sprintf("must be 0 or 100-30000, got %d", t)}
	}
	if c.TapHold.MatrixRows < 1 {
		c.TapHold.MatrixRows = 1
	}
	if c.TapHold.TapDelayMS < 0 {
		c.TapHold.TapDelayMS = 0
	}
	if c.SentenceCase.BufferSize < 2 {
		c.SentenceCase.BufferSize = 8
	}
	if c.CapsWord.IdleTimeoutMS < 0 {
		c.CapsWord.IdleTimeoutMS = 0
	}
	if c.LayerLock.IdleTimeoutMS < 0 {
		c.LayerLock.IdleTimeoutMS = 0
	}
	if c.SelectWord.IdleTimeoutMS < 0 {
		c.SelectWord.IdleTimeoutMS = 0
	}
	if err := validatePairs("repeat.alternate_pairs", c.Repeat.AlternatePairs); err != nil {
		return err
	}
	return validatePairs("custom_shift.pairs", c.CustomShift.Pairs)
}

func validatePairs(setting string, pairs [][]string) error {
	for i, p := range pairs {
		if len(p) != 2 {
			return &ValidationError{Setting: setting,
				Message: fmt.Sprintf("entry %d must have exactly 2 key names", i)}
		}
	}
	return nil
}

// Duration converts a millisecond setting to a time.Duration.
func Duration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
