package app

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dshills/chordkit/internal/config"
	"github.com/dshills/chordkit/internal/feature/capsword"
	"github.com/dshills/chordkit/internal/feature/customshift"
	"github.com/dshills/chordkit/internal/feature/layerlock"
	"github.com/dshills/chordkit/internal/feature/repeatkey"
	"github.com/dshills/chordkit/internal/feature/selectword"
	"github.com/dshills/chordkit/internal/feature/sentencecase"
	"github.com/dshills/chordkit/internal/feature/taphold"
	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
	"github.com/dshills/chordkit/internal/script"
	"github.com/dshills/chordkit/internal/state"
)

// Options configure the application. Non-empty paths override the
// corresponding configuration file settings.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty uses defaults.
	ConfigPath string

	// KeymapPath overrides keymap.path.
	KeymapPath string

	// ScriptPath overrides script.path.
	ScriptPath string

	// LogLevel overrides log.level.
	LogLevel string

	// LogOutput receives log lines. Default os.Stderr.
	LogOutput io.Writer

	// Clock drives timing. Default the system clock.
	Clock pipeline.Clock

	// Watch reloads the configuration file when it changes.
	Watch bool
}

// App is the assembled runtime.
type App struct {
	mu sync.Mutex

	opts Options
	cfg  config.Config
	log  *pipeline.Logger

	kb      *state.Virtual
	km      *keymap.Keymap
	pipe    *pipeline.Pipeline
	hooks   *script.Hooks
	watcher *config.Watcher

	tapHold  *taphold.Engine
	repeat   *repeatkey.Engine
	lock     *layerlock.Engine
	caps     *capsword.Engine
	sentence *sentencecase.Engine
	sel      *selectword.Engine
}

// New loads configuration and builds the pipeline.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	applyOverrides(&cfg, opts)

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logCfg := pipeline.DefaultLoggerConfig()
	logCfg.Level = pipeline.ParseLogLevel(cfg.Log.Level)
	logCfg.Output = out

	a := &App{
		opts: opts,
		log:  pipeline.NewLogger(logCfg),
	}
	if err := a.build(cfg); err != nil {
		return nil, err
	}

	if opts.Watch && opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath, a.onReload,
			config.WithErrorHandler(func(err error) {
				a.log.Error("config reload: %v", err)
			}))
		if err != nil {
			return nil, err
		}
		a.watcher = w
	}
	return a, nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.KeymapPath != "" {
		cfg.Keymap.Path = opts.KeymapPath
	}
	if opts.ScriptPath != "" {
		cfg.Script.Path = opts.ScriptPath
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
}

// build constructs keyboard, keymap, hooks, and the handler chain for
// cfg. Called under the mutex on reload, and before the App escapes its
// constructor otherwise.
func (a *App) build(cfg config.Config) error {
	km, err := a.loadKeymap(cfg)
	if err != nil {
		return err
	}

	var hooks *script.Hooks
	if cfg.Script.Path != "" {
		hooks, err = script.Load(cfg.Script.Path, script.WithLogger(a.log))
		if err != nil {
			return err
		}
	}
	// A failure past this point abandons the fresh Lua state; close it
	// rather than leak it. installed flips once the App owns hooks.
	installed := false
	defer func() {
		if !installed && hooks != nil {
			hooks.Close()
		}
	}()

	clock := a.opts.Clock
	if clock == nil {
		clock = pipeline.SystemClock{}
	}

	kb := state.NewVirtual()
	pipe := pipeline.New(kb, km,
		pipeline.WithClock(clock),
		pipeline.WithLogger(a.log))

	tapHold, err := buildTapHold(cfg.TapHold, hooks)
	if err != nil {
		return err
	}
	repeat, err := buildRepeat(cfg.Repeat, hooks)
	if err != nil {
		return err
	}
	shift, err := buildCustomShift(cfg.CustomShift)
	if err != nil {
		return err
	}

	a.lock = layerlock.New(layerlock.Config{
		IdleTimeout: config.Duration(cfg.LayerLock.IdleTimeoutMS),
	})
	a.caps = capsword.New(capsword.Config{
		IdleTimeout: config.Duration(cfg.CapsWord.IdleTimeoutMS),
		BothShifts:  cfg.CapsWord.BothShifts,
		Continues:   hookCapsWord(hooks),
	})
	a.sentence = sentencecase.New(sentencecase.Config{
		IdleTimeout:   config.Duration(cfg.SentenceCase.TimeoutMS),
		BufferSize:    cfg.SentenceCase.BufferSize,
		Abbreviations: cfg.SentenceCase.Abbreviations,
		Classify:      hookSentence(hooks),
	})
	a.sel = selectword.New(selectword.Config{
		MacHotkeys:  cfg.SelectWord.MacHotkeys,
		IdleTimeout: config.Duration(cfg.SelectWord.IdleTimeoutMS),
	})
	a.tapHold = tapHold
	a.repeat = repeat

	// Order matters: tap-hold revises events before anything else sees
	// them, repeat replays through everything after it, and the
	// observers come last.
	if cfg.TapHold.Enabled {
		pipe.Append(a.tapHold)
	}
	if cfg.Repeat.Enabled {
		pipe.Append(a.repeat)
	}
	if cfg.LayerLock.Enabled {
		pipe.Append(a.lock)
	}
	if cfg.CapsWord.Enabled {
		pipe.Append(a.caps)
	}
	if cfg.SentenceCase.Enabled {
		pipe.Append(a.sentence)
	}
	if cfg.SelectWord.Enabled {
		pipe.Append(a.sel)
	}
	if cfg.CustomShift.Enabled {
		pipe.Append(shift)
	}

	if a.hooks != nil {
		a.hooks.Close()
	}
	a.cfg = cfg
	a.kb = kb
	a.km = km
	a.pipe = pipe
	a.hooks = hooks
	installed = true
	return nil
}

func (a *App) loadKeymap(cfg config.Config) (*keymap.Keymap, error) {
	if cfg.Keymap.Path == "" {
		return DefaultKeymap()
	}
	km, err := keymap.LoadFile(cfg.Keymap.Path)
	if err != nil {
		return nil, err
	}
	if km.Rows() != cfg.TapHold.MatrixRows {
		a.log.Warn("keymap has %d rows but tap_hold.matrix_rows is %d",
			km.Rows(), cfg.TapHold.MatrixRows)
	}
	return km, nil
}

func buildTapHold(cfg config.TapHoldConfig, hooks *script.Hooks) (*taphold.Engine, error) {
	timeout := config.Duration(cfg.TimeoutMS)
	window := config.Duration(cfg.StreakWindowMS)
	c := taphold.Config{
		Timeout: func(keymap.Action, key.Event) time.Duration {
			return timeout
		},
		Streak: func(keymap.Action, keymap.Action) time.Duration {
			return window
		},
		TapDelay:   config.Duration(cfg.TapDelayMS),
		MatrixRows: cfg.MatrixRows,
	}
	if hooks != nil {
		c.Timeout = hooks.TapHoldTimeout(c.Timeout)
		c.Streak = hooks.StreakWindow(c.Streak)
		c.Chord = hooks.Chord(func(pendingEv key.Event, _ keymap.Action, otherEv key.Event, _ keymap.Action) bool {
			return taphold.OppositeHands(pendingEv.Pos, otherEv.Pos, cfg.MatrixRows)
		})
	}
	return taphold.New(c), nil
}

func buildRepeat(cfg config.RepeatConfig, hooks *script.Hooks) (*repeatkey.Engine, error) {
	keep, err := keycodesFromNames(cfg.KeepShift)
	if err != nil {
		return nil, fmt.Errorf("repeat.keep_shift: %w", err)
	}
	pairs, err := keyPairsFromNames(cfg.AlternatePairs)
	if err != nil {
		return nil, fmt.Errorf("repeat.alternate_pairs: %w", err)
	}
	c := repeatkey.Config{KeepShift: keep}
	if len(pairs) > 0 {
		c.Alternate = repeatkey.Pairs(pairs)
	}
	if hooks != nil {
		c.Alternate = hooks.AltRepeat(c.Alternate)
		c.Remember = hooks.Remember(nil)
	}
	return repeatkey.New(c), nil
}

func buildCustomShift(cfg config.CustomShiftConfig) (*customshift.Engine, error) {
	pairs, err := keyPairsFromNames(cfg.Pairs)
	if err != nil {
		return nil, fmt.Errorf("custom_shift.pairs: %w", err)
	}
	c := customshift.Config{}
	if len(pairs) > 0 {
		c.Pairs = make([]customshift.Pair, len(pairs))
		for i, p := range pairs {
			c.Pairs[i] = customshift.Pair{Key: p[0], Shifted: p[1]}
		}
	}
	return customshift.New(c), nil
}

func hookCapsWord(hooks *script.Hooks) capsword.ContinuesFunc {
	if hooks == nil {
		return nil
	}
	return hooks.CapsWordContinue(nil)
}

func hookSentence(hooks *script.Hooks) sentencecase.ClassifyFunc {
	if hooks == nil {
		return nil
	}
	return hooks.SentenceClass(nil)
}

func keycodesFromNames(names []string) ([]key.Keycode, error) {
	if names == nil {
		return nil, nil
	}
	out := make([]key.Keycode, len(names))
	for i, n := range names {
		code, ok := key.FromName(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownKey, n)
		}
		out[i] = code
	}
	return out, nil
}

func keyPairsFromNames(pairs [][]string) ([][2]key.Keycode, error) {
	out := make([][2]key.Keycode, 0, len(pairs))
	for _, p := range pairs {
		a, ok := key.FromName(p[0])
		if !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownKey, p[0])
		}
		b, ok := key.FromName(p[1])
		if !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownKey, p[1])
		}
		out = append(out, [2]key.Keycode{a, b})
	}
	return out, nil
}

// onReload swaps in a fresh pipeline built from the changed file.
// Keyboard state restarts from neutral.
func (a *App) onReload(cfg config.Config) {
	applyOverrides(&cfg, a.opts)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.build(cfg); err != nil {
		a.log.Error("config reload: %v", err)
		return
	}
	a.log.SetLevel(pipeline.ParseLogLevel(cfg.Log.Level))
	a.log.Info("configuration reloaded")
}

// Handle feeds one physical key event through the pipeline.
func (a *App) Handle(ev key.Event) pipeline.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pipe.Handle(ev)
}

// Tick advances every time-based engine to now.
func (a *App) Tick(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pipe.Tick(now)
}

// Keyboard returns the virtual keyboard the pipeline drives.
func (a *App) Keyboard() *state.Virtual {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.kb
}

// Keymap returns the active keymap. A reload replaces it, so callers
// should not cache the result.
func (a *App) Keymap() *keymap.Keymap {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.km
}

// Config returns the active configuration.
func (a *App) Config() config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Status summarizes live engine state for display.
type Status struct {
	Layers      key.LayerMask
	Mods        key.Modifier
	Locked      key.LayerMask
	TapPending  key.Keycode
	RepeatCount int8
	RepeatKey   key.Keycode
	CapsWord    bool
	Sentence    sentencecase.State
	Selection   selectword.State
}

// Status snapshots the engines.
func (a *App) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Status{
		Layers:      a.kb.LayerState(),
		Mods:        a.kb.Mods(),
		Locked:      a.lock.Locked(),
		TapPending:  a.tapHold.PendingKey(),
		RepeatCount: a.repeat.Count(),
		RepeatKey:   a.repeat.LastKeycode(),
		CapsWord:    a.caps.Active(),
		Sentence:    a.sentence.State(),
		Selection:   a.sel.State(),
	}
}

// Close stops the watcher and releases the script state.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	if a.hooks != nil {
		a.hooks.Close()
		a.hooks = nil
	}
}
