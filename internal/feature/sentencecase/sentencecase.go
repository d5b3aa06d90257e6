package sentencecase

import (
	"time"

	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
)

// State is the sentence-matching state.
type State uint8

const (
	// StateInit matches nothing.
	StateInit State = iota
	// StateWord is inside a word.
	StateWord
	// StateMatched just capitalized a sentence start.
	StateMatched
	// StateAbbrev is inside a word containing a period, like an acronym.
	StateAbbrev
	// StateEnding saw sentence-ending punctuation.
	StateEnding
	// StatePrimed saw punctuation then space; the next letter capitalizes.
	StatePrimed
)

var stateNames = [...]string{"INIT", "WORD", "MATCHED", "ABBREV", "ENDING", "PRIMED"}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "INVALID"
}

// Class is a key's role in sentence matching.
type Class uint8

const (
	// ClassOther resets the machine.
	ClassOther Class = iota
	// ClassLetter is a letter within a word.
	ClassLetter
	// ClassPunct is sentence-ending punctuation.
	ClassPunct
	// ClassSpace is a word separator.
	ClassSpace
	// ClassQuote is transparent: tracked but state-preserving.
	ClassQuote
	// ClassSymbol is a non-letter printable that returns the machine to
	// its initial state without a full reset.
	ClassSymbol
)

// ClassifyFunc assigns a Class to a pressed key.
type ClassifyFunc func(code key.Keycode, ev key.Event, mods key.Modifier) Class

// CheckEndingFunc inspects the trailing keycode buffer and reports
// whether the just-typed punctuation really ends a sentence.
type CheckEndingFunc func(buf []key.Keycode) bool

const (
	defaultBufferSize = 8
	historySize       = 8
)

// DefaultAbbreviations are the endings rejected by the default check.
var DefaultAbbreviations = []string{"vs.", "etc."}

// Config configures the engine.
type Config struct {
	// IdleTimeout resets the machine after inactivity. 0 disables; valid
	// values are 100ms to 30s, enforced at configuration load.
	IdleTimeout time.Duration

	// BufferSize is the trailing keycode buffer length. Default 8.
	BufferSize int

	// Classify assigns classes to keys. Default: DefaultClassify.
	Classify ClassifyFunc

	// CheckEnding validates sentence endings. Default: reject the
	// Abbreviations list.
	CheckEnding CheckEndingFunc

	// Abbreviations feed the default CheckEnding. Default:
	// DefaultAbbreviations.
	Abbreviations []string

	// Primed is called when the machine enters (true) or leaves (false)
	// the primed state.
	Primed func(bool)
}

// Engine is the sentence-case state machine.
type Engine struct {
	cfg         Config
	checkEnding CheckEndingFunc

	state    State
	keyBuf   []key.Keycode
	history  [historySize]State
	suppress key.Keycode
	idleAt   time.Time
}

// New creates a sentence-case engine.
func New(cfg Config) *Engine {
	if cfg.BufferSize <= 1 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.Classify == nil {
		cfg.Classify = DefaultClassify
	}
	if cfg.Abbreviations == nil {
		cfg.Abbreviations = DefaultAbbreviations
	}
	e := &Engine{cfg: cfg, keyBuf: make([]key.Keycode, cfg.BufferSize)}
	e.checkEnding = cfg.CheckEnding
	if e.checkEnding == nil {
		e.checkEnding = RejectAbbreviations(cfg.Abbreviations)
	}
	return e
}

// Name implements pipeline.Handler.
func (e *Engine) Name() string { return "sentencecase" }

// State returns the current matching state.
func (e *Engine) State() State { return e.state }

// Primed returns true when the next letter will be capitalized.
func (e *Engine) Primed() bool { return e.state == StatePrimed }

// Clear resets the machine to its initial state.
func (e *Engine) Clear() {
	for i := range e.keyBuf {
		e.keyBuf[i] = key.KeyNone
	}
	for i := range e.history {
		e.history[i] = StateInit
	}
	e.suppress = key.KeyNone
	e.idleAt = time.Time{}
	e.setState(StateInit, nil)
}

// Tick implements pipeline.Ticker: idle timeout clears all state.
func (e *Engine) Tick(ctx *pipeline.Context, now time.Time) {
	if !e.idleAt.IsZero() && !now.Before(e.idleAt) {
		ctx.Log.Debug("sentencecase: idle timeout")
		e.Clear()
	}
}

// Handle implements pipeline.Handler. The engine only observes; it never
// consumes events.
func (e *Engine) Handle(ctx *pipeline.Context, ev key.Event, act keymap.Action) pipeline.Result {
	if !ev.Pressed {
		return pipeline.PassThrough
	}

	var code key.Keycode
	switch act.Kind {
	case keymap.KindPlain:
		code = act.Key
	case keymap.KindModTap, keymap.KindLayerTap:
		if ev.HoldPhase() {
			return pipeline.PassThrough
		}
		code = act.Key
	default:
		// Layer switches and feature triggers are invisible to matching.
		return pipeline.PassThrough
	}

	if e.cfg.IdleTimeout > 0 {
		e.idleAt = ev.Time.Add(e.cfg.IdleTimeout)
	}

	mods := ctx.Keyboard.Mods() | ctx.Keyboard.OneShotMods()
	if !mods.OnlyShiftAltGr() {
		e.Clear()
		return pipeline.PassThrough
	}
	if code.IsShiftKey() {
		return pipeline.PassThrough
	}
	if code == key.KeyBackspace {
		e.rewind(ctx)
		return pipeline.PassThrough
	}

	class := e.cfg.Classify(code, ev, mods)
	newState := StateInit

	switch class {
	case ClassSpace:
		if e.state == StatePrimed ||
			(e.state == StateEnding && e.checkEnding(e.keyBuf)) {
			newState = StatePrimed
			e.suppress = key.KeyNone
		}

	case ClassLetter:
		switch {
		case e.state <= StateMatched:
			newState = StateWord
		case e.state == StatePrimed:
			if code == e.suppress {
				// A backspaced capital retyped: don't re-capitalize.
				newState = StateInit
			} else {
				e.suppress = code
				newState = StateMatched
				if !mods.HasShift() {
					ctx.Keyboard.SetOneShotMods(key.ModLeftShift)
					ctx.Log.Debug("sentencecase: capitalizing %s", code)
				}
			}
		default:
			newState = StateAbbrev
		}

	case ClassPunct:
		if e.state == StateWord || e.state == StateMatched {
			newState = StateEnding
		} else if e.state == StateAbbrev {
			newState = StateAbbrev
		}

	case ClassQuote:
		newState = e.state

	case ClassSymbol:
		// Falls back to INIT without discarding the buffers.

	default:
		e.Clear()
		return pipeline.PassThrough
	}

	e.pushKey(code)
	if class != ClassQuote && newState == StateEnding && !e.checkEnding(e.keyBuf) {
		ctx.Log.Debug("sentencecase: %s is not a real ending", code)
		newState = StateInit
	}
	e.pushHistory(e.state)
	e.setState(newState, ctx)
	return pipeline.PassThrough
}

// rewind undoes one state transition and shifts the buffers back.
func (e *Engine) rewind(ctx *pipeline.Context) {
	e.setState(e.history[historySize-1], ctx)
	copy(e.history[1:], e.history[:historySize-1])
	e.history[0] = StateInit
	copy(e.keyBuf[1:], e.keyBuf[:len(e.keyBuf)-1])
	e.keyBuf[0] = key.KeyNone
}

func (e *Engine) pushKey(code key.Keycode) {
	copy(e.keyBuf, e.keyBuf[1:])
	e.keyBuf[len(e.keyBuf)-1] = code
}

func (e *Engine) pushHistory(s State) {
	copy(e.history[:], e.history[1:])
	e.history[historySize-1] = s
}

func (e *Engine) setState(s State, ctx *pipeline.Context) {
	if e.state == s {
		return
	}
	if ctx != nil {
		ctx.Log.Debug("sentencecase: state = %s", s)
	}
	primed := s == StatePrimed
	if primed != (e.state == StatePrimed) && e.cfg.Primed != nil {
		e.cfg.Primed(primed)
	}
	e.state = s
}
