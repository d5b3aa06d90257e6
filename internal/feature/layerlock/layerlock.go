package layerlock

import (
	"time"

	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
)

// Config configures the engine.
type Config struct {
	// IdleTimeout releases all locks after inactivity. 0 disables.
	IdleTimeout time.Duration

	// Changed is called with the locked-layer mask whenever it changes.
	Changed func(key.LayerMask)
}

// Engine is the layer-lock handler.
type Engine struct {
	cfg    Config
	locked key.LayerMask
	idleAt time.Time
}

// New creates a layer-lock engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Name implements pipeline.Handler.
func (e *Engine) Name() string { return "layerlock" }

// Locked returns the locked-layer mask.
func (e *Engine) Locked() key.LayerMask { return e.locked }

// IsLocked reports whether a specific layer is locked.
func (e *Engine) IsLocked(layer uint8) bool { return e.locked.Has(layer) }

// Lock latches a layer on.
func (e *Engine) Lock(ctx *pipeline.Context, layer uint8) {
	if e.locked.Has(layer) {
		return
	}
	e.setLocked(ctx, e.locked.With(layer))
	ctx.Keyboard.LayerOn(layer)
}

// Unlock releases a latched layer and turns it off.
func (e *Engine) Unlock(ctx *pipeline.Context, layer uint8) {
	if !e.locked.Has(layer) {
		return
	}
	e.setLocked(ctx, e.locked.Without(layer))
	ctx.Keyboard.LayerOff(layer)
}

// Invert toggles the lock state of a layer.
func (e *Engine) Invert(ctx *pipeline.Context, layer uint8) {
	if e.locked.Has(layer) {
		e.Unlock(ctx, layer)
	} else {
		e.Lock(ctx, layer)
	}
}

// UnlockAll releases every lock.
func (e *Engine) UnlockAll(ctx *pipeline.Context) {
	for layer := uint8(0); layer < key.MaxLayers; layer++ {
		e.Unlock(ctx, layer)
	}
}

// Tick implements pipeline.Ticker: idle timeout releases all locks.
func (e *Engine) Tick(ctx *pipeline.Context, now time.Time) {
	if e.locked != 0 && !e.idleAt.IsZero() && !now.Before(e.idleAt) {
		ctx.Log.Debug("layerlock: idle timeout")
		e.UnlockAll(ctx)
	}
}

// Handle implements pipeline.Handler.
func (e *Engine) Handle(ctx *pipeline.Context, ev key.Event, act keymap.Action) pipeline.Result {
	// Drop locks for layers something else already turned off.
	if stale := e.locked &^ ctx.Keyboard.LayerState(); stale != 0 {
		ctx.Log.Debug("layerlock: dropping externally cleared locks %#x", uint32(stale))
		e.setLocked(ctx, e.locked&^stale)
	}

	if e.cfg.IdleTimeout > 0 && e.locked != 0 {
		e.idleAt = ev.Time.Add(e.cfg.IdleTimeout)
	}

	switch act.Kind {
	case keymap.KindLayerLock:
		if ev.Pressed {
			e.Invert(ctx, ctx.Keyboard.LayerState().Highest())
		}
		return pipeline.Consumed

	case keymap.KindMomentary, keymap.KindToggle:
		if e.locked.Has(act.Layer) {
			// Any event on a layer key whose layer is latched is
			// swallowed so the layer stays on; a press additionally
			// releases the latch.
			if ev.Pressed {
				e.Unlock(ctx, act.Layer)
			}
			return pipeline.Consumed
		}

	case keymap.KindLayerTap:
		if !ev.Pressed && ev.HoldPhase() && e.locked.Has(act.Layer) {
			// A held layer-tap released on a locked layer leaves it on.
			return pipeline.Consumed
		}
	}
	return pipeline.PassThrough
}

func (e *Engine) setLocked(ctx *pipeline.Context, locked key.LayerMask) {
	if e.locked == locked {
		return
	}
	e.locked = locked
	if locked == 0 {
		e.idleAt = time.Time{}
	} else if e.cfg.IdleTimeout > 0 && e.idleAt.IsZero() {
		e.idleAt = ctx.Now().Add(e.cfg.IdleTimeout)
	}
	if e.cfg.Changed != nil {
		e.cfg.Changed(locked)
	}
}
