package pipeline

import (
	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
)

// execute is the pipeline's terminal stage: it applies an event that no
// handler consumed to the keyboard facade.
func (p *Pipeline) execute(ev key.Event, act keymap.Action) {
	kb := p.ctx.Keyboard

	switch act.Kind {
	case keymap.KindPlain:
		if ev.Pressed {
			kb.RegisterKey(act.Key)
		} else {
			kb.UnregisterKey(act.Key)
		}

	case keymap.KindModTap:
		if !ev.HoldPhase() {
			if ev.Pressed {
				kb.RegisterKey(act.Key)
			} else {
				kb.UnregisterKey(act.Key)
			}
			return
		}
		// Hold phase reaching the executor means the tap-hold engine is
		// absent or disabled for this key: apply the hold action.
		if ev.Pressed {
			kb.RegisterMods(act.Mods)
			kb.SendReport()
		} else {
			kb.UnregisterMods(act.Mods)
			kb.SendReport()
		}

	case keymap.KindLayerTap:
		if !ev.HoldPhase() {
			if ev.Pressed {
				kb.RegisterKey(act.Key)
			} else {
				kb.UnregisterKey(act.Key)
			}
			return
		}
		if ev.Pressed {
			kb.LayerOn(act.Layer)
		} else {
			kb.LayerOff(act.Layer)
		}

	case keymap.KindMomentary:
		if ev.Pressed {
			kb.LayerOn(act.Layer)
		} else {
			kb.LayerOff(act.Layer)
		}

	case keymap.KindToggle:
		if ev.Pressed {
			if kb.LayerState().Has(act.Layer) {
				kb.LayerOff(act.Layer)
			} else {
				kb.LayerOn(act.Layer)
			}
		}
	}
}
