// Package taphold resolves dual-role keys to their tap or hold action.
//
// When a dual-role key (mod-tap or layer-tap) is pressed, the engine holds
// the event back and enters a pending state. The decision is settled by
// whichever comes first:
//
//   - Release of the pending key: the key was tapped; the engine
//     synthesizes a tap press and release of the tap keycode.
//   - Press of a different key: a pluggable chord predicate decides. The
//     default is the bilateral-combination rule (hold only when the two
//     keys are on opposite hands). Presses at virtual positions and
//     hold-phase presses of a second dual-role key always settle as hold.
//   - Timeout: the key is settled as held.
//
// An optional streak timeout suppresses hold decisions during fast typing:
// if the pending key was pressed within the streak window of the previous
// keystroke, the settle decision is forced to tap.
//
// Settling re-dispatches events through the full pipeline. A one-shot
// settled flag, cleared only when the engine returns to idle, keeps the
// re-dispatched events from re-entering the decision logic.
package taphold
