// Package repeatkey implements the repeat key and its alternate
// ("magic") counterpart.
//
// The engine remembers the last eligible key press: keycode (dual-role
// keys normalized to their tap keycode), the full modifier snapshot
// (real, weak, and one-shot), and the layer state at press time. The
// repeat key replays that press through the whole pipeline with the
// remembered modifiers stacked on whatever is live, restoring modifier
// and layer state afterwards. The alternate-repeat key instead looks the
// remembered key up in a pair table and taps its complement directly on
// the facade (arrow reversal, same-finger-bigram substitutions).
//
// A signed counter tracks consecutive repeats: positive for forward,
// negative for alternate, saturating at +/-127 and reset whenever a new
// key is remembered.
//
// Replayed events pass back through the engine's own handler; a recursing
// flag keeps them from being remembered or from triggering another
// repeat.
package repeatkey
