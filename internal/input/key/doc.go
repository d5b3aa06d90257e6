// Package key provides the key event types shared by every engine.
//
// This package defines the fundamental types for representing keyboard
// input at the firmware level:
//
//   - Keycode: Identifies a key (letters, digits, specials, modifiers,
//     and shifted aliases such as Underscore or Exclaim)
//   - Modifier: Bitset of left/right Ctrl, Shift, Alt, and GUI
//   - Position: Matrix position of a key, or Virtual for synthesized keys
//   - Event: A single press or release with position and timestamp
//   - LayerMask: Bitset of active keymap layers
//
// Events are immutable once created. The With* methods return revised
// copies; engines that need to re-dispatch a revised event (for example
// the tap-hold engine settling a key as a tap) never mutate the original.
//
// Keycode names used in configuration and keymap files can be resolved
// with FromName and produced with Keycode.Name.
package key
