// Package layerlock latches momentary layers so they stay active after
// the layer key is released.
//
// A dedicated keymap action toggles the lock on the highest active
// layer. While a layer is locked, pressing its momentary key unlocks it
// instead of re-activating it, and releasing a held layer-tap key on it
// leaves the layer on. Locks track external layer changes: if something
// else turns a locked layer off, the lock is dropped rather than
// fighting it. An optional idle timeout releases all locks.
package layerlock
