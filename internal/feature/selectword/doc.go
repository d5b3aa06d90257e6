// Package selectword selects the word under the cursor with one key.
//
// A dedicated keymap action taps the editor navigation hotkeys to jump
// to the start of the current word and extend a selection over it.
// Holding or re-tapping the key extends the selection word by word, and
// with shift held it selects whole lines instead. Escape collapses an
// existing selection. Hotkeys default to the Ctrl/Home/End convention;
// MacHotkeys switches to Option and Command arrows.
package selectword
