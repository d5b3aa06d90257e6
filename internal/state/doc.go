// Package state defines the keyboard-state facade the engines read and
// mutate, and a Virtual in-memory implementation used by tests and the
// interactive demo.
//
// The facade is the only shared resource between engines: modifier bits
// (real, weak, and one-shot), the active layer bitset, and the HID output
// side effects (key registration, report flushes, literal text). Engines
// never hold references into one another's state; they communicate through
// the event stream and this facade.
//
// Weak modifiers are transient: they apply to the next registered key and
// are cleared when that key's report goes out. One-shot modifiers likewise
// apply once and clear.
package state
