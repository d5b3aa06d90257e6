// Package pipeline runs key events through an ordered chain of feature
// handlers.
//
// The pipeline is single-threaded and cooperative: Handle and Tick must be
// called from one goroutine. A handler may consume an event (stopping the
// chain) or pass it through. Handlers synthesize new events by calling
// Context.Dispatch, which re-enters the full chain as a synchronous
// sub-call; a bounded depth guard catches re-entrancy bugs instead of
// letting them recurse forever.
//
// The final stage of every pipeline is the executor, which applies the
// event's resolved keymap action to the keyboard-state facade: plain taps
// register and unregister keycodes, momentary keys switch layers, and
// dual-role keys that reach it in their hold phase apply their hold
// action directly (this only happens when the tap-hold engine is disabled
// for that key).
package pipeline
