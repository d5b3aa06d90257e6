// Package config loads, validates, and live-reloads the chordkit
// configuration.
//
// Configuration is a TOML file with one section per feature engine,
// overridable by CHORDKIT_* environment variables. Timing values are
// plain millisecond integers so they read the way firmware settings do.
// A Watcher built on fsnotify reloads the file on change, debouncing
// rapid writes, and only hands validated configurations to its
// callback.
package config
