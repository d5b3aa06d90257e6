// Package main is an interactive terminal playground for the chordkit
// feature engines. Keystrokes become matrix key events, run through the
// pipeline, and the resulting host output is shown alongside live
// engine state.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/chordkit/internal/app"
	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var opts app.Options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.KeymapPath, "keymap", "", "Path to keymap file")
	flag.StringVar(&opts.ScriptPath, "script", "", "Path to Lua hook script")
	flag.StringVar(&opts.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload configuration on change")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("chordkit %s (%s)\n", version, commit)
		return 0
	}

	logFile, err := os.CreateTemp("", "chordkit-*.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logFile.Close()
	opts.LogOutput = logFile

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			events <- screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-signals:
			return 0
		case now := <-ticker.C:
			application.Tick(now)
			draw(screen, application)
		case ev := <-events:
			tev, ok := ev.(*tcell.EventKey)
			if !ok {
				continue
			}
			if tev.Key() == tcell.KeyCtrlC {
				return 0
			}
			if !inject(application, tev) {
				continue
			}
			draw(screen, application)
		}
	}
}

// featureKeys routes function keys to matrix positions bound to the
// feature actions, which have no keycode of their own.
var featureKeys = map[tcell.Key]keymap.Kind{
	tcell.KeyF1: keymap.KindRepeat,
	tcell.KeyF2: keymap.KindAltRepeat,
	tcell.KeyF3: keymap.KindCapsToggle,
	tcell.KeyF4: keymap.KindSelectWord,
	tcell.KeyF5: keymap.KindLayerLock,
}

// inject converts a terminal key event into pipeline events and reports
// whether anything was dispatched. Strokes that land on a base-layer
// matrix position are injected there, so dual-role and feature keys
// behave as mapped; everything else falls back to a virtual keycode
// event. Terminals report no key-up, so each stroke becomes an
// immediate tap.
func inject(application *app.App, tev *tcell.EventKey) bool {
	now := time.Now()
	km := application.Keymap()

	if kind, ok := featureKeys[tev.Key()]; ok {
		pos, ok := findKind(km, kind)
		if !ok {
			return false
		}
		application.Handle(key.NewPress(key.KeyNone, pos, now))
		application.Handle(key.NewRelease(key.KeyNone, pos, now))
		return true
	}

	code, found := terminalKeycode(tev)
	if !found {
		return false
	}
	if pos, ok := km.FindTap(0, code); ok {
		application.Handle(key.NewPress(key.KeyNone, pos, now))
		application.Handle(key.NewRelease(key.KeyNone, pos, now))
		return true
	}
	application.Handle(key.NewPress(code, key.Virtual, now))
	application.Handle(key.NewRelease(code, key.Virtual, now))
	return true
}

// findKind searches every layer for a position bound to the kind. What
// the press actually does still depends on the live layer state, the
// same as on hardware.
func findKind(km *keymap.Keymap, kind keymap.Kind) (key.Position, bool) {
	for layer := 0; layer < km.LayerCount(); layer++ {
		if pos, ok := km.FindKind(layer, kind); ok {
			return pos, true
		}
	}
	return key.Position{}, false
}

// terminalKeycode maps a tcell key event to a keycode.
func terminalKeycode(ev *tcell.EventKey) (key.Keycode, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return runeKeycode(ev.Rune())
	case tcell.KeyEnter:
		return key.KeyEnter, true
	case tcell.KeyTab:
		return key.KeyTab, true
	case tcell.KeyEscape:
		return key.KeyEscape, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.KeyBackspace, true
	case tcell.KeyDelete:
		return key.KeyDelete, true
	case tcell.KeyUp:
		return key.KeyUp, true
	case tcell.KeyDown:
		return key.KeyDown, true
	case tcell.KeyLeft:
		return key.KeyLeft, true
	case tcell.KeyRight:
		return key.KeyRight, true
	case tcell.KeyHome:
		return key.KeyHome, true
	case tcell.KeyEnd:
		return key.KeyEnd, true
	}
	return key.KeyNone, false
}

// runeKeycode maps printable runes, using the shifted alias codes for
// characters that need shift on a US layout.
func runeKeycode(r rune) (key.Keycode, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return key.KeyA + key.Keycode(r-'a'), true
	case r >= 'A' && r <= 'Z':
		// No matrix shift state in a terminal; uppercase arrives as a
		// shifted alias would.
		return key.KeyA + key.Keycode(r-'A'), true
	case r >= '1' && r <= '9':
		return key.Key1 + key.Keycode(r-'1'), true
	case r == '0':
		return key.Key0, true
	case r == ' ':
		return key.KeySpace, true
	}
	if code, ok := runeKeys[r]; ok {
		return code, true
	}
	return key.KeyNone, false
}

var runeKeys = map[rune]key.Keycode{
	'-':  key.KeyMinus,
	'=':  key.KeyEqual,
	'[':  key.KeyLeftBracket,
	']':  key.KeyRightBracket,
	'\\': key.KeyBackslash,
	';':  key.KeySemicolon,
	'\'': key.KeyQuote,
	'`':  key.KeyGrave,
	',':  key.KeyComma,
	'.':  key.KeyDot,
	'/':  key.KeySlash,
	'!':  key.KeyExclaim,
	'@':  key.KeyAt,
	'#':  key.KeyHash,
	'$':  key.KeyDollar,
	'%':  key.KeyPercent,
	'^':  key.KeyCaret,
	'&':  key.KeyAmpersand,
	'*':  key.KeyAsterisk,
	'(':  key.KeyLeftParen,
	')':  key.KeyRightParen,
	'_':  key.KeyUnderscore,
	'+':  key.KeyPlus,
	'{':  key.KeyLeftBrace,
	'}':  key.KeyRightBrace,
	'|':  key.KeyPipe,
	':':  key.KeyColon,
	'"':  key.KeyDoubleQuote,
	'~':  key.KeyTilde,
	'<':  key.KeyLess,
	'>':  key.KeyGreater,
	'?':  key.KeyQuestion,
}

// draw renders the status header and the tail of the output log.
func draw(screen tcell.Screen, application *app.App) {
	screen.Clear()
	_, height := screen.Size()

	st := application.Status()
	header := tcell.StyleDefault.Bold(true)
	drawText(screen, 0, 0, header, "chordkit playground  F1 repeat  F2 alt-repeat  F3 caps-word  F4 select-word  F5 layer-lock  (Ctrl+C quits)")
	drawText(screen, 0, 1, tcell.StyleDefault, fmt.Sprintf(
		"layers=%#x locked=%#x mods=[%s]", uint32(st.Layers), uint32(st.Locked), st.Mods))
	drawText(screen, 0, 2, tcell.StyleDefault, fmt.Sprintf(
		"capsword=%v sentence=%s selection=%d repeat=%s x%d",
		st.CapsWord, st.Sentence, st.Selection, st.RepeatKey, st.RepeatCount))

	log := application.Keyboard().Log()
	first := 0
	if max := height - 4; len(log) > max && max > 0 {
		first = len(log) - max
	}
	for i, entry := range log[first:] {
		drawText(screen, 0, 4+i, tcell.StyleDefault, entry.String())
	}
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
