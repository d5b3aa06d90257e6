package keymap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/chordkit/internal/input/key"
)

// ParseAction parses a key specification string into an Action.
//
// Accepted forms:
//
//	"a", "enter", "lsft"      plain keycode by name
//	"none", "trans"           unbound / transparent
//	"mt(lshift,a)"            mod-tap: hold lshift, tap a
//	"lt(2,escape)"            layer-tap: hold layer 2, tap escape
//	"mo(1)", "tg(1)"          momentary / toggle layer
//	"repeat", "altrepeat"     repeat engine triggers
//	"layerlock", "capsword", "selectword"  feature triggers
func ParseAction(spec string) (Action, error) {
	spec = strings.ToLower(strings.TrimSpace(spec))
	if spec == "" {
		return Action{}, fmt.Errorf("keymap: empty key spec")
	}

	switch spec {
	case "none", "xxx":
		return Action{Kind: KindNone}, nil
	case "trans", "transparent", "___":
		return Action{Kind: KindTransparent}, nil
	case "repeat":
		return Action{Kind: KindRepeat}, nil
	case "altrepeat", "magic":
		return Action{Kind: KindAltRepeat}, nil
	case "layerlock":
		return Action{Kind: KindLayerLock}, nil
	case "capsword":
		return Action{Kind: KindCapsToggle}, nil
	case "selectword":
		return Action{Kind: KindSelectWord}, nil
	}

	if open := strings.IndexByte(spec, '('); open > 0 && strings.HasSuffix(spec, ")") {
		fn := spec[:open]
		args := strings.Split(spec[open+1:len(spec)-1], ",")
		return parseCall(spec, fn, args)
	}

	code, ok := key.FromName(spec)
	if !ok {
		return Action{}, fmt.Errorf("keymap: unknown keycode %q", spec)
	}
	return Plain(code), nil
}

func parseCall(spec, fn string, args []string) (Action, error) {
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	switch fn {
	case "mt":
		if len(args) != 2 {
			return Action{}, fmt.Errorf("keymap: mt wants 2 args in %q", spec)
		}
		mods := key.ParseModifiers(args[0])
		if mods == key.ModNone {
			return Action{}, fmt.Errorf("keymap: unknown modifier %q in %q", args[0], spec)
		}
		code, ok := key.FromName(args[1])
		if !ok {
			return Action{}, fmt.Errorf("keymap: unknown keycode %q in %q", args[1], spec)
		}
		return ModTap(mods, code), nil

	case "lt":
		if len(args) != 2 {
			return Action{}, fmt.Errorf("keymap: lt wants 2 args in %q", spec)
		}
		layer, err := parseLayer(args[0])
		if err != nil {
			return Action{}, fmt.Errorf("keymap: %v in %q", err, spec)
		}
		code, ok := key.FromName(args[1])
		if !ok {
			return Action{}, fmt.Errorf("keymap: unknown keycode %q in %q", args[1], spec)
		}
		return LayerTap(layer, code), nil

	case "mo", "tg":
		if len(args) != 1 {
			return Action{}, fmt.Errorf("keymap: %s wants 1 arg in %q", fn, spec)
		}
		layer, err := parseLayer(args[0])
		if err != nil {
			return Action{}, fmt.Errorf("keymap: %v in %q", err, spec)
		}
		if fn == "mo" {
			return Momentary(layer), nil
		}
		return Toggle(layer), nil
	}

	return Action{}, fmt.Errorf("keymap: unknown key function %q in %q", fn, spec)
}

func parseLayer(s string) (uint8, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= key.MaxLayers {
		return 0, fmt.Errorf("invalid layer %q", s)
	}
	return uint8(n), nil
}
