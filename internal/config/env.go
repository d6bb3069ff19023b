package config

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
)

// Environment variables recognised by FromEnv.
const (
	EnvMaxHP     = "PIPDUEL_MAX_HP"
	EnvTurnTime  = "PIPDUEL_TURN_TIME"
	EnvDrawCount = "PIPDUEL_DRAW_COUNT"
	EnvMaxCards  = "PIPDUEL_MAX_CARDS"
	EnvSlots     = "PIPDUEL_SLOTS"
	EnvCritical  = "PIPDUEL_CRITICAL_MULTIPLIER"
)

// FromEnv overlays PIPDUEL_* environment variables onto r.
func FromEnv(r Rules) (Rules, error) {
	var err error
	if r.Match.MaxHP, err = envFloat(EnvMaxHP, r.Match.MaxHP); err != nil {
		return r, err
	}
	if r.Match.TurnTime, err = envFloat(EnvTurnTime, r.Match.TurnTime); err != nil {
		return r, err
	}
	if r.Match.DrawCount, err = envInt(EnvDrawCount, r.Match.DrawCount); err != nil {
		return r, err
	}
	if r.Match.MaxCards, err = envInt(EnvMaxCards, r.Match.MaxCards); err != nil {
		return r, err
	}
	if r.Match.Slots, err = envInt(EnvSlots, r.Match.Slots); err != nil {
		return r, err
	}
	if r.Roles.Critical, err = envFloat(EnvCritical, r.Roles.Critical); err != nil {
		return r, err
	}
	return r, r.Validate()
}

func envInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// Resolve is how the binaries load rules: the file at path over the
// defaults (or just the defaults when path is empty), then the environment.
func Resolve(path string) (Rules, error) {
	r := Default()
	if path != "" {
		var err error
		if r, err = Load(path); err != nil {
			return r, err
		}
	}
	return FromEnv(r)
}
