package envtools

import (
	"strconv"

	"github.com/unixpickle/essentials"
)

// optBool reads a boolean option, using def when the key
// is absent.
func optBool(opts map[string]string, key string, def bool) (bool, error) {
	str, ok := opts[key]
	if !ok {
		return def, nil
	}
	val, err := strconv.ParseBool(str)
	if err != nil {
		return false, essentials.AddCtx("option "+key, err)
	}
	return val, nil
}

// optInt reads an integer option, using def when the key
// is absent.
func optInt(opts map[string]string, key string, def int) (int, error) {
	str, ok := opts[key]
	if !ok {
		return def, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, essentials.AddCtx("option "+key, err)
	}
	return val, nil
}

// optFloat reads a float option, using def when the key
// is absent.
func optFloat(opts map[string]string, key string, def float64) (float64, error) {
	str, ok := opts[key]
	if !ok {
		return def, nil
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, essentials.AddCtx("option "+key, err)
	}
	return val, nil
}
