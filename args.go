package envtools

import "strings"

// ParseResidual extracts "--key value" and "--key=value"
// pairs from tokens that a structured parser did not
// consume.
//
// A bare "--key" takes the next non-flag token as its
// value; a trailing bare key, or one followed directly by
// another "--" token, is left out of the result entirely.
// If a key appears more than once, the last occurrence
// wins. Tokens that are neither flags nor pending values
// are ignored.
func ParseResidual(args []string) map[string]string {
	res := map[string]string{}
	var pending string
	havePending := false
	for _, arg := range args {
		if strings.HasPrefix(arg, "--") {
			havePending = false
			body := arg[2:]
			if idx := strings.Index(body, "="); idx >= 0 {
				res[body[:idx]] = body[idx+1:]
			} else {
				pending = body
				havePending = true
			}
		} else if havePending {
			res[pending] = arg
			havePending = false
		}
	}
	return res
}
