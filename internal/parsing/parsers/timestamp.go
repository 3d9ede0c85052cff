/**
 * @description
 * Shared timestamp parsing helpers for the log-line parsers. The game log
 * uses two closely related formats: a single "2024.01.02-03.04.05" token
 * (used by most single-line parsers) and a split
 * "[2024.01.02-03.04.05:123]" form carrying a millisecond component (used
 * by the FSM parsers and a few single-line ones), grounded verbatim on the
 * original source's individual parser modules.
 */

package parsers

import "time"

const gameTimestampLayout = "2006.01.02-15.04.05"

// parseTimestamp parses the common "2024.01.02-03.04.05" token. Falls back
// to the zero time on failure — a malformed timestamp must never abort
// parsing of an otherwise well-formed line.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(gameTimestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseTimestampMillis parses the 3-component [date]-[time]:[millis] form
// used by the FSM parsers and exit_level/loading_progress.
func parseTimestampMillis(date, clock, millis string) time.Time {
	base, err := time.Parse(gameTimestampLayout, date+"-"+clock)
	if err != nil {
		return time.Time{}
	}
	var ms int
	for _, c := range millis {
		if c < '0' || c > '9' {
			ms = 0
			break
		}
		ms = ms*10 + int(c-'0')
	}
	return base.Add(time.Duration(ms) * time.Millisecond)
}
