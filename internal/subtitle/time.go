package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTime renders a millisecond timestamp in SRT form: HH:MM:SS,mmm.
func FormatTime(ms int) string {
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	seconds := (ms % 60_000) / 1_000
	millis := ms % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// ParseTime parses an SRT timestamp (HH:MM:SS,mmm) into milliseconds.
// Exactly four numeric fields are required.
func ParseTime(s string) (int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ':' || r == ','
	})
	if len(parts) != 4 {
		return 0, fmt.Errorf("invalid time format: %s", s)
	}

	fields := make([]int, 4)
	names := []string{"hours", "minutes", "seconds", "milliseconds"}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid %s in time %q", names[i], s)
		}
		fields[i] = n
	}

	return fields[0]*3_600_000 + fields[1]*60_000 + fields[2]*1_000 + fields[3], nil
}
