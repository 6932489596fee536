package cli

import (
	"fmt"
	"time"
)

func parseInterval(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	if d < time.Second {
		return 0, fmt.Errorf("invalid interval %q: must be at least 1s", s)
	}
	return d, nil
}
