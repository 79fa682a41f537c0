package log

import "testing"

func TestLevelFromVerbosity(t *testing.T) {
	cases := []struct {
		verbose int
		quiet   bool
		want    LogLevel
	}{
		{0, false, LevelWarn},
		{1, false, LevelInfo},
		{2, false, LevelDebug},
		{5, false, LevelDebug},
		{0, true, LevelError},
		{3, true, LevelError},
	}

	for _, tc := range cases {
		got := LevelFromVerbosity(tc.verbose, tc.quiet)
		if got != tc.want {
			t.Errorf("LevelFromVerbosity(%d, %v) = %v, want %v", tc.verbose, tc.quiet, got, tc.want)
		}
	}
}

func TestSetLevelFiltersLowerLevels(t *testing.T) {
	l := NewLogger(LevelWarn)
	if l.level != LevelWarn {
		t.Fatalf("expected warn, got %v", l.level)
	}
	l.SetLevel(LevelDebug)
	if l.level != LevelDebug {
		t.Fatalf("expected debug, got %v", l.level)
	}
}
