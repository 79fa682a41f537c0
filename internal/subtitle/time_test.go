package subtitle

import "testing"

func TestFormatTime(t *testing.T) {
	cases := []struct {
		ms   int
		want string
	}{
		{0, "00:00:00,000"},
		{1500, "00:00:01,500"},
		{65000, "00:01:05,000"},
		{3661500, "01:01:01,500"},
	}
	for _, tc := range cases {
		if got := FormatTime(tc.ms); got != tc.want {
			t.Errorf("FormatTime(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00:00,000", 0},
		{"00:00:01,500", 1500},
		{"00:01:05,000", 65000},
		{"01:01:01,500", 3661500},
	}
	for _, tc := range cases {
		got, err := ParseTime(tc.in)
		if err != nil {
			t.Fatalf("ParseTime(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseTime(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

// Every representable timestamp must survive a format/parse cycle.
func TestTimeRoundTrip(t *testing.T) {
	samples := []int{0, 1, 999, 1000, 59999, 60000, 3599999, 3600000, 86399999}
	for _, ms := range samples {
		got, err := ParseTime(FormatTime(ms))
		if err != nil {
			t.Fatalf("round trip of %d: %v", ms, err)
		}
		if got != ms {
			t.Errorf("round trip of %d gave %d", ms, got)
		}
	}
}

func TestParseTimeErrors(t *testing.T) {
	bad := []string{"", "00:00:00", "00:00:00,000,1", "aa:00:00,000", "00:-1:00,000"}
	for _, in := range bad {
		if _, err := ParseTime(in); err == nil {
			t.Errorf("ParseTime(%q) should fail", in)
		}
	}
}
