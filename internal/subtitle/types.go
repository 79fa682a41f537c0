package subtitle

// Caption represents a single timed subtitle entry.
type Caption struct {
	Index int    // 1-based position within the track
	Start int    // start time in milliseconds
	End   int    // end time in milliseconds
	Text  string // caption text, may contain embedded newlines
}

// Track is the ordered collection of captions for one video.
type Track []Caption

// Renumber rewrites the Index fields as a dense 1..N sequence following the
// current order of the track.
func (t Track) Renumber() {
	for i := range t {
		t[i].Index = i + 1
	}
}

// Delete removes the caption at position i and renumbers the remainder.
func (t Track) Delete(i int) Track {
	if i < 0 || i >= len(t) {
		return t
	}
	t = append(t[:i], t[i+1:]...)
	t.Renumber()
	return t
}

// AppendNew adds a placeholder caption after the last entry, two seconds
// long, and returns the grown track.
func (t Track) AppendNew() Track {
	c := Caption{Index: 1, Start: 0, End: 2000, Text: "New subtitle"}
	if len(t) > 0 {
		last := t[len(t)-1]
		c = Caption{
			Index: len(t) + 1,
			Start: last.End,
			End:   last.End + 2000,
			Text:  "New subtitle",
		}
	}
	return append(t, c)
}

// NudgeStart shifts the caption start by delta milliseconds. The start never
// goes negative and never reaches the end time.
func (c *Caption) NudgeStart(delta int) {
	c.Start += delta
	if c.Start < 0 {
		c.Start = 0
	}
	if c.Start >= c.End {
		c.Start = c.End - 100
		if c.Start < 0 {
			c.Start = 0
		}
	}
}

// NudgeEnd shifts the caption end by delta milliseconds. Shrinking below the
// start time is refused; growing is always allowed.
func (c *Caption) NudgeEnd(delta int) {
	if delta < 0 && c.End+delta <= c.Start {
		return
	}
	c.End += delta
}
