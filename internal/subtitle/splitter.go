package subtitle

import "strings"

// AppendSpan splits one transcribed span into sentence-level captions and
// appends them to dst. The span's duration is distributed over the sentences
// proportionally to their character length; the final sentence is clamped to
// endMS so the whole span stays covered without gaps. Index values continue
// the running count of dst.
func AppendSpan(dst Track, startMS, endMS int, text string) Track {
	text = strings.TrimSpace(text)
	if text == "" {
		return dst
	}

	sentences := splitSentences(text)
	if len(sentences) == 1 {
		return append(dst, Caption{
			Index: len(dst) + 1,
			Start: startMS,
			End:   endMS,
			Text:  text,
		})
	}

	totalDuration := endMS - startMS
	if totalDuration < len(sentences) {
		// too short to give every sentence at least a millisecond
		return append(dst, Caption{
			Index: len(dst) + 1,
			Start: startMS,
			End:   endMS,
			Text:  text,
		})
	}

	totalChars := 0
	for _, s := range sentences {
		totalChars += len(s)
	}

	current := startMS
	for i, s := range sentences {
		duration := int(float64(totalDuration) * float64(len(s)) / float64(totalChars))
		if duration < 1 {
			duration = 1
		}
		end := current + duration
		// leave room for one millisecond per remaining sentence
		if limit := endMS - (len(sentences) - 1 - i); end > limit {
			end = limit
		}

		dst = append(dst, Caption{
			Index: len(dst) + 1,
			Start: current,
			End:   end,
			Text:  s,
		})
		current = end
	}

	// absorb rounding drift into the last caption
	if len(dst) > 0 {
		dst[len(dst)-1].End = endMS
	}

	return dst
}

// splitSentences cuts text at '.', '!' or '?' followed by a space, quote,
// closing bracket, or end of string. This is a cheap heuristic, not real
// sentence detection: abbreviations like "Mr." split too.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		sentenceEnd := i+1 >= len(runes)
		if !sentenceEnd {
			switch runes[i+1] {
			case ' ', '"', '\'', ')', ']':
				sentenceEnd = true
			}
		}

		if sentenceEnd {
			s := strings.TrimSpace(string(runes[start : i+1]))
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}

	if start < len(runes) {
		s := strings.TrimSpace(string(runes[start:]))
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) == 0 {
		sentences = append(sentences, strings.TrimSpace(text))
	}

	return sentences
}
