package agent

import "strings"

// maxExplanationChars caps the explanation carried into the output record.
const maxExplanationChars = 250

// TruncateExplanation trims an explanation to at most 250 characters,
// cutting at a sentence boundary when one fits. When even the first
// sentence is over the limit the text is hard-truncated instead.
func TruncateExplanation(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxExplanationChars {
		return s
	}

	var b strings.Builder
	for _, sentence := range splitSentences(s) {
		add := len(sentence)
		if b.Len() > 0 {
			add++ // joining space
		}
		if b.Len()+add > maxExplanationChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
	}
	if b.Len() == 0 {
		return s[:maxExplanationChars]
	}
	return b.String()
}

// splitSentences breaks text after terminal punctuation followed by
// whitespace.
func splitSentences(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s)-1; i++ {
		c := s[i]
		if (c == '.' || c == '!' || c == '?') && (s[i+1] == ' ' || s[i+1] == '\n' || s[i+1] == '\t') {
			out = append(out, strings.TrimSpace(s[start:i+1]))
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}
