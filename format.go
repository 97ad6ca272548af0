package orbit

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatViews renders a localized view count such as "1,234 views".
func FormatViews(tag language.Tag, n uint64) string {
	p := message.NewPrinter(tag)
	if n == 1 {
		return p.Sprintf("%d view", n)
	}
	return p.Sprintf("%d views", n)
}

// FormatLikes renders a localized like count such as "12 likes".
func FormatLikes(tag language.Tag, n uint64) string {
	p := message.NewPrinter(tag)
	if n == 1 {
		return p.Sprintf("%d like", n)
	}
	return p.Sprintf("%d likes", n)
}

// FormatProgress renders renderer load progress as a whole percentage.
func FormatProgress(tag language.Tag, fraction float64) string {
	pct := int(clampFloat(fraction, 0, 1)*100 + 0.5)
	return message.NewPrinter(tag).Sprintf("%d%%", pct)
}
