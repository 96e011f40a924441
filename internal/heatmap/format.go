package heatmap

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPrice renders an integer minor-unit price with thousands
// separators, e.g. 118000 -> "118,000".
func FormatPrice(price int) string {
	s := strconv.Itoa(price)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// ContrastTextColor returns "#000000" or "#ffffff", whichever reads better
// on the given background color. Accepts #rgb and #rrggbb; anything
// unparsable defaults to black text.
func ContrastTextColor(background string) string {
	r, g, b, ok := parseHexColor(background)
	if !ok {
		return "#000000"
	}
	// Perceived luminance (ITU-R BT.601).
	luma := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	if luma < 140 {
		return "#ffffff"
	}
	return "#000000"
}

func parseHexColor(s string) (r, g, b int, ok bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		s = fmt.Sprintf("%c%c%c%c%c%c", s[0], s[0], s[1], s[1], s[2], s[2])
	case 6:
	default:
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
