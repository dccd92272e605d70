package main

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var sizeUnits = []string{"B", "kB", "MB", "GB", "TB"}

var sizePrinter = message.NewPrinter(language.English)

// ReadableSize renders a byte count with 1024-based units, digit grouping and at most one
// decimal, e.g. "1,023 B" or "1.5 MB". Non-positive sizes render as "0".
func ReadableSize(size int64) string {
	if size <= 0 {
		return "0"
	}
	group := int(math.Log10(float64(size)) / math.Log10(1024))
	if group >= len(sizeUnits) {
		group = len(sizeUnits) - 1
	}

	tenths := int64(math.RoundToEven(float64(size) / math.Pow(1024, float64(group)) * 10))
	whole, frac := tenths/10, tenths%10
	if frac == 0 {
		return sizePrinter.Sprintf("%d %s", whole, sizeUnits[group])
	}
	return sizePrinter.Sprintf("%d.%d %s", whole, frac, sizeUnits[group])
}
