package upload

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders n bytes with binary prefixes, rounded to at most two
// decimals: 0 -> "0 Bytes", 1024 -> "1 KB", 1572864 -> "1.5 MB".
// Sizes beyond the largest unit stay in GB.
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}

	v := float64(n)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
