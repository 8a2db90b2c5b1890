package similarity

import (
	"unicode/utf8"

	"github.com/ludo-technologies/pysim/internal/editdistance"
)

// Coefficient returns the bounded similarity coefficient of two texts:
// their edit distance divided by max(|len1-len2|, len2), lengths counted
// in code points. 0 means identical. Two empty texts score 0.
func Coefficient(text1, text2 string) float64 {
	coefficient, _ := score(text1, text2)
	return coefficient
}

func score(text1, text2 string) (float64, int) {
	distance := editdistance.Strings(text1, text2)

	len1 := utf8.RuneCountInString(text1)
	len2 := utf8.RuneCountInString(text2)
	divisor := max(abs(len1-len2), len2)
	if divisor == 0 {
		return 0, distance
	}
	return float64(distance) / float64(divisor), distance
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
