package mrz

// checkDigitWeights cycles (7,3,1) from the leftmost character of the
// subject field, per ICAO Doc 9303 Part 3 §4.9.
var checkDigitWeights = [3]int{7, 3, 1}

// charWeight maps one MRZ character to its check-digit integer value:
// '0'-'9' -> 0..9, 'A'-'Z' -> 10..35, filler and anything else -> 0.
func charWeight(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 0
	}
}

// CheckDigitSum computes the modulo-10 weighted sum over data using the
// (7,3,1) weight cycle.
func CheckDigitSum(data string) int {
	sum := 0
	for i := 0; i < len(data); i++ {
		sum += charWeight(data[i]) * checkDigitWeights[i%len(checkDigitWeights)]
	}

	return sum % 10
}
