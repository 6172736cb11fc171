package rating

// Aggregator folds per-dimension scores into one overall score. The second
// return value is false when no score can be derived (empty input). Callers
// swap formulas by passing a different function; nothing else changes.
type Aggregator func(scores map[string]float64) (float64, bool)

// Mean is the default aggregator: the arithmetic mean of all present values.
func Mean(scores map[string]float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}

	var sum float64
	for _, v := range scores {
		sum += v
	}
	return sum / float64(len(scores)), true
}

// Normalize linearly rescales value from [fromLo, fromHi] to [toLo, toHi].
// The API reports overall scores rescaled from the 1-7 prompt scale to
// [-1, 1], where -1 is far left, 0 is center, and +1 is far right.
func Normalize(value, fromLo, fromHi, toLo, toHi float64) float64 {
	return (value-fromLo)/(fromHi-fromLo)*(toHi-toLo) + toLo
}
