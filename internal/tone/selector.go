// Package tone approximates audio frequencies on the ESP32 DAC cosine
// generator and controls the two DAC channels that share it.
package tone

const (
	// K is the generator output in Hz at divisor 0, step 1.
	K = 125.6

	// K as the fraction kNum/kDen, for exact comparisons.
	kNum = 628
	kDen = 5

	MinFrequency = 1
	MaxFrequency = 5000
	DefaultPitch = 880 // A5

	MaxDivisor = 7
	MinStep    = 1
	MaxStep    = 249
)

// Params are the generator settings for one frequency.
type Params struct {
	Divisor  int     `json:"divisor"`
	Step     int     `json:"step"`
	ActualHz float64 `json:"actualHz"`
}

// FrequencyOf returns the output frequency of a divisor/step pair.
func FrequencyOf(divisor, step int) float64 {
	return K * float64(step) / float64(divisor+1)
}

// Solve returns the divisor/step pair whose output is closest to targetHz.
//
// The achievable set is too irregular to invert, so every pair is tried:
// steps ascending, and for each step the divisors ascending. Only a strictly
// closer candidate replaces the best, so the first pair evaluated wins a tie.
//
// Distances are compared as exact fractions. Pairs with the same ratio, such
// as (1,1) and (5,3), must tie, and float64 rounding would split them.
func Solve(targetHz int) Params {
	target := int64(targetHz)
	var bestDiv, bestStep int
	// best distance is bestNum/bestDen Hz
	bestNum, bestDen := int64(-1), int64(1)
	for step := MinStep; step <= MaxStep; step++ {
		for div := 0; div <= MaxDivisor; div++ {
			den := kDen * int64(div+1)
			num := den*target - kNum*int64(step)
			if num < 0 {
				num = -num
			}
			if bestNum < 0 || num*bestDen < bestNum*den {
				bestNum, bestDen = num, den
				bestDiv, bestStep = div, step
			}
		}
	}
	return Params{Divisor: bestDiv, Step: bestStep, ActualHz: FrequencyOf(bestDiv, bestStep)}
}

// ValidParams reports whether divisor and step lie within the search space.
func ValidParams(divisor, step int) bool {
	return divisor >= 0 && divisor <= MaxDivisor && step >= MinStep && step <= MaxStep
}
