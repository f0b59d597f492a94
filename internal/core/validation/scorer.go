package validation

// Confidence is a model-reported confidence in [0,100]. Provided
// distinguishes "the model asserted 0" from "no calibration signal at all"
// (e.g. bulk-ingested external submissions); mode selection is never inferred
// from the numeric value.
type Confidence struct {
	Value    int
	Provided bool
}

// ConfidenceOf wraps a reported confidence value. A value of exactly 0 is a
// legitimate assertion and still engages calibrated scoring.
func ConfidenceOf(v int) Confidence {
	return Confidence{Value: v, Provided: true}
}

// NoConfidence marks a submission that carries no calibration signal.
func NoConfidence() Confidence {
	return Confidence{}
}

func (c Confidence) normalized() float64 {
	v := c.Value
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return float64(v) / 100.0
}

// TrustworthinessScore computes the confidence-calibrated correctness score
// in [0,1].
//
// Calibrated mode (confidence provided):
//
//	correct:   max(0.5, 0.5 + 0.5*c)  — any correct answer scores at least 0.5
//	incorrect: 1 - c                  — honest 0% on a wrong answer scores 1.0,
//	                                    confident 100% on a wrong answer 0.0
//
// Pure-correctness mode (no confidence): 1.0 if correct else 0.0.
func TrustworthinessScore(correct bool, conf Confidence) float64 {
	if !conf.Provided {
		if correct {
			return 1.0
		}
		return 0.0
	}

	c := conf.normalized()
	if correct {
		score := 0.5 + 0.5*c
		if score < 0.5 {
			score = 0.5
		}
		return score
	}
	return 1.0 - c
}
