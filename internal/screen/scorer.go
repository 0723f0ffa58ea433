package screen

// Scorer combines derived features into the composite move score
type Scorer struct {
	weights ScoringWeights
}

// NewScorer creates a scorer with the given weights; a zero value falls
// back to the reference weighting.
func NewScorer(weights ScoringWeights) *Scorer {
	if weights == (ScoringWeights{}) {
		weights = DefaultWeights()
	}
	return &Scorer{weights: weights}
}

// MoveScore is a pure function of the three weighted features. All inputs
// share the same sign convention: positive means favorable magnitude or
// favorable target gap, and relativeRunup is always non-negative.
func (s *Scorer) MoveScore(avgAbsPostMove, analystUpsidePct, relativeRunup float64) float64 {
	return avgAbsPostMove*s.weights.Historical +
		analystUpsidePct*s.weights.Analyst +
		relativeRunup*s.weights.Momentum
}
