package agent

// ScoreConfidence maps the two quality signals onto the three-tier
// scale reported to callers:
//
//	no execution error, valid answer     1.0
//	no execution error, invalid answer   0.5
//	execution error,    valid answer     0.5
//	execution error,    invalid answer   0.0
//
// A question that never ran a query counts as having no execution error.
func ScoreConfidence(execFailed, answerValid bool) float64 {
	switch {
	case !execFailed && answerValid:
		return 1.0
	case !execFailed || answerValid:
		return 0.5
	default:
		return 0.0
	}
}
