package audit

import "fmt"

const (
	passGlyphConstant = "✅"
	failGlyphConstant = "❌"
	warnGlyphConstant = "⚠️"
	findingTemplate   = "%s %s"
)

// categoryEvaluation accumulates signal outcomes for one category.
type categoryEvaluation struct {
	identifier CategoryIdentifier
	score      float64
	findings   []string
	issues     IssueCollector
}

func newCategoryEvaluation(identifier CategoryIdentifier) *categoryEvaluation {
	return &categoryEvaluation{identifier: identifier, findings: make([]string, 0)}
}

// pass awards delta for positive evidence.
func (evaluation *categoryEvaluation) pass(delta float64, finding string) *categoryEvaluation {
	evaluation.score += delta
	return evaluation.record(passGlyphConstant, finding)
}

// partial awards delta for weak evidence.
func (evaluation *categoryEvaluation) partial(delta float64, finding string) *categoryEvaluation {
	evaluation.score += delta
	return evaluation.record(warnGlyphConstant, finding)
}

// warn records missing evidence that is merely suboptimal.
func (evaluation *categoryEvaluation) warn(finding string) *categoryEvaluation {
	return evaluation.record(warnGlyphConstant, finding)
}

// fail records missing or negative evidence.
func (evaluation *categoryEvaluation) fail(finding string) *categoryEvaluation {
	return evaluation.record(failGlyphConstant, finding)
}

// penalize subtracts delta for harmful evidence.
func (evaluation *categoryEvaluation) penalize(delta float64, finding string) *categoryEvaluation {
	evaluation.score -= delta
	return evaluation.record(failGlyphConstant, finding)
}

func (evaluation *categoryEvaluation) critical(reason string) *categoryEvaluation {
	evaluation.issues.AddCritical(reason)
	return evaluation
}

func (evaluation *categoryEvaluation) publicLaunch(reason string) *categoryEvaluation {
	evaluation.issues.AddPublicLaunch(reason)
	return evaluation
}

func (evaluation *categoryEvaluation) improve(recommendation string) *categoryEvaluation {
	evaluation.issues.AddImprovement(recommendation)
	return evaluation
}

func (evaluation *categoryEvaluation) record(glyph string, finding string) *categoryEvaluation {
	evaluation.findings = append(evaluation.findings, fmt.Sprintf(findingTemplate, glyph, finding))
	return evaluation
}

// result clamps the score into [0, CategoryMaximumScore].
func (evaluation *categoryEvaluation) result() CheckResult {
	return CheckResult{
		Category: Category{
			Identifier: evaluation.identifier,
			Score:      clampScore(evaluation.score, CategoryMaximumScore),
			Maximum:    CategoryMaximumScore,
			Findings:   evaluation.findings,
		},
		Issues: evaluation.issues,
	}
}

func clampScore(score float64, maximum float64) float64 {
	if score < 0 {
		return 0
	}
	if score > maximum {
		return maximum
	}
	return score
}
