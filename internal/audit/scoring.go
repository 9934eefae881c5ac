package audit

const (
	productionReadyMinimum    = 48.0
	publicBetaReadyMinimum    = 43.0
	employeePilotReadyMinimum = 36.0
	devPreviewMinimum         = 26.0

	reliabilityFailureDiagnosis   = "Reliability: errors and dependency outages will surface as user-facing failures"
	performanceFailureDiagnosis   = "Performance: response times will degrade as traffic grows"
	observabilityFailureDiagnosis = "Observability: failures will go unnoticed until users report them"
	moderateLoadDiagnosis         = "Nothing obvious: the system should handle moderate load"
	firstFailureScoreThreshold    = 3.0
)

// TierThreshold pairs a tier with the minimum total score that earns it.
type TierThreshold struct {
	Tier    ReadinessTier
	Minimum float64
}

// TierThresholds is the readiness ladder evaluated top-down; the first satisfied rung wins.
var TierThresholds = []TierThreshold{
	{Tier: TierProductionReady, Minimum: productionReadyMinimum},
	{Tier: TierPublicBetaReady, Minimum: publicBetaReadyMinimum},
	{Tier: TierEmployeePilotReady, Minimum: employeePilotReadyMinimum},
	{Tier: TierDevPreview, Minimum: devPreviewMinimum},
	{Tier: TierPrototype, Minimum: 0},
}

// ClassifyScore maps a total score onto the readiness ladder.
func ClassifyScore(totalScore float64) ReadinessTier {
	for _, threshold := range TierThresholds {
		if totalScore >= threshold.Minimum {
			return threshold.Tier
		}
	}
	return TierPrototype
}

// SafeForEmployees requires no critical blockers and a total of at least the pilot threshold.
func SafeForEmployees(totalScore float64, issues IssueCollector) bool {
	return len(issues.CriticalBlockers) == 0 && totalScore >= employeePilotReadyMinimum
}

// SafeForCustomers requires no blockers of either kind and a total of at least the beta threshold.
func SafeForCustomers(totalScore float64, issues IssueCollector) bool {
	return len(issues.CriticalBlockers) == 0 && len(issues.PublicLaunchBlockers) == 0 && totalScore >= publicBetaReadyMinimum
}

// WeakestCategory returns the category with the lowest score relative to its maximum.
// Ties go to the earlier category.
func WeakestCategory(categories []Category) Category {
	if len(categories) == 0 {
		return Category{}
	}
	weakest := categories[0]
	for _, category := range categories[1:] {
		if scoreRatio(category) < scoreRatio(weakest) {
			weakest = category
		}
	}
	return weakest
}

// FirstFailureDiagnosis names what breaks first under load: Reliability, then Performance,
// then Observability, whichever first scores below 3.
func FirstFailureDiagnosis(categories []Category) string {
	diagnosisChain := []struct {
		identifier CategoryIdentifier
		diagnosis  string
	}{
		{identifier: CategoryReliability, diagnosis: reliabilityFailureDiagnosis},
		{identifier: CategoryPerformance, diagnosis: performanceFailureDiagnosis},
		{identifier: CategoryObservability, diagnosis: observabilityFailureDiagnosis},
	}
	for _, link := range diagnosisChain {
		for _, category := range categories {
			if category.Identifier == link.identifier && category.Score < firstFailureScoreThreshold {
				return link.diagnosis
			}
		}
	}
	return moderateLoadDiagnosis
}

// Summarize totals the categories and derives the tier, gates, and diagnostics.
func Summarize(categories []Category, issues IssueCollector) Report {
	totalScore := 0.0
	maximumScore := 0.0
	for _, category := range categories {
		totalScore += category.Score
		maximumScore += category.Maximum
	}

	return Report{
		Categories:       categories,
		Issues:           issues,
		TotalScore:       totalScore,
		MaximumScore:     maximumScore,
		Tier:             ClassifyScore(totalScore),
		SafeForEmployees: SafeForEmployees(totalScore, issues),
		SafeForCustomers: SafeForCustomers(totalScore, issues),
		WeakestCategory:  WeakestCategory(categories),
		FirstFailure:     FirstFailureDiagnosis(categories),
	}
}

func scoreRatio(category Category) float64 {
	if category.Maximum <= 0 {
		return 0
	}
	return category.Score / category.Maximum
}
