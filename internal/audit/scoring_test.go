package audit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyScoreLadder(testInstance *testing.T) {
	testCases := []struct {
		totalScore   float64
		expectedTier ReadinessTier
	}{
		{totalScore: 50, expectedTier: TierProductionReady},
		{totalScore: 48, expectedTier: TierProductionReady},
		{totalScore: 47.5, expectedTier: TierPublicBetaReady},
		{totalScore: 43, expectedTier: TierPublicBetaReady},
		{totalScore: 42.5, expectedTier: TierEmployeePilotReady},
		{totalScore: 36, expectedTier: TierEmployeePilotReady},
		{totalScore: 35.5, expectedTier: TierDevPreview},
		{totalScore: 26, expectedTier: TierDevPreview},
		{totalScore: 25.5, expectedTier: TierPrototype},
		{totalScore: 0, expectedTier: TierPrototype},
	}

	for _, testCase := range testCases {
		require.Equal(testInstance, testCase.expectedTier, ClassifyScore(testCase.totalScore), testCase.totalScore)
	}
}

func TestClassifyScoreIsMonotonic(testInstance *testing.T) {
	tierRank := map[ReadinessTier]int{}
	for rank, threshold := range TierThresholds {
		tierRank[threshold.Tier] = len(TierThresholds) - rank
	}

	previousRank := 0
	for halfPoints := 0; halfPoints <= 100; halfPoints++ {
		currentRank := tierRank[ClassifyScore(float64(halfPoints)/2)]
		require.GreaterOrEqual(testInstance, currentRank, previousRank)
		previousRank = currentRank
	}
}

func TestSafetyGates(testInstance *testing.T) {
	testCases := []struct {
		name                     string
		totalScore               float64
		issues                   IssueCollector
		expectedSafeForEmployees bool
		expectedSafeForCustomers bool
	}{
		{name: "clean_high_score", totalScore: 49, expectedSafeForEmployees: true, expectedSafeForCustomers: true},
		{name: "critical_blocker_vetoes_both", totalScore: 49, issues: IssueCollector{CriticalBlockers: []string{"No logging detected"}}},
		{name: "public_launch_blocker_vetoes_customers", totalScore: 49, issues: IssueCollector{PublicLaunchBlockers: []string{"No runbook"}}, expectedSafeForEmployees: true},
		{name: "pilot_threshold", totalScore: 36, expectedSafeForEmployees: true},
		{name: "below_pilot_threshold", totalScore: 35.5},
		{name: "beta_threshold", totalScore: 43, expectedSafeForEmployees: true, expectedSafeForCustomers: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedSafeForEmployees, SafeForEmployees(testCase.totalScore, testCase.issues))
			require.Equal(testInstance, testCase.expectedSafeForCustomers, SafeForCustomers(testCase.totalScore, testCase.issues))
		})
	}
}

func TestWeakestCategoryPrefersEarlierOnTie(testInstance *testing.T) {
	categories := []Category{
		{Identifier: CategoryIdentityAccess, Score: 4, Maximum: 5},
		{Identifier: CategoryReliability, Score: 1.5, Maximum: 5},
		{Identifier: CategoryTesting, Score: 1.5, Maximum: 5},
		{Identifier: CategoryDocumentation, Score: 3, Maximum: 5},
	}

	require.Equal(testInstance, CategoryReliability, WeakestCategory(categories).Identifier)
	require.Equal(testInstance, Category{}, WeakestCategory(nil))
}

func TestFirstFailureDiagnosisChain(testInstance *testing.T) {
	scored := func(reliability float64, performance float64, observability float64) []Category {
		return []Category{
			{Identifier: CategoryReliability, Score: reliability, Maximum: 5},
			{Identifier: CategoryObservability, Score: observability, Maximum: 5},
			{Identifier: CategoryPerformance, Score: performance, Maximum: 5},
		}
	}

	require.Equal(testInstance, reliabilityFailureDiagnosis, FirstFailureDiagnosis(scored(2.5, 0, 0)))
	require.Equal(testInstance, performanceFailureDiagnosis, FirstFailureDiagnosis(scored(3, 2, 0)))
	require.Equal(testInstance, observabilityFailureDiagnosis, FirstFailureDiagnosis(scored(3, 3, 1)))
	require.Equal(testInstance, moderateLoadDiagnosis, FirstFailureDiagnosis(scored(3, 3, 3)))
}

func TestSummarizeTotalsCategories(testInstance *testing.T) {
	categories := []Category{
		{Identifier: CategoryIdentityAccess, Score: 4.5, Maximum: 5},
		{Identifier: CategorySecretsConfig, Score: 2, Maximum: 5},
	}
	issues := IssueCollector{Improvements: []string{"Add a .env.example listing every required variable"}}

	report := Summarize(categories, issues)

	require.Equal(testInstance, 6.5, report.TotalScore)
	require.Equal(testInstance, 10.0, report.MaximumScore)
	require.Equal(testInstance, TierPrototype, report.Tier)
	require.Equal(testInstance, CategorySecretsConfig, report.WeakestCategory.Identifier)
	require.Equal(testInstance, issues, report.Issues)
}
