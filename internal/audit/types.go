package audit

import (
	"strings"

	"github.com/temirov/readiness/internal/healthprobe"
)

// CategoryIdentifier names one of the ten readiness categories.
type CategoryIdentifier string

// Readiness categories in report order.
const (
	CategoryIdentityAccess     CategoryIdentifier = CategoryIdentifier("identity_access")
	CategorySecretsConfig      CategoryIdentifier = CategoryIdentifier("secrets_config")
	CategoryDataSafety         CategoryIdentifier = CategoryIdentifier("data_safety")
	CategoryReliability        CategoryIdentifier = CategoryIdentifier("reliability")
	CategoryObservability      CategoryIdentifier = CategoryIdentifier("observability")
	CategoryContinuousDelivery CategoryIdentifier = CategoryIdentifier("ci_cd")
	CategorySecurityHardening  CategoryIdentifier = CategoryIdentifier("security_hardening")
	CategoryTesting            CategoryIdentifier = CategoryIdentifier("testing")
	CategoryPerformance        CategoryIdentifier = CategoryIdentifier("performance")
	CategoryDocumentation      CategoryIdentifier = CategoryIdentifier("documentation")
)

// CategoryMaximumScore is the ceiling of every category.
const CategoryMaximumScore = 5.0

var categoryDisplayNames = map[CategoryIdentifier]string{
	CategoryIdentityAccess:     "Identity & Access",
	CategorySecretsConfig:      "Secrets & Config Hygiene",
	CategoryDataSafety:         "Data Safety",
	CategoryReliability:        "Reliability",
	CategoryObservability:      "Observability",
	CategoryContinuousDelivery: "CI/CD",
	CategorySecurityHardening:  "Security Hardening",
	CategoryTesting:            "Testing",
	CategoryPerformance:        "Performance",
	CategoryDocumentation:      "Documentation",
}

// DisplayName returns the human readable category label.
func (identifier CategoryIdentifier) DisplayName() string {
	if displayName, exists := categoryDisplayNames[identifier]; exists {
		return displayName
	}
	return string(identifier)
}

// Category is the scored outcome of one category check. Findings keep insertion order.
type Category struct {
	Identifier CategoryIdentifier
	Score      float64
	Maximum    float64
	Findings   []string
}

// Name returns the display name of the category.
func (category Category) Name() string {
	return category.Identifier.DisplayName()
}

// IssueCollector accumulates blockers and improvements in insertion order.
// Entries are never deduplicated or re-sorted.
type IssueCollector struct {
	CriticalBlockers     []string
	PublicLaunchBlockers []string
	Improvements         []string
}

// AddCritical records a blocker that prevents any use.
func (collector *IssueCollector) AddCritical(reason string) {
	collector.CriticalBlockers = append(collector.CriticalBlockers, reason)
}

// AddPublicLaunch records a blocker that prevents public release.
func (collector *IssueCollector) AddPublicLaunch(reason string) {
	collector.PublicLaunchBlockers = append(collector.PublicLaunchBlockers, reason)
}

// AddImprovement records a non-blocking recommendation.
func (collector *IssueCollector) AddImprovement(recommendation string) {
	collector.Improvements = append(collector.Improvements, recommendation)
}

// Merge appends every entry of other after the existing ones.
func (collector *IssueCollector) Merge(other IssueCollector) {
	collector.CriticalBlockers = append(collector.CriticalBlockers, other.CriticalBlockers...)
	collector.PublicLaunchBlockers = append(collector.PublicLaunchBlockers, other.PublicLaunchBlockers...)
	collector.Improvements = append(collector.Improvements, other.Improvements...)
}

// CheckResult is what a category check returns: its category plus the issues it raised.
type CheckResult struct {
	Category Category
	Issues   IssueCollector
}

// RiskProfile carries the declared data sensitivity of the audited system.
type RiskProfile struct {
	IntendedAudience string
	HandlesPII       bool
	HandlesPayments  bool
	HandlesSecrets   bool
}

// CommandOptions captures the resolved inputs of one audit run.
type CommandOptions struct {
	RepositoryPath string
	DeploymentURL  string
	Profile        RiskProfile
}

// ReadinessTier is one rung of the readiness ladder.
type ReadinessTier string

// Readiness tiers from best to worst.
const (
	TierProductionReady    ReadinessTier = ReadinessTier("Production Ready")
	TierPublicBetaReady    ReadinessTier = ReadinessTier("Public Beta Ready")
	TierEmployeePilotReady ReadinessTier = ReadinessTier("Employee Pilot Ready (with conditions)")
	TierDevPreview         ReadinessTier = ReadinessTier("Dev Preview")
	TierPrototype          ReadinessTier = ReadinessTier("Prototype")
)

// Report is the immutable aggregate of a single audit run.
type Report struct {
	RepositoryPath   string
	Origin           string
	Profile          RiskProfile
	Categories       []Category
	Issues           IssueCollector
	TotalScore       float64
	MaximumScore     float64
	Tier             ReadinessTier
	SafeForEmployees bool
	SafeForCustomers bool
	WeakestCategory  Category
	FirstFailure     string
	Runtime          healthprobe.Result
}

// CategoryByIdentifier looks up a category in the report.
func (report Report) CategoryByIdentifier(identifier CategoryIdentifier) (Category, bool) {
	for _, category := range report.Categories {
		if category.Identifier == identifier {
			return category, true
		}
	}
	return Category{}, false
}

// isEnabledFlag reports whether a risk flag value is the literal "true".
func isEnabledFlag(value string) bool {
	return strings.TrimSpace(value) == "true"
}
