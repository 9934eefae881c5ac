package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/temirov/readiness/internal/audit"
)

const (
	reportTitleConstant           = "PRODUCTION READINESS AUDIT"
	sectionHeadingTemplate        = "== %s =="
	scorecardSectionTitle         = "Scorecard"
	findingsSectionTitle          = "Detailed Findings"
	blockersSectionTitle          = "Blockers"
	verdictSectionTitle           = "Verdict"
	actionPlanSectionTitle        = "Action Plan"
	executiveSummarySectionTitle  = "Executive Summary"
	repositoryLineTemplate        = "Repository: %s"
	originLineTemplate            = "Origin: %s"
	audienceLineTemplate          = "Intended audience: %s"
	unspecifiedAudienceConstant   = "Not specified"
	riskFlagLineTemplate          = "%s: %s"
	categoryHeadingTemplate       = "%s [%s/%s]"
	runtimeHeadingTemplate        = "Runtime Health [%s]"
	indentedLineTemplate          = "  %s"
	bulletLineTemplate            = "  - %s"
	numberedLineTemplate          = "%d. %s"
	criticalBlockersHeading       = "Critical blockers:"
	publicLaunchBlockersHeading   = "Public launch blockers:"
	noneIdentifiedConstant        = "None identified"
	noImprovementsConstant        = "No further improvements recommended"
	scoreLineTemplate             = "Score: %s/%s"
	tierLineTemplate              = "Tier: %s"
	scoreBandsHeading             = "Score bands:"
	scoreBandTemplate             = "  %-6s %s"
	scoreBandRangeTemplate        = "%d-%d"
	safeForEmployeesQuestion      = "Safe for employees?"
	safeForCustomersQuestion      = "Safe for customers?"
	weakestAreaQuestion           = "Weakest area:"
	firstFailureQuestion          = "What breaks first:"
	answerLineTemplate            = "%s %s"
	weakestAreaAnswerTemplate     = "%s (%s/%s)"
	affirmativeAnswerConstant     = "Yes"
	negativeAnswerConstant        = "No"
	scorecardCategoryHeader       = "Category"
	scorecardScoreHeader          = "Score"
	scorecardMaximumHeader        = "Max"
	scorecardTotalLabel           = "Total"
	reportWriteErrorTemplate      = "unable to write report: %w"
	actionPlanImprovementLimit    = 5
	scoreBandCeiling              = 50
	handlesPIILabelConstant       = "Handles PII"
	handlesPaymentsLabelConstant  = "Handles payments"
	handlesSecretsLabelConstant   = "Handles secrets"
	scoreFormatPrecisionConstant  = -1
	scoreFormatBitSizeConstant    = 64
	scoreFormatVerbConstant       = 'f'
	sectionSeparatorConstant      = "\n"
	lineTerminatorConstant        = "\n"
	scorecardScoreColumnNumber    = 2
	scorecardMaximumColumnNumber  = 3
	runtimeStatusUnknownConstant  = "SKIPPED"
	scoreBandOpenEndedLowerBound  = 0
	scoreBandUpperBoundAdjustment = 1
)

// Renderer writes audit reports as text.
type Renderer struct{}

// NewRenderer constructs a text Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes the header followed by the six report sections.
func (renderer *Renderer) Render(writer io.Writer, report audit.Report) error {
	document := &reportDocument{}

	document.header(report)
	document.scorecard(report)
	document.findings(report)
	document.blockers(report)
	document.verdict(report)
	document.actionPlan(report)
	document.executiveSummary(report)

	if _, writeError := io.WriteString(writer, document.String()); writeError != nil {
		return fmt.Errorf(reportWriteErrorTemplate, writeError)
	}
	return nil
}

type reportDocument struct {
	strings.Builder
}

func (document *reportDocument) line(format string, arguments ...any) {
	document.WriteString(fmt.Sprintf(format, arguments...))
	document.WriteString(lineTerminatorConstant)
}

func (document *reportDocument) section(title string) {
	document.WriteString(sectionSeparatorConstant)
	document.line(sectionHeadingTemplate, title)
}

func (document *reportDocument) header(report audit.Report) {
	document.line(reportTitleConstant)
	document.line(repositoryLineTemplate, report.RepositoryPath)
	if len(report.Origin) > 0 {
		document.line(originLineTemplate, report.Origin)
	}

	audience := report.Profile.IntendedAudience
	if len(audience) == 0 {
		audience = unspecifiedAudienceConstant
	}
	document.line(audienceLineTemplate, audience)
	document.line(riskFlagLineTemplate, handlesPIILabelConstant, answer(report.Profile.HandlesPII))
	document.line(riskFlagLineTemplate, handlesPaymentsLabelConstant, answer(report.Profile.HandlesPayments))
	document.line(riskFlagLineTemplate, handlesSecretsLabelConstant, answer(report.Profile.HandlesSecrets))
}

func (document *reportDocument) scorecard(report audit.Report) {
	document.section(scorecardSectionTitle)

	scorecard := table.NewWriter()
	scorecard.SetStyle(table.StyleLight)
	scorecard.AppendHeader(table.Row{scorecardCategoryHeader, scorecardScoreHeader, scorecardMaximumHeader})
	for _, category := range report.Categories {
		scorecard.AppendRow(table.Row{category.Name(), formatScore(category.Score), formatScore(category.Maximum)})
	}
	scorecard.AppendFooter(table.Row{scorecardTotalLabel, formatScore(report.TotalScore), formatScore(report.MaximumScore)})
	scorecard.SetColumnConfigs([]table.ColumnConfig{
		{Number: scorecardScoreColumnNumber, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: scorecardMaximumColumnNumber, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	document.WriteString(scorecard.Render())
	document.WriteString(lineTerminatorConstant)
}

func (document *reportDocument) findings(report audit.Report) {
	document.section(findingsSectionTitle)
	for _, category := range report.Categories {
		document.line(categoryHeadingTemplate, category.Name(), formatScore(category.Score), formatScore(category.Maximum))
		for _, finding := range category.Findings {
			document.line(indentedLineTemplate, finding)
		}
	}

	runtimeStatus := string(report.Runtime.Status)
	if len(runtimeStatus) == 0 {
		runtimeStatus = runtimeStatusUnknownConstant
	}
	document.line(runtimeHeadingTemplate, runtimeStatus)
	for _, finding := range report.Runtime.Findings {
		document.line(indentedLineTemplate, finding)
	}
}

func (document *reportDocument) blockers(report audit.Report) {
	document.section(blockersSectionTitle)
	document.line(criticalBlockersHeading)
	document.bulletList(report.Issues.CriticalBlockers)
	document.line(publicLaunchBlockersHeading)
	document.bulletList(report.Issues.PublicLaunchBlockers)
}

func (document *reportDocument) bulletList(entries []string) {
	if len(entries) == 0 {
		document.line(bulletLineTemplate, noneIdentifiedConstant)
		return
	}
	for _, entry := range entries {
		document.line(bulletLineTemplate, entry)
	}
}

func (document *reportDocument) verdict(report audit.Report) {
	document.section(verdictSectionTitle)
	document.line(scoreLineTemplate, formatScore(report.TotalScore), formatScore(report.MaximumScore))
	document.line(tierLineTemplate, report.Tier)
	document.line(scoreBandsHeading)

	upperBound := scoreBandCeiling
	for _, threshold := range audit.TierThresholds {
		lowerBound := int(threshold.Minimum)
		if lowerBound < scoreBandOpenEndedLowerBound {
			lowerBound = scoreBandOpenEndedLowerBound
		}
		document.line(scoreBandTemplate, fmt.Sprintf(scoreBandRangeTemplate, lowerBound, upperBound), threshold.Tier)
		upperBound = lowerBound - scoreBandUpperBoundAdjustment
	}
}

func (document *reportDocument) actionPlan(report audit.Report) {
	document.section(actionPlanSectionTitle)
	improvements := report.Issues.Improvements
	if len(improvements) == 0 {
		document.line(noImprovementsConstant)
		return
	}
	if len(improvements) > actionPlanImprovementLimit {
		improvements = improvements[:actionPlanImprovementLimit]
	}
	for improvementIndex, improvement := range improvements {
		document.line(numberedLineTemplate, improvementIndex+1, improvement)
	}
}

func (document *reportDocument) executiveSummary(report audit.Report) {
	document.section(executiveSummarySectionTitle)
	document.line(answerLineTemplate, safeForEmployeesQuestion, answer(report.SafeForEmployees))
	document.line(answerLineTemplate, safeForCustomersQuestion, answer(report.SafeForCustomers))

	weakest := report.WeakestCategory
	document.line(answerLineTemplate, weakestAreaQuestion, fmt.Sprintf(weakestAreaAnswerTemplate, weakest.Name(), formatScore(weakest.Score), formatScore(weakest.Maximum)))
	document.line(answerLineTemplate, firstFailureQuestion, report.FirstFailure)
}

func answer(value bool) string {
	if value {
		return affirmativeAnswerConstant
	}
	return negativeAnswerConstant
}

// formatScore prints the shortest exact decimal: 5, 4.5, 49.5.
func formatScore(score float64) string {
	return strconv.FormatFloat(score, scoreFormatVerbConstant, scoreFormatPrecisionConstant, scoreFormatBitSizeConstant)
}
