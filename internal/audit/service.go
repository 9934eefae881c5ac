package audit

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/readiness/internal/healthprobe"
)

const (
	notRepositoryWarningConstant = "repository path is not a git work tree; tracked-file checks will find no evidence"
	categoryEvaluatedMessage     = "category evaluated"
	auditCompletedMessage        = "audit completed"
	reportRenderErrorTemplate    = "unable to write readiness report: %w"
	logFieldRepositoryPath       = "repository_path"
	logFieldCategory             = "category"
	logFieldScore                = "score"
	logFieldTotalScore           = "total_score"
	logFieldTier                 = "tier"
	logFieldCriticalBlockers     = "critical_blockers"
	logFieldPublicLaunchBlockers = "public_launch_blockers"
	logFieldRuntimeStatus        = "runtime_status"
)

// Service runs the category checks and the runtime probe and assembles the report.
type Service struct {
	inspector RepositoryInspector
	prober    RuntimeProber
	renderer  Renderer
	checks    []CategoryCheck
	logger    *zap.Logger
}

// NewService constructs a Service. A nil checks slice selects DefaultCategoryChecks.
func NewService(inspector RepositoryInspector, prober RuntimeProber, renderer Renderer, checks []CategoryCheck, logger *zap.Logger) *Service {
	if len(checks) == 0 {
		checks = DefaultCategoryChecks()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		inspector: inspector,
		prober:    prober,
		renderer:  renderer,
		checks:    checks,
		logger:    logger,
	}
}

// Audit evaluates every category concurrently with the runtime probe. Results are merged
// in check order, so the report does not depend on scheduling.
func (service *Service) Audit(executionContext context.Context, options CommandOptions) (Report, error) {
	if !service.inspector.IsRepository(executionContext) {
		service.logger.Warn(notRepositoryWarningConstant, zap.String(logFieldRepositoryPath, options.RepositoryPath))
	}

	checkResults := make([]CheckResult, len(service.checks))
	runtimeResult := healthprobe.Result{Status: healthprobe.StatusSkipped}

	group, groupContext := errgroup.WithContext(executionContext)
	for checkIndex, check := range service.checks {
		group.Go(func() error {
			checkResults[checkIndex] = check(groupContext, service.inspector, options.Profile)
			return nil
		})
	}
	if service.prober != nil {
		group.Go(func() error {
			runtimeResult = service.prober.Probe(groupContext, options.DeploymentURL)
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return Report{}, waitError
	}

	categories := make([]Category, 0, len(checkResults))
	issues := IssueCollector{}
	for _, checkResult := range checkResults {
		service.logger.Debug(
			categoryEvaluatedMessage,
			zap.String(logFieldCategory, string(checkResult.Category.Identifier)),
			zap.Float64(logFieldScore, checkResult.Category.Score),
		)
		categories = append(categories, checkResult.Category)
		issues.Merge(checkResult.Issues)
	}

	report := Summarize(categories, issues)
	report.RepositoryPath = options.RepositoryPath
	report.Profile = options.Profile
	report.Runtime = runtimeResult
	if origin, found := service.inspector.OriginRemote(executionContext); found {
		report.Origin = origin.String()
	}

	service.logger.Info(
		auditCompletedMessage,
		zap.Float64(logFieldTotalScore, report.TotalScore),
		zap.String(logFieldTier, string(report.Tier)),
		zap.Int(logFieldCriticalBlockers, len(report.Issues.CriticalBlockers)),
		zap.Int(logFieldPublicLaunchBlockers, len(report.Issues.PublicLaunchBlockers)),
		zap.String(logFieldRuntimeStatus, string(report.Runtime.Status)),
	)
	return report, nil
}

// Run audits the repository and renders the report to writer.
func (service *Service) Run(executionContext context.Context, options CommandOptions, writer io.Writer) error {
	report, auditError := service.Audit(executionContext, options)
	if auditError != nil {
		return auditError
	}
	if service.renderer == nil {
		return ErrRendererNotConfigured
	}
	if renderError := service.renderer.Render(writer, report); renderError != nil {
		return fmt.Errorf(reportRenderErrorTemplate, renderError)
	}
	return nil
}
