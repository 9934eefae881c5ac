package healthprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/readiness/internal/execshell"
)

// Status is the terminal state of a probe.
type Status string

// Probe states.
const (
	StatusSkipped   Status = Status("SKIPPED")
	StatusCompleted Status = Status("COMPLETED")
	StatusFailed    Status = Status("FAILED")
)

const (
	// RequestTimeout bounds each of the two network calls a probe performs.
	RequestTimeout = 10 * time.Second

	slowResponseMilliseconds     = 3000
	elevatedResponseMilliseconds = 1000
	maximumDrainedBodyBytes      = 1 << 20

	passGlyphConstant = "✅"
	failGlyphConstant = "❌"
	warnGlyphConstant = "⚠️"

	skippedFindingConstant              = warnGlyphConstant + " Runtime health check skipped: no deployment URL configured"
	invalidURLFindingTemplate           = failGlyphConstant + " Invalid deployment URL: %s"
	unreachableFindingTemplate          = failGlyphConstant + " Deployment unreachable: %v"
	accessibleFindingTemplate           = passGlyphConstant + " Deployment accessible (HTTP %d)"
	redirectFindingTemplate             = warnGlyphConstant + " Deployment redirects (HTTP %d)"
	errorStatusFindingTemplate          = failGlyphConstant + " Deployment returned an error (HTTP %d)"
	slowResponseFindingTemplate         = failGlyphConstant + " Slow response time: %dms"
	elevatedResponseFindingTemplate     = warnGlyphConstant + " Elevated response time: %dms"
	goodResponseFindingTemplate         = passGlyphConstant + " Good response time: %dms"
	headerPresentFindingTemplate        = passGlyphConstant + " %s header present"
	headerMissingFindingTemplate        = failGlyphConstant + " %s header missing"
	headerInspectionFailedTemplate      = warnGlyphConstant + " Unable to inspect security headers: %v"
	invalidURLSchemeMessageConstant     = "scheme must be http or https"
	invalidURLHostMessageConstant       = "host is required"
	invalidURLWhitespaceMessageConstant = "whitespace is not allowed"
	invalidURLErrorTemplateConstant     = "invalid deployment url %s: %s"
	httpSchemeConstant                  = "http"
	httpsSchemeConstant                 = "https"
	logMessageProbeStartedConstant      = "probing deployment"
	logMessageProbeCompletedConstant    = "deployment probe completed"
	logMessageProbeFailedConstant       = "deployment probe failed"
	logMessageProbeSkippedConstant      = "deployment probe skipped"
	logFieldURLConstant                 = "deployment_url"
	logFieldStatusCodeConstant          = "status_code"
	logFieldLatencyConstant             = "latency"
	logFieldReasonConstant              = "reason"
)

// SecurityHeaders are reported individually as present or missing.
var SecurityHeaders = []string{"X-Frame-Options", "Strict-Transport-Security", "Content-Security-Policy"}

// Result is the outcome of probing a deployment.
type Result struct {
	Status     Status
	URL        string
	StatusCode int
	Latency    time.Duration
	Findings   []string
}

// Clock abstracts time for deterministic latency measurements.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// InvalidURLError describes a deployment URL rejected before any request is made.
type InvalidURLError struct {
	URL    string
	Reason string
}

// Error describes the rejected URL.
func (invalidError InvalidURLError) Error() string {
	return fmt.Sprintf(invalidURLErrorTemplateConstant, execshell.QuoteArgument(invalidError.URL), invalidError.Reason)
}

// Prober performs the runtime health check.
type Prober struct {
	statusClient *http.Client
	headerClient *http.Client
	clock        Clock
	logger       *zap.Logger
}

// NewProber builds a Prober from a base client. The status request never follows redirects so
// 3xx responses stay visible; the header request follows them to the final page.
func NewProber(baseClient *http.Client, clock Clock, logger *zap.Logger) *Prober {
	if baseClient == nil {
		baseClient = &http.Client{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	statusClient := *baseClient
	statusClient.Timeout = RequestTimeout
	statusClient.CheckRedirect = func(request *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	headerClient := *baseClient
	headerClient.Timeout = RequestTimeout

	return &Prober{
		statusClient: &statusClient,
		headerClient: &headerClient,
		clock:        clock,
		logger:       logger,
	}
}

// ValidateDeploymentURL accepts absolute http and https URLs with a host.
func ValidateDeploymentURL(rawURL string) (*url.URL, error) {
	if strings.ContainsAny(rawURL, " \t\r\n") {
		return nil, InvalidURLError{URL: rawURL, Reason: invalidURLWhitespaceMessageConstant}
	}
	parsedURL, parseError := url.ParseRequestURI(rawURL)
	if parseError != nil {
		return nil, InvalidURLError{URL: rawURL, Reason: parseError.Error()}
	}
	if parsedURL.Scheme != httpSchemeConstant && parsedURL.Scheme != httpsSchemeConstant {
		return nil, InvalidURLError{URL: rawURL, Reason: invalidURLSchemeMessageConstant}
	}
	if len(parsedURL.Hostname()) == 0 {
		return nil, InvalidURLError{URL: rawURL, Reason: invalidURLHostMessageConstant}
	}
	return parsedURL, nil
}

// Probe checks the deployment. An empty or invalid URL is skipped without network access,
// a transport failure on the status request fails the probe, and any HTTP response completes it.
func (prober *Prober) Probe(executionContext context.Context, deploymentURL string) Result {
	trimmedURL := strings.TrimSpace(deploymentURL)
	if len(trimmedURL) == 0 {
		prober.logger.Debug(logMessageProbeSkippedConstant)
		return Result{Status: StatusSkipped, Findings: []string{skippedFindingConstant}}
	}

	targetURL, validationError := ValidateDeploymentURL(trimmedURL)
	if validationError != nil {
		prober.logger.Warn(logMessageProbeSkippedConstant, zap.String(logFieldReasonConstant, validationError.Error()))
		return Result{
			Status:   StatusSkipped,
			URL:      trimmedURL,
			Findings: []string{fmt.Sprintf(invalidURLFindingTemplate, execshell.QuoteArgument(trimmedURL))},
		}
	}

	result := Result{URL: targetURL.String()}
	prober.logger.Info(logMessageProbeStartedConstant, zap.String(logFieldURLConstant, result.URL))

	statusCode, latency, statusError := prober.measureStatus(executionContext, result.URL)
	if statusError != nil {
		prober.logger.Warn(logMessageProbeFailedConstant, zap.String(logFieldURLConstant, result.URL), zap.Error(statusError))
		result.Status = StatusFailed
		result.Findings = []string{fmt.Sprintf(unreachableFindingTemplate, unwrapTransportError(statusError))}
		return result
	}

	result.Status = StatusCompleted
	result.StatusCode = statusCode
	result.Latency = latency
	result.Findings = append(result.Findings, describeStatus(statusCode), describeLatency(latency))
	result.Findings = append(result.Findings, prober.inspectHeaders(executionContext, result.URL)...)

	prober.logger.Info(
		logMessageProbeCompletedConstant,
		zap.String(logFieldURLConstant, result.URL),
		zap.Int(logFieldStatusCodeConstant, statusCode),
		zap.Duration(logFieldLatencyConstant, latency),
	)
	return result
}

func (prober *Prober) measureStatus(executionContext context.Context, targetURL string) (int, time.Duration, error) {
	request, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, targetURL, nil)
	if requestError != nil {
		return 0, 0, requestError
	}

	startedAt := prober.clock.Now()
	response, responseError := prober.statusClient.Do(request)
	if responseError != nil {
		return 0, 0, responseError
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maximumDrainedBodyBytes))
	latency := prober.clock.Now().Sub(startedAt)

	return response.StatusCode, latency, nil
}

func (prober *Prober) inspectHeaders(executionContext context.Context, targetURL string) []string {
	request, requestError := http.NewRequestWithContext(executionContext, http.MethodHead, targetURL, nil)
	if requestError != nil {
		return []string{fmt.Sprintf(headerInspectionFailedTemplate, requestError)}
	}

	response, responseError := prober.headerClient.Do(request)
	if responseError != nil {
		return []string{fmt.Sprintf(headerInspectionFailedTemplate, unwrapTransportError(responseError))}
	}
	defer response.Body.Close()

	findings := make([]string, 0, len(SecurityHeaders))
	for _, headerName := range SecurityHeaders {
		if len(response.Header.Get(headerName)) > 0 {
			findings = append(findings, fmt.Sprintf(headerPresentFindingTemplate, headerName))
			continue
		}
		findings = append(findings, fmt.Sprintf(headerMissingFindingTemplate, headerName))
	}
	return findings
}

func describeStatus(statusCode int) string {
	switch {
	case statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices:
		return fmt.Sprintf(accessibleFindingTemplate, statusCode)
	case statusCode >= http.StatusMultipleChoices && statusCode < http.StatusBadRequest:
		return fmt.Sprintf(redirectFindingTemplate, statusCode)
	default:
		return fmt.Sprintf(errorStatusFindingTemplate, statusCode)
	}
}

func describeLatency(latency time.Duration) string {
	milliseconds := latency.Round(time.Millisecond).Milliseconds()
	switch {
	case milliseconds > slowResponseMilliseconds:
		return fmt.Sprintf(slowResponseFindingTemplate, milliseconds)
	case milliseconds > elevatedResponseMilliseconds:
		return fmt.Sprintf(elevatedResponseFindingTemplate, milliseconds)
	default:
		return fmt.Sprintf(goodResponseFindingTemplate, milliseconds)
	}
}

// unwrapTransportError drops the "Get \"url\":" prefix added by net/http.
func unwrapTransportError(transportError error) error {
	var urlError *url.Error
	if errors.As(transportError, &urlError) && urlError.Err != nil {
		return urlError.Err
	}
	return transportError
}
