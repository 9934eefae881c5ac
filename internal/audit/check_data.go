package audit

import (
	"context"
	"fmt"
	"regexp"
)

var migrationPathPattern = regexp.MustCompile(`(?i)(migrat|alembic)`)

const (
	inputValidationPattern = `(zod|joi|yup|class-validator|express-validator|pydantic|marshmallow|cerberus|ajv|validator/v[0-9]|go-playground/validator|validates[[:space:]]|@Valid)`
	encryptionPattern      = `(bcrypt|argon2|scrypt|pbkdf2|encrypt|cipher|crypto)`
	backupPattern          = `(backup|pg_dump|mysqldump|mongodump|snapshot|point[-_ ]in[-_ ]time)`
	transactionPattern     = `(transaction|\$transaction|atomic|BEGIN;|begin_nested|\.begin\()`
	paymentProviderPattern = `(stripe|paypal|braintree|adyen|square|paddle|lemonsqueezy|razorpay|mollie)`
)

func checkDataSafety(executionContext context.Context, inspector RepositoryInspector, profile RiskProfile) CheckResult {
	evaluation := newCategoryEvaluation(CategoryDataSafety)

	migrationFiles := inspector.ListTrackedFiles(executionContext, migrationPathPattern, "")
	if len(migrationFiles) > 0 {
		evaluation.pass(1, fmt.Sprintf("Database migrations tracked (%d files)", len(migrationFiles)))
	} else {
		evaluation.warn("No database migrations found").
			improve("Manage schema changes with versioned migrations")
	}

	if len(searchSource(executionContext, inspector, inputValidationPattern)) > 0 {
		evaluation.pass(1, "Input validation library in use")
	} else {
		evaluation.fail("No input validation detected").
			publicLaunch("User input is not validated before it reaches storage")
	}

	if len(searchSource(executionContext, inspector, encryptionPattern)) > 0 {
		evaluation.pass(1, "Encryption or password hashing detected")
	} else if profile.HandlesPII {
		evaluation.fail("No encryption detected while handling PII").
			critical("Handles PII without encryption")
	} else {
		evaluation.warn("No encryption detected").
			improve("Encrypt sensitive data at rest and hash stored passwords")
	}

	if len(searchEverywhere(executionContext, inspector, backupPattern)) > 0 {
		evaluation.pass(1, "Backup strategy referenced")
	} else {
		evaluation.fail("No backup strategy found").
			publicLaunch("No documented backup and restore strategy")
	}

	if len(searchSource(executionContext, inspector, transactionPattern)) > 0 {
		evaluation.pass(1, "Database transactions in use")
	} else {
		evaluation.warn("No database transactions detected").
			improve("Wrap multi-step writes in transactions")
	}

	paymentReferences := searchSource(executionContext, inspector, paymentProviderPattern)
	switch {
	case len(paymentReferences) > 0:
		evaluation.pass(0, "Payment provider integration detected")
	case profile.HandlesPayments:
		evaluation.fail("Handles payments without a recognized payment provider").
			critical("Handles payments without a PCI-compliant payment provider")
	}

	return evaluation.result()
}
