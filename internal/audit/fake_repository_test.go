package audit

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/temirov/readiness/internal/gitrepo"
)

type fakeFile struct {
	path    string
	content string
}

// fakeRepository answers inspector queries from an in-memory file list using Go regular
// expressions, mirroring git ls-files and git grep -E closely enough for the checks.
// Ignore rules are not evaluated; ignored paths are declared with withIgnoredPath.
type fakeRepository struct {
	files          []fakeFile
	ignoredPaths   map[string]struct{}
	secretsInLog   bool
	notARepository bool
	origin         string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{ignoredPaths: map[string]struct{}{}}
}

func (repository *fakeRepository) withFile(path string, content string) *fakeRepository {
	repository.files = append(repository.files, fakeFile{path: path, content: content})
	return repository
}

func (repository *fakeRepository) withIgnoredPath(path string) *fakeRepository {
	repository.ignoredPaths[path] = struct{}{}
	return repository
}

func (repository *fakeRepository) withoutFile(path string) *fakeRepository {
	remaining := make([]fakeFile, 0, len(repository.files))
	for _, file := range repository.files {
		if file.path != path {
			remaining = append(remaining, file)
		}
	}
	repository.files = remaining
	return repository
}

func (repository *fakeRepository) IsRepository(executionContext context.Context) bool {
	return !repository.notARepository
}

func (repository *fakeRepository) ListTrackedFiles(executionContext context.Context, pathPattern *regexp.Regexp, scope string) []string {
	matches := make([]string, 0)
	for _, file := range repository.files {
		if len(scope) > 0 && !strings.HasPrefix(file.path, strings.TrimSuffix(scope, "/")+"/") {
			continue
		}
		if pathPattern != nil && !pathPattern.MatchString(file.path) {
			continue
		}
		matches = append(matches, file.path)
		if len(matches) == gitrepo.MaximumTrackedFileResults {
			break
		}
	}
	return matches
}

func (repository *fakeRepository) SearchContent(executionContext context.Context, query gitrepo.ContentQuery) []string {
	expression := query.Pattern
	if query.IgnoreCase {
		expression = "(?i)" + expression
	}
	contentPattern := regexp.MustCompile(expression)

	lines := make([]string, 0)
	for _, file := range repository.files {
		if !matchesAnyPathspec(file.path, query.Pathspecs) {
			continue
		}
		for _, line := range strings.Split(file.content, "\n") {
			if !contentPattern.MatchString(line) {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s:%s", file.path, line))
			if len(lines) == gitrepo.MaximumContentSearchResults {
				return lines
			}
		}
	}
	return lines
}

func (repository *fakeRepository) FileExists(relativePath string) bool {
	_, found := repository.ReadFile(relativePath)
	return found
}

func (repository *fakeRepository) ReadFile(relativePath string) (string, bool) {
	for _, file := range repository.files {
		if file.path == relativePath {
			return file.content, true
		}
	}
	return "", false
}

func (repository *fakeRepository) SecretsInHistory(executionContext context.Context) bool {
	return repository.secretsInLog
}

func (repository *fakeRepository) IsIgnored(executionContext context.Context, relativePath string) bool {
	_, ignored := repository.ignoredPaths[relativePath]
	return ignored
}

func (repository *fakeRepository) OriginRemote(executionContext context.Context) (gitrepo.RemoteURL, bool) {
	if len(repository.origin) == 0 {
		return gitrepo.RemoteURL{}, false
	}
	remote, parseError := gitrepo.ParseRemoteURL(repository.origin)
	return remote, parseError == nil
}

// matchesAnyPathspec treats "*" as matching any run of characters including "/", as git pathspecs do.
func matchesAnyPathspec(path string, pathspecs []string) bool {
	if len(pathspecs) == 0 {
		return true
	}
	for _, pathspec := range pathspecs {
		globExpression := "^" + strings.ReplaceAll(regexp.QuoteMeta(pathspec), `\*`, `.*`) + "$"
		if regexp.MustCompile(globExpression).MatchString(path) {
			return true
		}
	}
	return false
}

func repeatLine(line string, count int) string {
	lines := make([]string, 0, count)
	for lineIndex := 0; lineIndex < count; lineIndex++ {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

const wellDocumentedReadme = `# Storefront

Storefront is the customer-facing web shop. It serves the catalogue, the cart, and checkout
for every region and is deployed to production from the main branch.

## Getting started

Copy .env.example to .env and fill in each environment variable before starting the server.
The application refuses to boot when a required variable is missing.

## Operations

Nightly database backup jobs run at 02:00 UTC and are retained for thirty days. Restores are
rehearsed every quarter. To deploy, merge to main; the pipeline builds the container image and
promotes it once smoke tests pass against staging.
`

const serverSource = `import pino from 'pino';
import helmet from 'helmet';
import cors from 'cors';
import rateLimit from 'express-rate-limit';
import compression from 'compression';
import { z } from 'zod';
import Redis from 'ioredis';
import CircuitBreaker from 'opossum';
import * as Sentry from '@sentry/node';
import client from 'prom-client';
import { SecretsManagerClient } from '@aws-sdk/client-secrets-manager';

const logger = pino();
const cache = new Redis(process.env.REDIS_URL);
app.use(helmet());
app.use(cors({ origin: process.env.ALLOWED_ORIGIN }));
app.use(rateLimit({ windowMs: 60000, max: 100 }));
app.use(compression());
app.get('/healthz', (request, response) => response.send('ok'));
const pageSize = 50;
const breaker = new CircuitBreaker(callUpstream, { resetAfter: 3000 });
await prisma.$transaction([debit, credit]);
const retryPolicy = { attempts: 3, backoff: 'exponential' };
const clean = sanitizeHtml(input);
`

const encryptionSource = `import bcrypt from 'bcrypt';
export const hashPassword = (plain) => bcrypt.hash(plain, 12);
`

// wellPreparedRepository builds a repository that satisfies every signal except the
// identity category's perfect score; withEncryption controls the Data Safety encryption signal.
func wellPreparedRepository(withEncryption bool) *fakeRepository {
	repository := newFakeRepository().
		withFile("README.md", wellDocumentedReadme).
		withFile("CONTRIBUTING.md", "# Contributing\n").
		withFile(".env.example", "DATABASE_URL=\nREDIS_URL=\n").
		withFile(".gitignore", "node_modules\n.env\n").
		withIgnoredPath(".env").
		withFile("Dockerfile", "FROM node:20-alpine\n").
		withFile(".github/dependabot.yml", "version: 2\n").
		withFile(".github/workflows/ci.yml", "name: ci\non: [push]\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - uses: actions/checkout@v4\n      - run: npm ci\n      - run: npm run lint\n      - run: npm test\n      - run: npx vercel deploy --prod\n").
		withFile("package.json", `{"name":"storefront","scripts":{"test":"jest --coverage","lint":"eslint ."}}`).
		withFile("docs/openapi.yaml", "openapi: 3.0.0\n").
		withFile("docs/runbook.md", "# Incident runbook\n").
		withFile("prisma/migrations/001_init/migration.sql", "CREATE INDEX idx_users_email ON users(email);\n").
		withFile("src/auth/login.ts", "export async function authenticate(credentials) {\n  return sessions.start(credentials);\n}\n").
		withFile("src/auth/roles.ts", repeatLine("if (user.role !== required) throw new Forbidden();", 6)).
		withFile("src/handlers.ts", repeatLine("  } catch (error) {", 11)).
		withFile("src/http.ts", repeatLine("const timeout = 5000;", 6)).
		withFile("src/server.ts", serverSource)

	if withEncryption {
		repository.withFile("src/crypto/hash.ts", encryptionSource)
	}

	for testIndex := 0; testIndex < 22; testIndex++ {
		repository.withFile(fmt.Sprintf("test/unit/module_%02d.test.ts", testIndex), "describe('module', () => { it('works', () => {}); });\n")
	}
	repository.withFile("test/integration/api.test.ts", "import request from 'supertest';\n")
	repository.withFile("test/smoke/health.test.ts", "it('responds on /healthz', async () => {});\n")
	return repository
}
