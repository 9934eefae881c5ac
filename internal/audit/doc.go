// Package audit scores a repository's production readiness.
//
// Ten category checks gather heuristic evidence through a RepositoryInspector,
// each returning its category score together with the blockers and
// improvements it raised. Service runs the checks alongside the runtime
// probe, Summarize classifies the total on the readiness ladder, and
// CommandBuilder wires the whole audit into a Cobra command.
package audit
