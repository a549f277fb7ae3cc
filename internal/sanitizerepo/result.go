package sanitizerepo

import "github.com/temirov/sanitize-repo/internal/gitrepo"

// ResultName identifies results produced by the repo command.
const ResultName = "sanitize-repo"

// Status reports whether an invocation completed.
type Status string

const (
	// StatusOK marks a completed sanitization.
	StatusOK Status = "OK"
	// StatusError marks an invocation refused because the repository is not clean.
	StatusError Status = "ERROR"
)

// Result is the outcome of a sanitization that did not fail with an error.
type Result struct {
	Name    string
	Message string
	Status  Status
	Verdict gitrepo.Verdict
	// CommitHash is the new tip of the target branch; empty in dry run mode.
	CommitHash string
}

func newOKResult(verdict gitrepo.Verdict, commitHash string) Result {
	return Result{Name: ResultName, Status: StatusOK, Verdict: verdict, CommitHash: commitHash}
}

func newRefusedResult(report gitrepo.StateReport) Result {
	return Result{Name: ResultName, Status: StatusError, Message: report.Reason(), Verdict: report.Verdict}
}
