package mining

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harrison/mdtask/internal/search"
)

// Logger is the subset of the console logger the runner reports to.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
}

// Progress is told about each document as the runner reaches it.
type Progress interface {
	Step(path string)
	Complete(tasks int)
}

// DocumentFailure records a document that could not be mined completely.
type DocumentFailure struct {
	Path string
	Err  error
}

// RunResult summarises a run.
type RunResult struct {
	RunID     string
	Documents int
	Tasks     int
	Failures  []DocumentFailure
}

// Runner mines a list of documents one after another into a Session.
type Runner struct {
	searcher *search.Searcher
	matcher  *search.Matcher
	session  *Session
	logger   Logger
	progress Progress
}

// NewRunner creates a runner. logger may be nil.
func NewRunner(searcher *search.Searcher, matcher *search.Matcher, session *Session, logger Logger) *Runner {
	return &Runner{
		searcher: searcher,
		matcher:  matcher,
		session:  session,
		logger:   logger,
	}
}

// SetProgress attaches a progress reporter.
func (r *Runner) SetProgress(p Progress) {
	r.progress = p
}

// Run mines documents in order. Document scoped failures are recorded in the
// result and the run moves on; a write failure or cancellation stops the run
// and is returned together with the partial result.
func (r *Runner) Run(ctx context.Context, documents []string) (*RunResult, error) {
	result := &RunResult{RunID: uuid.New().String()}
	r.debug(fmt.Sprintf("run %s: mining %d documents (pattern %s, after context %d)",
		result.RunID, len(documents), r.matcher, r.searcher.AfterContext))

	for _, path := range documents {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if r.progress != nil {
			r.progress.Step(path)
		}

		engine := r.session.NewEngine()
		err := r.searcher.SearchPath(ctx, r.matcher, path, engine)
		result.Documents++
		result.Tasks += engine.Tasks()

		if err == nil {
			r.debug(fmt.Sprintf("run %s: %s: %d tasks", result.RunID, path, engine.Tasks()))
			continue
		}
		if !IsDocumentScoped(err) {
			return result, err
		}

		result.Failures = append(result.Failures, DocumentFailure{Path: path, Err: err})
		if r.logger != nil {
			r.logger.LogWarn(fmt.Sprintf("skipping rest of %s: %v", path, err))
		}
	}

	if r.progress != nil {
		r.progress.Complete(result.Tasks)
	}
	if r.logger != nil {
		r.logger.LogInfo(fmt.Sprintf("mined %d tasks from %d documents", result.Tasks, result.Documents))
	}
	return result, nil
}

func (r *Runner) debug(message string) {
	if r.logger != nil {
		r.logger.LogDebug(message)
	}
}
