package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// cacheTTL is the maximum age of a cached analysis. Expiry is enforced
// on read: RequestAnalysis drops a stale entry inside its critical
// section and starts a fresh job in the same call.
const cacheTTL = 10 * time.Minute

// analysisTimeout caps a single provider call. The provider is not
// otherwise cancellable.
const analysisTimeout = 2 * time.Minute

const persistTimeout = 10 * time.Second

type AnalysisStatus string

const (
	AnalysisCompleted AnalysisStatus = "completed"
	AnalysisRunning   AnalysisStatus = "running"
)

// AnalysisOutcome is what a caller gets back immediately: either a
// cached result or a running status while the background job works.
type AnalysisOutcome struct {
	Status AnalysisStatus  `json:"status"`
	Result *AnalysisResult `json:"result,omitempty"`
}

type cacheEntry struct {
	result   *AnalysisResult
	cachedAt time.Time
}

// analysisJob tracks one in-flight provider call. gen pins the job to
// the registry generation it was started under; invalidation bumps the
// generation so a superseded job cannot publish its result.
type analysisJob struct {
	id        string
	gen       uint64
	startedAt time.Time
	done      chan struct{}
}

// AutoScoreWriter is the slice of the persistence gateway the
// orchestrator needs to record machine scores.
type AutoScoreWriter interface {
	UpdateEssayAutoScore(ctx context.Context, essayID string, score float64) error
}

// CompletionFunc is invoked after a job successfully publishes its
// result, outside the registry lock.
type CompletionFunc func(essayID string, result *AnalysisResult)

// Orchestrator owns the per-essay analysis registry: at most one
// in-flight provider call per essay, results cached with a TTL. The
// jobs and cache maps are the only shared mutable state in the grading
// core and are never exposed for direct mutation.
type Orchestrator struct {
	mu    sync.Mutex
	jobs  map[string]*analysisJob
	cache map[string]*cacheEntry
	// gens and inflight exist only while goroutines for the essay are
	// alive; both entries are pruned when the last one exits, so the
	// registry does not grow with every essay ever analyzed.
	gens     map[string]uint64
	inflight map[string]int

	provider   AnalysisProvider
	store      AutoScoreWriter
	ttl        time.Duration
	timeout    time.Duration
	onComplete CompletionFunc
}

func NewOrchestrator(provider AnalysisProvider, store AutoScoreWriter) *Orchestrator {
	return &Orchestrator{
		jobs:     make(map[string]*analysisJob),
		cache:    make(map[string]*cacheEntry),
		gens:     make(map[string]uint64),
		inflight: make(map[string]int),
		provider: provider,
		store:    store,
		ttl:      cacheTTL,
		timeout:  analysisTimeout,
	}
}

// SetCompletionFunc registers a callback for successfully published
// results. Must be called before the first RequestAnalysis.
func (o *Orchestrator) SetCompletionFunc(fn CompletionFunc) {
	o.onComplete = fn
}

// RequestAnalysis returns the cached result for the essay if a live one
// exists, or a running status. If neither a cache entry nor a job
// exists, it starts a new background job with the given text; the
// check-and-create is atomic, so concurrent callers trigger exactly one
// provider call.
func (o *Orchestrator) RequestAnalysis(essayID, text string) AnalysisOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.requestLocked(essayID, text)
}

// requestLocked is the registry decision; o.mu must be held.
func (o *Orchestrator) requestLocked(essayID, text string) AnalysisOutcome {
	if entry, ok := o.cache[essayID]; ok {
		if time.Since(entry.cachedAt) < o.ttl {
			return AnalysisOutcome{Status: AnalysisCompleted, Result: entry.result}
		}
		delete(o.cache, essayID)
	}
	if _, running := o.jobs[essayID]; running {
		return AnalysisOutcome{Status: AnalysisRunning}
	}
	job := &analysisJob{
		id:        uuid.NewString(),
		gen:       o.gens[essayID],
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
	o.jobs[essayID] = job
	o.inflight[essayID]++

	go o.run(essayID, text, job)
	return AnalysisOutcome{Status: AnalysisRunning}
}

// InvalidateAndRestart drops any cache entry and job handle for the
// essay, even mid-flight, and schedules a fresh job with the new text.
// Clearing and restarting happen in one critical section, so a
// concurrent request carrying the old text can never slip in between
// and win the check-and-create for the new generation. Called whenever
// an essay's text changes.
func (o *Orchestrator) InvalidateAndRestart(essayID, newText string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearLocked(essayID)
	o.requestLocked(essayID, newText)
}

// Forget drops the essay's registry state without restarting. Called on
// essay deletion; a still-running job completes as a no-op.
func (o *Orchestrator) Forget(essayID string) {
	o.mu.Lock()
	o.clearLocked(essayID)
	o.mu.Unlock()
}

// clearLocked evicts the essay's cache and job and supersedes any job
// still running; o.mu must be held. The generation only moves when a
// goroutine exists to be superseded.
func (o *Orchestrator) clearLocked(essayID string) {
	delete(o.cache, essayID)
	delete(o.jobs, essayID)
	if o.inflight[essayID] > 0 {
		o.gens[essayID]++
	}
}

func (o *Orchestrator) run(essayID, text string, job *analysisJob) {
	defer close(job.done)
	defer o.release(essayID, job)

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	result, err := o.provider.Analyze(ctx, text)
	if err != nil {
		log.Printf("Analysis failed for essay %s (job %s): %v", essayID, job.id, err)
		return
	}
	o.complete(essayID, job, result)
}

// release removes the job handle on every exit path. A handle already
// replaced by invalidation is left alone. When this was the last live
// goroutine for the essay, the generation bookkeeping goes with it.
func (o *Orchestrator) release(essayID string, job *analysisJob) {
	o.mu.Lock()
	if current, ok := o.jobs[essayID]; ok && current == job {
		delete(o.jobs, essayID)
	}
	o.inflight[essayID]--
	if o.inflight[essayID] <= 0 {
		delete(o.inflight, essayID)
		delete(o.gens, essayID)
	}
	o.mu.Unlock()
}

func (o *Orchestrator) complete(essayID string, job *analysisJob, result *AnalysisResult) {
	o.mu.Lock()
	if o.gens[essayID] != job.gen {
		o.mu.Unlock()
		log.Printf("Discarding superseded analysis for essay %s (job %s)", essayID, job.id)
		return
	}
	o.mu.Unlock()

	// The handle stays registered during the persistence write so
	// concurrent requests keep deduplicating against this job.
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	essayGone := false
	if err := o.store.UpdateEssayAutoScore(ctx, essayID, result.TotalScore); err != nil {
		if IsNotFound(err) {
			// Expected race: the essay was deleted while the job ran.
			log.Printf("Essay %s deleted mid-analysis, dropping result (job %s)", essayID, job.id)
			essayGone = true
		} else {
			log.Printf("Failed to persist auto score for essay %s: %v", essayID, err)
		}
	}

	o.mu.Lock()
	published := false
	if o.gens[essayID] == job.gen {
		delete(o.jobs, essayID)
		if !essayGone {
			o.cache[essayID] = &cacheEntry{result: result, cachedAt: time.Now()}
			published = true
		}
	}
	o.mu.Unlock()

	if published && o.onComplete != nil {
		o.onComplete(essayID, result)
	}
}
