// Package reportcache owns the latest-report cache and coordinates the
// analysis pipeline: warehouse queries, AI suggestions, and history
// persistence run in the background while requests are answered from the
// cached snapshot.
package reportcache

import (
	"context"
	"log"
	"sync"
	"time"

	"app/advisor"
	"app/models"
)

// ReportSource produces the promotion report from the warehouse data.
type ReportSource interface {
	Report(ctx context.Context) (*models.PromotionReport, error)
}

// SuggestionGenerator turns a report into Markdown suggestion text.
type SuggestionGenerator interface {
	Suggestions(ctx context.Context, report *models.PromotionReport) string
}

// ReportSaver persists a finished report document.
type ReportSaver interface {
	Save(ctx context.Context, doc models.ReportDocument) error
}

// CachedReport is the immutable snapshot served to report requests.
type CachedReport struct {
	Products    *models.PromotionReport `json:"products"`
	Suggestions string                  `json:"suggestions"`
}

// Outcome tells a caller what Request did.
type Outcome int

const (
	// OutcomeReady means a cached report was returned.
	OutcomeReady Outcome = iota
	// OutcomeStarted means a background analysis was just started.
	OutcomeStarted
	// OutcomeInProgress means an analysis was already running.
	OutcomeInProgress
)

// Orchestrator holds the single latest-report slot and the analyzing flag,
// and guarantees at most one analysis runs at a time.
type Orchestrator struct {
	source  ReportSource
	advisor SuggestionGenerator
	history ReportSaver

	mu           sync.Mutex
	latest       *CachedReport
	lastAnalysis time.Time
	analyzing    bool
}

// New wires the orchestrator to its collaborators.
func New(source ReportSource, advisor SuggestionGenerator, history ReportSaver) *Orchestrator {
	return &Orchestrator{source: source, advisor: advisor, history: history}
}

// Request serves the cached report when one exists; otherwise it makes sure
// a background analysis is underway and acknowledges without blocking. The
// check and the flag flip happen under one lock acquisition so concurrent
// callers cannot start duplicate runs.
func (o *Orchestrator) Request() (*CachedReport, Outcome) {
	o.mu.Lock()
	if o.latest != nil {
		cached := o.latest
		o.mu.Unlock()
		return cached, OutcomeReady
	}
	if o.analyzing {
		o.mu.Unlock()
		return nil, OutcomeInProgress
	}
	o.analyzing = true
	o.mu.Unlock()

	go o.run()
	return nil, OutcomeStarted
}

// RunAnalysis is the periodic entry point: it always attempts a fresh run,
// replacing any cached report on success, and skips silently when a run is
// already in flight. Returns whether a run was executed.
func (o *Orchestrator) RunAnalysis() bool {
	o.mu.Lock()
	if o.analyzing {
		o.mu.Unlock()
		log.Println("analysis already in progress, skipping scheduled run")
		return false
	}
	o.analyzing = true
	o.mu.Unlock()

	o.run()
	return true
}

// Analyzing reports whether a background run is currently executing.
func (o *Orchestrator) Analyzing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.analyzing
}

// LastAnalysis returns when the cache was last refreshed.
func (o *Orchestrator) LastAnalysis() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastAnalysis
}

// run executes one full analysis. The analyzing flag is already set; it is
// cleared by finish whether the run succeeds or fails, so a failed run
// leaves the orchestrator ready for the next attempt.
func (o *Orchestrator) run() {
	ctx := context.Background()
	started := time.Now()
	log.Println("starting promotion analysis")

	report, err := o.source.Report(ctx)
	if err != nil {
		log.Printf("analysis aborted, sales data unavailable: %v", err)
		o.finish(nil)
		return
	}
	if report == nil {
		log.Println("analysis aborted: no slow-moving products found")
		o.finish(nil)
		return
	}

	suggestions := o.advisor.Suggestions(ctx, report)

	rows := advisor.ParseTable(suggestions)
	if len(rows) == 0 {
		log.Println("advisor output contained no parseable table, saving report without recommendations")
	}

	doc := models.ReportDocument{
		CreationTimestamp:     time.Now(),
		Recommendations:       advisor.ToRecommendations(rows),
		RawSourceDataSnapshot: *report,
	}

	// Fire-and-forget: the save must never delay the cache update, and no
	// lock may be held while dispatching it.
	go func() {
		if err := o.history.Save(context.Background(), doc); err != nil {
			log.Printf("history save failed: %v", err)
		}
	}()

	o.finish(&CachedReport{Products: report, Suggestions: suggestions})
	log.Printf("promotion analysis finished in %s (%d slow movers, %d recommendations)",
		time.Since(started).Round(time.Millisecond), report.TotalSlowProducts, len(rows))
}

// finish swaps in the new snapshot (when the run produced one) and clears
// the analyzing flag as one atomic update, so readers never observe a
// partially updated slot.
func (o *Orchestrator) finish(result *CachedReport) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if result != nil {
		o.latest = result
		o.lastAnalysis = time.Now()
	}
	o.analyzing = false
}
