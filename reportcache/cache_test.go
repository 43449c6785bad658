package reportcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"app/models"
)

const suggestionTable = `| Product Name | Supply Name | Analysis | Promotional Strategy |
| --- | --- | --- | --- |
| Widget A | Acme | overstocked | 30% off |
| Widget B | Acme | stale | bundle |`

// fakeSource counts calls and can block until released.
type fakeSource struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	report  *models.PromotionReport
	err     error
}

func (s *fakeSource) Report(ctx context.Context) (*models.PromotionReport, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.release != nil {
		<-s.release
	}
	return s.report, s.err
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeAdvisor struct{ text string }

func (a fakeAdvisor) Suggestions(ctx context.Context, report *models.PromotionReport) string {
	return a.text
}

// fakeSaver forwards saved documents to a channel so tests can await the
// fire-and-forget dispatch.
type fakeSaver struct {
	saved chan models.ReportDocument
	err   error
}

func (s *fakeSaver) Save(ctx context.Context, doc models.ReportDocument) error {
	if s.saved != nil {
		s.saved <- doc
	}
	return s.err
}

func sampleReport() *models.PromotionReport {
	return &models.PromotionReport{
		AnalysisDate:       "2026-08-28",
		SlowMovingProducts: []models.SlowMovingProduct{{ProductID: "P1"}, {ProductID: "P2"}, {ProductID: "P3"}},
		TotalSlowProducts:  3,
	}
}

func waitUntil(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestRequestSingleFlight(t *testing.T) {
	source := &fakeSource{release: make(chan struct{}), report: sampleReport()}
	orch := New(source, fakeAdvisor{suggestionTable}, &fakeSaver{})

	const callers = 20
	outcomes := make(chan Outcome, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, outcome := orch.Request()
			outcomes <- outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	started, inProgress := 0, 0
	for o := range outcomes {
		switch o {
		case OutcomeStarted:
			started++
		case OutcomeInProgress:
			inProgress++
		default:
			t.Fatalf("unexpected outcome %v before any run finished", o)
		}
	}
	assert.Equal(t, 1, started)
	assert.Equal(t, callers-1, inProgress)

	close(source.release)
	waitUntil(t, func() bool { return !orch.Analyzing() }, "run never finished")

	// Exactly one background run executed for all concurrent callers.
	assert.Equal(t, 1, source.callCount())

	cached, outcome := orch.Request()
	assert.Equal(t, OutcomeReady, outcome)
	assert.Equal(t, 3, cached.Products.TotalSlowProducts)
	assert.Equal(t, suggestionTable, cached.Suggestions)
}

func TestRequestServesCacheWithoutNewRun(t *testing.T) {
	source := &fakeSource{report: sampleReport()}
	orch := New(source, fakeAdvisor{suggestionTable}, &fakeSaver{})

	assert.True(t, orch.RunAnalysis())

	for i := 0; i < 5; i++ {
		cached, outcome := orch.Request()
		assert.Equal(t, OutcomeReady, outcome)
		assert.NotNil(t, cached)
	}
	assert.Equal(t, 1, source.callCount())
}

func TestFailedRunReturnsToIdle(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	orch := New(source, fakeAdvisor{suggestionTable}, &fakeSaver{})

	assert.True(t, orch.RunAnalysis())
	assert.False(t, orch.Analyzing())
	assert.True(t, orch.LastAnalysis().IsZero())

	// The failure did not populate the cache, so the next request starts a
	// fresh attempt.
	cached, outcome := orch.Request()
	assert.Nil(t, cached)
	assert.Equal(t, OutcomeStarted, outcome)

	waitUntil(t, func() bool { return !orch.Analyzing() }, "retry never finished")
	assert.Equal(t, 2, source.callCount())
}

func TestEmptyReportAbortsWithoutCaching(t *testing.T) {
	source := &fakeSource{report: nil}
	orch := New(source, fakeAdvisor{suggestionTable}, &fakeSaver{})

	assert.True(t, orch.RunAnalysis())
	assert.False(t, orch.Analyzing())

	_, outcome := orch.Request()
	assert.NotEqual(t, OutcomeReady, outcome)
}

func TestScheduledRunSkippedWhileAnalyzing(t *testing.T) {
	source := &fakeSource{release: make(chan struct{}), report: sampleReport()}
	orch := New(source, fakeAdvisor{suggestionTable}, &fakeSaver{})

	_, outcome := orch.Request()
	assert.Equal(t, OutcomeStarted, outcome)

	// The periodic trigger respects the single-flight guard.
	assert.False(t, orch.RunAnalysis())
	assert.Equal(t, 1, source.callCount())

	close(source.release)
	waitUntil(t, func() bool { return !orch.Analyzing() }, "run never finished")
}

func TestSuccessfulRunPersistsParsedRecommendations(t *testing.T) {
	source := &fakeSource{report: sampleReport()}
	saver := &fakeSaver{saved: make(chan models.ReportDocument, 1)}
	orch := New(source, fakeAdvisor{suggestionTable}, saver)

	assert.True(t, orch.RunAnalysis())

	select {
	case doc := <-saver.saved:
		assert.Len(t, doc.Recommendations, 2)
		assert.Equal(t, "Widget A", doc.Recommendations[0].ProductName)
		assert.Equal(t, "30% off", doc.Recommendations[0].PromotionalStrategy)
		assert.Equal(t, 3, doc.RawSourceDataSnapshot.TotalSlowProducts)
		assert.False(t, doc.CreationTimestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("history save was never dispatched")
	}

	assert.False(t, orch.LastAnalysis().IsZero())
}

func TestRunWithUnparseableSuggestionsStillCaches(t *testing.T) {
	source := &fakeSource{report: sampleReport()}
	saver := &fakeSaver{saved: make(chan models.ReportDocument, 1)}
	orch := New(source, fakeAdvisor{"the model rambled with no table"}, saver)

	assert.True(t, orch.RunAnalysis())

	doc := <-saver.saved
	assert.Empty(t, doc.Recommendations)

	cached, outcome := orch.Request()
	assert.Equal(t, OutcomeReady, outcome)
	assert.Equal(t, "the model rambled with no table", cached.Suggestions)
}
