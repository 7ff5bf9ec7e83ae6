package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
	"github.com/msoyaph/nexscout-sub003/platform/logger"
)

type fakeModel struct {
	name     string
	response string
	err      error
	calls    int
}

func (m *fakeModel) Name() string { return m.name }

func (m *fakeModel) Generate(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.response, m.err
}

type fakeWallet struct {
	energy int
	err    error
}

func (w *fakeWallet) GetWalletEnergy(_ context.Context, _ uuid.UUID) (int, error) {
	return w.energy, w.err
}

type fakeResults struct {
	inserted []repository.InsertAgentResultParams
}

func (r *fakeResults) InsertAgentResult(_ context.Context, params repository.InsertAgentResultParams) error {
	r.inserted = append(r.inserted, params)
	return nil
}

const goodResponse = `{"score": 82, "confidence": 0.9, "personalityProfile": "driven",
	"painPoints": ["time"], "financialSignals": [], "businessInterest": "real estate",
	"lifeEvents": [], "emotionalState": "positive", "engagementPrediction": "high",
	"upsellReadiness": "medium", "closingLikelihood": "high", "topOpportunities": ["follow up"]}`

func newTestAgent(tiers []Tier, wallet *fakeWallet, results *fakeResults) *Agent {
	return New(tiers, wallet, results, "deep-intel-v1", logger.New("development"))
}

func request() Request {
	return Request{
		UserID: uuid.New(),
		ScanID: uuid.New(),
		Entity: repository.ProspectEntity{ID: uuid.New(), DisplayName: "Juan Dela Cruz"},
	}
}

func TestAnalyzePremiumTierWithEnergy(t *testing.T) {
	premium := &fakeModel{name: "premium", response: goodResponse}
	standard := &fakeModel{name: "standard", response: goodResponse}
	results := &fakeResults{}

	a := newTestAgent(
		[]Tier{{Model: premium, MinEnergy: 10}, {Model: standard}},
		&fakeWallet{energy: 50}, results,
	)

	analysis := a.Analyze(context.Background(), request())
	if analysis.ModelUsed != "premium" {
		t.Fatalf("model used = %q", analysis.ModelUsed)
	}
	if standard.calls != 0 {
		t.Fatalf("standard tier called %d times", standard.calls)
	}
	if analysis.Result.Score != 82 {
		t.Fatalf("score = %d", analysis.Result.Score)
	}
}

func TestAnalyzeEnergyGateSkipsPremium(t *testing.T) {
	premium := &fakeModel{name: "premium", response: goodResponse}
	standard := &fakeModel{name: "standard", response: goodResponse}

	a := newTestAgent(
		[]Tier{{Model: premium, MinEnergy: 10}, {Model: standard}},
		&fakeWallet{energy: 3}, &fakeResults{},
	)

	analysis := a.Analyze(context.Background(), request())
	if analysis.ModelUsed != "standard" {
		t.Fatalf("model used = %q", analysis.ModelUsed)
	}
	if premium.calls != 0 {
		t.Fatalf("premium tier called %d times", premium.calls)
	}
}

func TestAnalyzeFallsBackOnModelError(t *testing.T) {
	premium := &fakeModel{name: "premium", err: errors.New("quota exceeded")}
	standard := &fakeModel{name: "standard", response: goodResponse}

	a := newTestAgent(
		[]Tier{{Model: premium, MinEnergy: 10}, {Model: standard}},
		&fakeWallet{energy: 50}, &fakeResults{},
	)

	analysis := a.Analyze(context.Background(), request())
	if analysis.ModelUsed != "standard" {
		t.Fatalf("model used = %q", analysis.ModelUsed)
	}
	if analysis.Defaulted {
		t.Fatal("analysis marked defaulted despite fallback success")
	}
}

func TestAnalyzeAllTiersFailYieldsDefault(t *testing.T) {
	premium := &fakeModel{name: "premium", err: errors.New("down")}
	standard := &fakeModel{name: "standard", err: errors.New("down")}
	results := &fakeResults{}

	a := newTestAgent(
		[]Tier{{Model: premium, MinEnergy: 10}, {Model: standard}},
		&fakeWallet{energy: 50}, results,
	)

	analysis := a.Analyze(context.Background(), request())
	if !analysis.Defaulted {
		t.Fatal("expected defaulted analysis")
	}
	if analysis.Result.Score != 50 || analysis.Result.Confidence != 0.5 {
		t.Fatalf("result = %+v", analysis.Result)
	}
	// Two failed attempts plus the final default are all audited.
	if len(results.inserted) != 3 {
		t.Fatalf("audited %d rows, want 3", len(results.inserted))
	}
	last := results.inserted[len(results.inserted)-1]
	if last.Model != "" || last.Success {
		t.Fatalf("final audit = %+v", last)
	}
}

func TestAnalyzeUnparseableResponseFallsThrough(t *testing.T) {
	premium := &fakeModel{name: "premium", response: "I cannot help with that."}
	standard := &fakeModel{name: "standard", response: goodResponse}

	a := newTestAgent(
		[]Tier{{Model: premium, MinEnergy: 0}, {Model: standard}},
		&fakeWallet{energy: 0}, &fakeResults{},
	)

	analysis := a.Analyze(context.Background(), request())
	if analysis.ModelUsed != "standard" {
		t.Fatalf("model used = %q", analysis.ModelUsed)
	}
}

func TestAnalyzeWalletErrorStillRuns(t *testing.T) {
	standard := &fakeModel{name: "standard", response: goodResponse}

	a := newTestAgent(
		[]Tier{{Model: &fakeModel{name: "premium", response: goodResponse}, MinEnergy: 10}, {Model: standard}},
		&fakeWallet{err: errors.New("wallet service down")}, &fakeResults{},
	)

	// Energy defaults to zero on error, so the premium tier is skipped but
	// the scan still gets an analysis.
	analysis := a.Analyze(context.Background(), request())
	if analysis.ModelUsed != "standard" {
		t.Fatalf("model used = %q", analysis.ModelUsed)
	}
}
