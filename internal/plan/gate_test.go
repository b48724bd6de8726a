package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/helmsman/internal/domain/repository"
)

type fakeYachts map[string]*repository.Yacht

func (f fakeYachts) GetByID(_ context.Context, id string) (*repository.Yacht, error) {
	if y, ok := f[id]; ok {
		return y, nil
	}
	return nil, repository.ErrNotFound
}

type fakePlans map[string]*repository.Plan

func (f fakePlans) GetByID(_ context.Context, id string) (*repository.Plan, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func strptr(s string) *string { return &s }

func newTestGate() *Gate {
	yachts := fakeYachts{
		"yacht-A":    {ID: "yacht-A", PlanID: strptr("standard")},
		"yacht-B":    {ID: "yacht-B", PlanID: strptr("fleet")},
		"yacht-noP":  {ID: "yacht-noP"},
		"yacht-dead": {ID: "yacht-dead", PlanID: strptr("retired")},
		"yacht-bad":  {ID: "yacht-bad", PlanID: strptr("corrupt")},
	}
	plans := fakePlans{
		"standard": {
			ID:       "standard",
			Features: []string{"module:tasks", "module:trips"},
			Limits:   map[string]int{"crew_members": 10, "active_trips": 3},
			Active:   true,
		},
		"fleet": {
			ID:       "fleet",
			Features: []string{"all"},
			Limits:   map[string]int{"crew_members": 100},
			Active:   true,
		},
		"retired": {
			ID:       "retired",
			Features: []string{"module:tasks"},
			Limits:   map[string]int{"crew_members": 5},
			Active:   false,
		},
		"corrupt": {
			ID:       "corrupt",
			Features: []string{"module:tasks", "module:timetravel"},
			Limits:   map[string]int{"crew_members": 5},
			Active:   true,
		},
	}
	return NewGate(GateDeps{Yachts: yachts, Plans: plans})
}

func TestHasFeature_Explicit(t *testing.T) {
	g := newTestGate()
	ctx := context.Background()

	if !g.HasFeature(ctx, "yacht-A", FeatureTasks) {
		t.Fatal("standard plan includes module:tasks")
	}
	if g.HasFeature(ctx, "yacht-A", FeatureFinance) {
		t.Fatal("standard plan does not include module:finance")
	}
}

func TestHasFeature_AllSentinel(t *testing.T) {
	g := newTestGate()
	// "all" cubre features ausentes de la lista explícita.
	if !g.HasFeature(context.Background(), "yacht-B", FeatureFinance) {
		t.Fatal("the all-features sentinel must short-circuit to true")
	}
}

func TestHasFeature_FailClosed(t *testing.T) {
	g := newTestGate()
	ctx := context.Background()

	cases := map[string]string{
		"yacht missing": "nope",
		"no plan":       "yacht-noP",
		"inactive plan": "yacht-dead",
		"corrupt plan":  "yacht-bad",
		"empty id":      "",
	}
	for name, yid := range cases {
		if g.HasFeature(ctx, yid, FeatureTasks) {
			t.Fatalf("%s: must deny", name)
		}
	}
}

func TestWithinLimit_Boundary(t *testing.T) {
	g := newTestGate()
	ctx := context.Background()

	// count == techo: ya en el límite, denegado.
	if g.WithinLimit(ctx, "yacht-A", LimitCrewMembers, 10) {
		t.Fatal("count == ceiling must deny")
	}
	// count == techo-1: todavía hay lugar.
	if !g.WithinLimit(ctx, "yacht-A", LimitCrewMembers, 9) {
		t.Fatal("count == ceiling-1 must allow")
	}
}

func TestWithinLimit_FailClosed(t *testing.T) {
	g := newTestGate()
	ctx := context.Background()

	// Límite no configurado en el plan.
	if g.WithinLimit(ctx, "yacht-B", LimitActiveTrips, 0) {
		t.Fatal("unconfigured limit must deny")
	}
	// Key fuera del vocabulario.
	if g.WithinLimit(ctx, "yacht-A", Limit("warp_drives"), 0) {
		t.Fatal("unknown limit key must deny")
	}
}

func TestRequireVariants(t *testing.T) {
	g := newTestGate()
	ctx := context.Background()

	if err := g.RequireFeature(ctx, "yacht-A", FeatureFinance); !errors.Is(err, ErrFeatureDenied) {
		t.Fatalf("expected ErrFeatureDenied, got %v", err)
	}
	if err := g.RequireFeature(ctx, "yacht-A", FeatureTasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.RequireLimit(ctx, "yacht-A", LimitActiveTrips, 3); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	if err := g.RequireLimit(ctx, "yacht-A", LimitActiveTrips, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseFeatureSet_UnknownKey(t *testing.T) {
	if _, err := ParseFeatureSet([]string{"module:tasks", "bogus"}); err == nil {
		t.Fatal("unknown feature key must be rejected at parse")
	}
	fs, err := ParseFeatureSet([]string{"module:tasks", "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fs.Has(FeatureReports) {
		t.Fatal("sentinel lost in parse")
	}
}
