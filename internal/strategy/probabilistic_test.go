package strategy

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
)

func TestProbabilityValidationAtConstruction(t *testing.T) {
	if _, err := ProbabilityCooperator(1.5); !errors.Is(err, ErrInvalidProbability) {
		t.Errorf("p=1.5: expected ErrInvalidProbability, got %v", err)
	}
	if _, err := ProbabilityCooperator(-0.1); !errors.Is(err, ErrInvalidProbability) {
		t.Errorf("p=-0.1: expected ErrInvalidProbability, got %v", err)
	}
	if _, err := ImperfectTitForTat(2); !errors.Is(err, ErrInvalidProbability) {
		t.Errorf("errorRate=2: expected ErrInvalidProbability, got %v", err)
	}
	if _, err := Reactive(0.5, 1.01, 0); !errors.Is(err, ErrInvalidProbability) {
		t.Errorf("p=1.01: expected ErrInvalidProbability, got %v", err)
	}
	if _, err := MemoryOne(1, 0, -0.5, 1, 1); !errors.Is(err, ErrInvalidProbability) {
		t.Errorf("r=-0.5: expected ErrInvalidProbability, got %v", err)
	}
	if _, err := MemoryOne(1, 0, 0, 1, 1); err != nil {
		t.Errorf("valid memory-one vector rejected: %v", err)
	}
}

func TestProbabilityCooperatorExtremes(t *testing.T) {
	always, err := ProbabilityCooperator(1)
	if err != nil {
		t.Fatal(err)
	}
	never, err := ProbabilityCooperator(0)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(7))
	a, n := always.New(), never.New()
	for i := 0; i < 100; i++ {
		if a.Decide(rng, nil, nil) != C {
			t.Fatal("p=1 must always cooperate")
		}
		if n.Decide(rng, nil, nil) != D {
			t.Fatal("p=0 must always defect")
		}
	}
}

func TestGenerousTitForTatForgivenessLevel(t *testing.T) {
	b, err := GenerousTitForTat(game.Axelrod)
	if err != nil {
		t.Fatal(err)
	}
	// At R=3 P=1 T=5 S=0: min(1 - 2/3, 2/4) = 1/3.
	s := b.New().(generousTFT)
	if s.g < 0.333 || s.g > 0.334 {
		t.Errorf("g = %v, want 1/3", s.g)
	}
}

func TestGenerousTitForTatForgivesAtRate(t *testing.T) {
	b, err := GenerousTitForTat(game.Axelrod)
	if err != nil {
		t.Fatal(err)
	}
	s := b.New()
	rng := rand.New(rand.NewSource(42))
	afterDefection := game.History{{Own: C, Opponent: D}}

	const trials = 100000
	forgiven := 0
	for i := 0; i < trials; i++ {
		if s.Decide(rng, afterDefection, nil) == C {
			forgiven++
		}
	}
	rate := float64(forgiven) / trials
	if rate < 0.32 || rate > 0.35 {
		t.Errorf("forgiveness rate %v, want about 1/3", rate)
	}

	// Never retaliates against cooperation.
	afterCooperation := game.History{{Own: C, Opponent: C}}
	for i := 0; i < 100; i++ {
		if s.Decide(rng, afterCooperation, nil) != C {
			t.Fatal("generous TFT must cooperate after opponent cooperation")
		}
	}
}

func TestImperfectTitForTatZeroErrorIsTFT(t *testing.T) {
	b, err := ImperfectTitForTat(0)
	if err != nil {
		t.Fatal(err)
	}
	got := playScript(t, b, []game.Action{C, D, D, C})
	assertMoves(t, got, []game.Action{C, C, D, D})
}

func TestImperfectTitForTatFullErrorInverts(t *testing.T) {
	b, err := ImperfectTitForTat(1)
	if err != nil {
		t.Fatal(err)
	}
	got := playScript(t, b, []game.Action{C, D, D, C})
	assertMoves(t, got, []game.Action{D, D, C, C})
}

func TestReactiveDegeneratesToTFT(t *testing.T) {
	// y=1, p=1, q=0 is exactly tit for tat.
	b, err := Reactive(1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := playScript(t, b, []game.Action{C, D, C, D})
	assertMoves(t, got, []game.Action{C, C, D, C})
}

func TestMemoryOneOutcomeIndexing(t *testing.T) {
	// Degenerate vector: cooperate only after mutual cooperation.
	b, err := MemoryOne(1, 0, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	s := b.New()
	rng := rand.New(rand.NewSource(3))

	cases := []struct {
		last game.RoundRecord
		want game.Action
	}{
		{game.RoundRecord{Own: C, Opponent: C}, C},
		{game.RoundRecord{Own: C, Opponent: D}, D},
		{game.RoundRecord{Own: D, Opponent: C}, D},
		{game.RoundRecord{Own: D, Opponent: D}, D},
	}
	for _, tc := range cases {
		hist := game.History{tc.last}
		if got := s.Decide(rng, hist, nil); got != tc.want {
			t.Errorf("after (%v,%v): got %v, want %v", tc.last.Own, tc.last.Opponent, got, tc.want)
		}
	}

	// Opening round follows the opening probability.
	if got := s.Decide(rng, nil, nil); got != C {
		t.Error("opening=1 must cooperate on round one")
	}
}

func TestRandomIsDeterministicPerSeed(t *testing.T) {
	replay := func(seed int64) []game.Action {
		s := Random().New()
		rng := rand.New(rand.NewSource(seed))
		moves := make([]game.Action, 50)
		for i := range moves {
			moves[i] = s.Decide(rng, nil, nil)
		}
		return moves
	}

	first, second := replay(99), replay(99)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("round %d diverged for identical seeds", i+1)
		}
	}
}
