package engine

import (
	"errors"
	"testing"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/strategy"
)

func testRoster(t *testing.T) []strategy.Builder {
	t.Helper()
	gtft, err := strategy.GenerousTitForTat(game.Axelrod)
	if err != nil {
		t.Fatal(err)
	}
	return []strategy.Builder{
		strategy.Cooperator(),
		strategy.Defector(),
		strategy.TitForTat(),
		strategy.GrimTrigger(),
		strategy.Pavlov(),
		strategy.Random(),
		gtft,
	}
}

func TestRunTournamentValidation(t *testing.T) {
	roster := testRoster(t)

	if _, err := RunTournament(roster, game.Axelrod, 0, Options{}); !errors.Is(err, game.ErrInvalidRoundCount) {
		t.Errorf("rounds=0: expected ErrInvalidRoundCount, got %v", err)
	}

	bad := game.Payoffs{R: 3, P: 1, T: 2, S: 0}
	if _, err := RunTournament(roster, bad, 10, Options{}); !errors.Is(err, game.ErrInvalidPayoffOrdering) {
		t.Errorf("expected ErrInvalidPayoffOrdering, got %v", err)
	}

	if _, err := RunTournament(roster[:1], game.Axelrod, 10, Options{}); err == nil {
		t.Error("single-strategy roster must be rejected")
	}

	if _, err := RunTournament(append(roster, strategy.Builder{}), game.Axelrod, 10, Options{}); err == nil {
		t.Error("zero-value builder must be rejected before any match")
	}
}

func TestRunTournamentPairCount(t *testing.T) {
	roster := testRoster(t)
	n := len(roster)

	res, err := RunTournament(roster, game.Axelrod, 10, Options{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if want := n * (n - 1) / 2; len(res.Matches) != want {
		t.Errorf("%d matches, want %d", len(res.Matches), want)
	}

	withSelf, err := RunTournament(roster, game.Axelrod, 10, Options{Seed: 1, SelfPlay: true})
	if err != nil {
		t.Fatal(err)
	}
	if want := n*(n-1)/2 + n; len(withSelf.Matches) != want {
		t.Errorf("%d matches with self-play, want %d", len(withSelf.Matches), want)
	}
}

func TestRunTournamentStandingsAreRanked(t *testing.T) {
	res, err := RunTournament(testRoster(t), game.Axelrod, 100, Options{Seed: 5})
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Standings) != 7 {
		t.Fatalf("%d standings, want 7", len(res.Standings))
	}
	for i, s := range res.Standings {
		if s.Rank != i+1 {
			t.Errorf("standing %d has rank %d", i, s.Rank)
		}
		if s.Matches != 6 {
			t.Errorf("%s played %d matches, want 6", s.Name, s.Matches)
		}
		if s.Wins+s.Losses+s.Ties != s.Matches {
			t.Errorf("%s tally %d+%d+%d != %d", s.Name, s.Wins, s.Losses, s.Ties, s.Matches)
		}
		if i > 0 && s.Average > res.Standings[i-1].Average {
			t.Errorf("standings not sorted: %v above %v", res.Standings[i-1].Average, s.Average)
		}
	}
}

func TestRunTournamentReproduciblePerSeed(t *testing.T) {
	run := func() *TournamentResult {
		res, err := RunTournament(testRoster(t), game.Axelrod, 100, Options{Seed: 1234})
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	first, second := run(), run()
	for i := range first.Standings {
		if first.Standings[i] != second.Standings[i] {
			t.Fatalf("standing %d diverged: %+v vs %+v", i, first.Standings[i], second.Standings[i])
		}
	}
}

func TestParallelMatchesSerialExactly(t *testing.T) {
	roster := testRoster(t)

	serial, err := RunTournament(roster, game.Axelrod, 100, Options{Seed: 99})
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := RunTournament(roster, game.Axelrod, 100, Options{Seed: 99, Workers: 4})
	if err != nil {
		t.Fatal(err)
	}

	if len(serial.Matches) != len(parallel.Matches) {
		t.Fatalf("match counts differ: %d vs %d", len(serial.Matches), len(parallel.Matches))
	}
	for i := range serial.Matches {
		s, p := serial.Matches[i], parallel.Matches[i]
		if s.ScoreA != p.ScoreA || s.ScoreB != p.ScoreB || s.NameA != p.NameA || s.NameB != p.NameB {
			t.Fatalf("match %d differs: serial (%s %v, %s %v) parallel (%s %v, %s %v)",
				i, s.NameA, s.ScoreA, s.NameB, s.ScoreB, p.NameA, p.ScoreA, p.NameB, p.ScoreB)
		}
	}
	for i := range serial.Standings {
		if serial.Standings[i] != parallel.Standings[i] {
			t.Fatalf("standing %d differs between serial and parallel", i)
		}
	}
}

func TestOnMatchHookSeesEveryMatchInOrder(t *testing.T) {
	roster := testRoster(t)
	var seen []string
	_, err := RunTournament(roster, game.Axelrod, 10, Options{
		Seed:    3,
		Workers: 4,
		OnMatch: func(m *MatchResult) { seen = append(seen, m.NameA+"/"+m.NameB) },
	})
	if err != nil {
		t.Fatal(err)
	}

	n := len(roster)
	if len(seen) != n*(n-1)/2 {
		t.Fatalf("hook saw %d matches, want %d", len(seen), n*(n-1)/2)
	}
	// Pairing order is roster order regardless of worker scheduling.
	if seen[0] != roster[0].Name()+"/"+roster[1].Name() {
		t.Errorf("first hook call %q out of pairing order", seen[0])
	}
}

func TestExpectedMatches(t *testing.T) {
	if got := expectedMatches(7, false); got != 21 {
		t.Errorf("expectedMatches(7, false) = %d, want 21", got)
	}
	if got := expectedMatches(7, true); got != 28 {
		t.Errorf("expectedMatches(7, true) = %d, want 28", got)
	}
}
