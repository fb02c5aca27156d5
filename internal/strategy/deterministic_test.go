package strategy

import (
	"math/rand"
	"testing"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
)

// playScript feeds a fixed opponent action sequence to a strategy and
// returns the moves it made, round by round.
func playScript(t *testing.T, b Builder, oppMoves []game.Action) []game.Action {
	t.Helper()
	s := b.New()
	rng := rand.New(rand.NewSource(1))

	var own, opp game.History
	var moves []game.Action
	for _, oppMove := range oppMoves {
		move := s.Decide(rng, own, opp)
		moves = append(moves, move)

		pOwn, pOpp := game.Axelrod.Score(move, oppMove)
		own = append(own, game.RoundRecord{Own: move, Opponent: oppMove, OwnPayoff: pOwn, OpponentPayoff: pOpp})
		opp = append(opp, game.RoundRecord{Own: oppMove, Opponent: move, OwnPayoff: pOpp, OpponentPayoff: pOwn})
	}
	return moves
}

func assertMoves(t *testing.T, got, want []game.Action) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d moves, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("round %d: got %v, want %v (full: %v)", i+1, got[i], want[i], got)
			return
		}
	}
}

const (
	C = game.Cooperate
	D = game.Defect
)

func TestCooperatorAndDefector(t *testing.T) {
	script := []game.Action{C, D, D, C}
	assertMoves(t, playScript(t, Cooperator(), script), []game.Action{C, C, C, C})
	assertMoves(t, playScript(t, Defector(), script), []game.Action{D, D, D, D})
}

func TestTitForTatMirrorsOpponent(t *testing.T) {
	got := playScript(t, TitForTat(), []game.Action{C, D, D, C, D})
	assertMoves(t, got, []game.Action{C, C, D, D, C})
}

func TestSuspiciousTitForTatOpensDefecting(t *testing.T) {
	got := playScript(t, SuspiciousTitForTat(), []game.Action{C, C, D, C})
	assertMoves(t, got, []game.Action{D, C, C, D})
}

func TestTitForTwoTatsNeedsTwoConsecutiveDefections(t *testing.T) {
	got := playScript(t, TitForTwoTats(), []game.Action{D, C, D, D, C})
	assertMoves(t, got, []game.Action{C, C, C, C, D})
}

func TestTwoTitsForTatRetaliatesTwice(t *testing.T) {
	got := playScript(t, TwoTitsForTat(), []game.Action{D, C, C, C, C})
	assertMoves(t, got, []game.Action{C, D, D, C, C})
}

func TestGrimTriggerNeverForgives(t *testing.T) {
	got := playScript(t, GrimTrigger(), []game.Action{C, D, C, C, C})
	assertMoves(t, got, []game.Action{C, C, D, D, D})
}

func TestDiscriminatingAltruistMatchesGrim(t *testing.T) {
	script := []game.Action{C, C, D, C, C}
	grim := playScript(t, GrimTrigger(), script)
	da := playScript(t, DiscriminatingAltruist(), script)
	assertMoves(t, da, grim)
}

func TestPavlovWinStayLoseShift(t *testing.T) {
	// CC -> stay C; CD -> shift to D; DC -> stay D; DD -> shift to C.
	got := playScript(t, Pavlov(), []game.Action{C, D, C, D, C})
	assertMoves(t, got, []game.Action{C, C, D, D, C})
}

func TestGradualEscalatesAndApologizes(t *testing.T) {
	// One early defection: single retaliation then two apologies.
	got := playScript(t, GradualTitForTat(), []game.Action{D, C, C, C, C})
	assertMoves(t, got, []game.Action{C, D, C, C, C})
}

func TestGradualSecondOffenseRetaliatesTwice(t *testing.T) {
	// Second trigger fires a two-defection run before the apologies.
	script := []game.Action{D, C, C, C, D, C, C, C, C}
	got := playScript(t, GradualTitForTat(), script)
	assertMoves(t, got, []game.Action{C, D, C, C, C, D, D, C, C})
}

func TestOmegaTFTBreaksDeadlock(t *testing.T) {
	// Against suspicious TFT a plain TFT echoes CD/DC forever. Omega
	// must cooperate unilaterally once the deadlock counter trips.
	omega := OmegaTFT(3, 8).New()
	stft := SuspiciousTitForTat().New()
	rng := rand.New(rand.NewSource(1))

	var histO, histS game.History
	mutual := false
	for i := 0; i < 20; i++ {
		mo := omega.Decide(rng, histO, histS)
		ms := stft.Decide(rng, histS, histO)
		histO = append(histO, game.RoundRecord{Own: mo, Opponent: ms})
		histS = append(histS, game.RoundRecord{Own: ms, Opponent: mo})
		if mo == C && ms == C {
			mutual = true
		}
	}
	if !mutual {
		t.Error("omega TFT never escaped the CD/DC echo against suspicious TFT")
	}
}

func TestOmegaTFTGivesUpOnRandomness(t *testing.T) {
	// A rapidly flip-flopping opponent should trip the randomness
	// counter into the terminal all-defect state.
	script := make([]game.Action, 40)
	for i := range script {
		if i%2 == 0 {
			script[i] = C
		} else {
			script[i] = D
		}
	}
	got := playScript(t, OmegaTFT(50, 4), script)

	// Once terminal, every later move is a defection.
	terminalFrom := -1
	for i, m := range got {
		if m == D {
			allD := true
			for _, later := range got[i:] {
				if later == C {
					allD = false
					break
				}
			}
			if allD {
				terminalFrom = i
				break
			}
		}
	}
	if terminalFrom == -1 || terminalFrom > 30 {
		t.Errorf("expected terminal all-defect tail, got %v", got)
	}
}

func TestAdaptivePavlovClassifiesExploiter(t *testing.T) {
	// Relentless defector: after the 6-round probe the policy must be
	// permanent defection.
	script := make([]game.Action, 12)
	for i := range script {
		script[i] = D
	}
	got := playScript(t, AdaptivePavlov(), script)
	for i := 6; i < len(got); i++ {
		if got[i] != D {
			t.Fatalf("round %d: expected all-defect policy after probe, got %v", i+1, got)
		}
	}
}

func TestAdaptivePavlovKeepsTFTAgainstCooperator(t *testing.T) {
	script := make([]game.Action, 12)
	for i := range script {
		script[i] = C
	}
	got := playScript(t, AdaptivePavlov(), script)
	for i, m := range got {
		if m != C {
			t.Fatalf("round %d: expected sustained cooperation, got %v", i+1, got)
		}
	}
}

func TestBuilderProducesFreshInstances(t *testing.T) {
	b := GrimTrigger()
	first := b.New()
	rng := rand.New(rand.NewSource(1))

	// Poison the first instance's trigger.
	hist := game.History{{Own: C, Opponent: D}}
	if got := first.Decide(rng, hist, nil); got != D {
		t.Fatalf("expected triggered grim to defect, got %v", got)
	}

	// A second instance must start clean.
	second := b.New()
	if got := second.Decide(rng, nil, nil); got != C {
		t.Errorf("fresh grim instance inherited state: opened with %v", got)
	}
}
