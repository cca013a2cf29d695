package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concentration-server/matcherrors"
)

func startedEngine(t *testing.T, catalog []CardFace) *Engine {
	t.Helper()
	e := NewEngine(rand.New(rand.NewSource(3)))
	_, err := e.Start(catalog)
	require.NoError(t, err)
	return e
}

// pairIndices returns the two board indices holding pairID.
func pairIndices(cards []Card, pairID int) (int, int) {
	var found []int
	for _, c := range cards {
		if c.PairID == pairID {
			found = append(found, c.Index)
		}
	}
	return found[0], found[1]
}

// findNonPair returns two face-down indices that show different faces.
func findNonPair(cards []Card) (int, int) {
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if cards[i].State == FaceDown && cards[j].State == FaceDown && cards[i].PairID != cards[j].PairID {
				return i, j
			}
		}
	}
	return -1, -1
}

func TestStart(t *testing.T) {
	e := NewEngine(nil)
	assert.False(t, e.Started())
	assert.Equal(t, NoSession, e.Phase())

	cards, err := e.Start(faces("a", "b", "c"))
	require.NoError(t, err)
	assert.Len(t, cards, 6)
	assert.True(t, e.Started())
	assert.Equal(t, 0, e.Flips())
	assert.Equal(t, 0, e.MatchedPairs())
	assert.Equal(t, 3, e.TotalPairs())
	assert.False(t, e.Locked())
	assert.Empty(t, e.Selection())
	assert.Equal(t, AwaitingFirst, e.Phase())
	assert.Equal(t, uint64(1), e.Generation())
}

func TestStartEmptyCatalogKeepsPreviousGame(t *testing.T) {
	e := startedEngine(t, faces("a"))
	_, err := e.Start(nil)
	assert.True(t, errors.Is(err, matcherrors.ErrEmptyCatalog))
	assert.Equal(t, uint64(1), e.Generation())
	assert.Equal(t, 1, e.TotalPairs())
}

func TestRestartReplacesState(t *testing.T) {
	e := startedEngine(t, faces("a", "b"))
	first := e.Cards()
	a0, _ := pairIndices(first, 0)
	_, err := e.Select(a0)
	require.NoError(t, err)

	_, err = e.Start(faces("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, 0, e.Flips())
	assert.Empty(t, e.Selection())
	assert.Equal(t, uint64(2), e.Generation())
	for _, c := range e.Cards() {
		assert.Equal(t, FaceDown, c.State)
	}
	assert.Equal(t, FaceDown, first[a0].State, "snapshots are not shared with the engine")
}

func TestSelectBeforeStart(t *testing.T) {
	e := NewEngine(nil)
	outcome, err := e.Select(0)
	assert.Equal(t, Ignored, outcome)
	assert.True(t, errors.Is(err, matcherrors.ErrNoSession))
	assert.True(t, errors.Is(e.ResolveMismatch(), matcherrors.ErrNoSession))
}

func TestSelectOutOfRange(t *testing.T) {
	e := startedEngine(t, faces("a"))
	for _, idx := range []int{-1, 2, 100} {
		outcome, err := e.Select(idx)
		assert.Equal(t, Ignored, outcome)
		assert.True(t, errors.Is(err, matcherrors.ErrCardOutOfRange))
	}
	assert.Equal(t, 0, e.Flips())
}

func TestTwoPairScenario(t *testing.T) {
	e := startedEngine(t, faces("A", "B"))
	cards := e.Cards()
	require.Len(t, cards, 4)

	a0, a1 := pairIndices(cards, 0)
	b0, b1 := pairIndices(cards, 1)

	outcome, err := e.Select(a0)
	require.NoError(t, err)
	assert.Equal(t, FirstPicked, outcome)
	assert.Equal(t, AwaitingSecond, e.Phase())

	outcome, err = e.Select(a1)
	require.NoError(t, err)
	assert.Equal(t, SecondPickedMatch, outcome)
	assert.Equal(t, 1, e.MatchedPairs())
	assert.Empty(t, e.Selection())
	assert.False(t, e.Locked())
	assert.Equal(t, Matched, e.Cards()[a0].State)
	assert.Equal(t, Matched, e.Cards()[a1].State)

	outcome, err = e.Select(b0)
	require.NoError(t, err)
	assert.Equal(t, FirstPicked, outcome)

	outcome, err = e.Select(b1)
	require.NoError(t, err)
	assert.Equal(t, GameWon, outcome)
	assert.Equal(t, 4, e.Flips())
	assert.Equal(t, 2, e.MatchedPairs())
	assert.Empty(t, e.Selection())
	assert.True(t, e.Won())
	assert.Equal(t, Won, e.Phase())
	assert.True(t, AllMatched(e.Cards()))
}

func TestMismatchScenario(t *testing.T) {
	e := startedEngine(t, faces("A", "B"))
	cards := e.Cards()
	a0, _ := pairIndices(cards, 0)
	b0, b1 := pairIndices(cards, 1)

	outcome, err := e.Select(a0)
	require.NoError(t, err)
	assert.Equal(t, FirstPicked, outcome)

	outcome, err = e.Select(b0)
	require.NoError(t, err)
	assert.Equal(t, SecondPickedMismatch, outcome)
	assert.True(t, e.Locked())
	assert.Equal(t, []int{a0, b0}, e.Selection())
	assert.Equal(t, Pending, e.Cards()[a0].State)
	assert.Equal(t, Pending, e.Cards()[b0].State)
	assert.Equal(t, MismatchShown, e.Phase())

	outcome, err = e.Select(b1)
	require.NoError(t, err)
	assert.Equal(t, Ignored, outcome, "board is locked while the mismatch is shown")
	assert.Equal(t, 2, e.Flips())

	require.NoError(t, e.ResolveMismatch())
	assert.False(t, e.Locked())
	assert.Empty(t, e.Selection())
	assert.Equal(t, FaceDown, e.Cards()[a0].State)
	assert.Equal(t, FaceDown, e.Cards()[b0].State)
	assert.Equal(t, 0, e.MatchedPairs())

	outcome, err = e.Select(b1)
	require.NoError(t, err)
	assert.Equal(t, FirstPicked, outcome)
	assert.Equal(t, 3, e.Flips())
}

func TestSelectSameCardTwiceIsIgnored(t *testing.T) {
	e := startedEngine(t, faces("A", "B"))
	outcome, err := e.Select(0)
	require.NoError(t, err)
	require.Equal(t, FirstPicked, outcome)

	outcome, err = e.Select(0)
	require.NoError(t, err)
	assert.Equal(t, Ignored, outcome)
	assert.Equal(t, 1, e.Flips())
	assert.Equal(t, []int{0}, e.Selection())
}

func TestSelectMatchedCardIsIgnored(t *testing.T) {
	e := startedEngine(t, faces("A", "B"))
	a0, a1 := pairIndices(e.Cards(), 0)
	_, err := e.Select(a0)
	require.NoError(t, err)
	_, err = e.Select(a1)
	require.NoError(t, err)

	for _, idx := range []int{a0, a1} {
		outcome, err := e.Select(idx)
		require.NoError(t, err)
		assert.Equal(t, Ignored, outcome)
	}
	assert.Equal(t, 2, e.Flips())
	assert.Empty(t, e.Selection())
}

func TestSelectAfterWinIsIgnored(t *testing.T) {
	e := startedEngine(t, faces("A"))
	_, err := e.Select(0)
	require.NoError(t, err)
	outcome, err := e.Select(1)
	require.NoError(t, err)
	require.Equal(t, GameWon, outcome)

	outcome, err = e.Select(0)
	require.NoError(t, err)
	assert.Equal(t, Ignored, outcome)
	assert.Equal(t, 2, e.Flips())
	assert.True(t, errors.Is(e.ResolveMismatch(), matcherrors.ErrNoPendingMismatch))
}

func TestResolveMismatchWithoutMismatch(t *testing.T) {
	e := startedEngine(t, faces("A", "B"))
	assert.True(t, errors.Is(e.ResolveMismatch(), matcherrors.ErrNoPendingMismatch))

	_, err := e.Select(0)
	require.NoError(t, err)
	assert.True(t, errors.Is(e.ResolveMismatch(), matcherrors.ErrNoPendingMismatch))
	assert.Equal(t, []int{0}, e.Selection(), "failed resolve leaves the selection alone")
}

func TestDuplicateFacesMatchByIdentity(t *testing.T) {
	// Two catalog entries with the same symbol are still separate pairs.
	e := startedEngine(t, faces("x", "x"))
	a0, _ := pairIndices(e.Cards(), 0)
	b0, _ := pairIndices(e.Cards(), 1)

	_, err := e.Select(a0)
	require.NoError(t, err)
	outcome, err := e.Select(b0)
	require.NoError(t, err)
	assert.Equal(t, SecondPickedMismatch, outcome)
}

// TestRandomPlayInvariants drives many games with random clicks and checks the
// counters and selection rules after every call.
func TestRandomPlayInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for game := 0; game < 200; game++ {
		n := 1 + rng.Intn(6)
		e := NewEngine(rng)
		_, err := e.Start(faces("a", "b", "c", "d", "e", "f")[:n])
		require.NoError(t, err)

		wins := 0
		lastMatched := 0
		for step := 0; step < 20000 && !e.Won(); step++ {
			if e.Phase() == MismatchShown {
				require.NoError(t, e.ResolveMismatch())
				continue
			}
			flipsBefore := e.Flips()
			outcome, err := e.Select(rng.Intn(2 * n))
			require.NoError(t, err)

			if outcome == Ignored {
				assert.Equal(t, flipsBefore, e.Flips())
			} else {
				assert.Equal(t, flipsBefore+1, e.Flips())
			}
			assert.LessOrEqual(t, len(e.Selection()), 2)
			for _, idx := range e.Selection() {
				assert.NotEqual(t, Matched, e.Cards()[idx].State)
			}
			assert.GreaterOrEqual(t, e.MatchedPairs(), lastMatched)
			switch outcome {
			case SecondPickedMatch:
				assert.Equal(t, lastMatched+1, e.MatchedPairs())
				assert.Less(t, e.MatchedPairs(), e.TotalPairs())
			case GameWon:
				wins++
				assert.Equal(t, e.TotalPairs(), e.MatchedPairs())
			case SecondPickedMismatch:
				assert.True(t, e.Locked())
				assert.Len(t, e.Selection(), 2)
			}
			lastMatched = e.MatchedPairs()
		}
		assert.True(t, e.Won())
		assert.Equal(t, 1, wins)
	}
}

func TestOutcomeAndPhaseStrings(t *testing.T) {
	assert.Equal(t, "ignored", Ignored.String())
	assert.Equal(t, "first_picked", FirstPicked.String())
	assert.Equal(t, "match", SecondPickedMatch.String())
	assert.Equal(t, "mismatch", SecondPickedMismatch.String())
	assert.Equal(t, "won", GameWon.String())
	assert.Equal(t, "unknown", Outcome(42).String())

	assert.Equal(t, "no_session", NoSession.String())
	assert.Equal(t, "awaiting_first", AwaitingFirst.String())
	assert.Equal(t, "awaiting_second", AwaitingSecond.String())
	assert.Equal(t, "mismatch_shown", MismatchShown.String())
	assert.Equal(t, "won", Won.String())
}

func TestFace(t *testing.T) {
	e := startedEngine(t, faces("A", "B"))
	for _, c := range e.Cards() {
		assert.Equal(t, e.Catalog()[c.PairID], e.Face(c))
	}
}

func TestFindNonPairHelper(t *testing.T) {
	e := startedEngine(t, faces("A", "B"))
	i, j := findNonPair(e.Cards())
	require.NotEqual(t, -1, i)
	outcome, err := e.Select(i)
	require.NoError(t, err)
	assert.Equal(t, FirstPicked, outcome)
	outcome, err = e.Select(j)
	require.NoError(t, err)
	assert.Equal(t, SecondPickedMismatch, outcome)
}
