//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package search

import (
	"math"

	. "github.com/nkorth/zugzwang/internal/types"
)

// This file holds the tunable constants and pre-computed lookup tables
// that drive the pruning and reduction decisions of the main search.
// All values here are frozen for this release; none are read from the
// config file, matching the teacher's own split between "search
// configuration" (toggles in internal/config) and "search parameters"
// (these tables).

const (
	// MaxPly is the maximum recursion depth/height the search will
	// ever reach - mirrors types.MaxDepth, kept as a local alias so
	// this file reads the same as the spec it is grounded on.
	MaxPly = MaxDepth

	// Mate, MateInMax and MatedInMax bound the mate-score range used
	// throughout the search. These mirror types.ValueCheckMate and
	// types.ValueCheckMateThreshold under the names the spec uses.
	Mate       = ValueCheckMate
	MateInMax  = ValueCheckMateThreshold
	MatedInMax = -ValueCheckMateThreshold

	// TablebaseWinValue is the value reported with a root move found by a
	// DTZ tablebase probe; TablebaseLossValue is its negation. (Tree nodes
	// resolved by a WDL probe are scored from MateInMax instead.) They sit
	// well inside the mate
	// range so IsMate()-style callers never mistake a known endgame win
	// for a forced mate with an exact distance.
	TablebaseWinValue  = Value(8000)
	TablebaseLossValue = -TablebaseWinValue

	// TablebaseProbeDepth is the minimum remaining depth at which a WDL
	// probe is attempted inside the tree - mirrors the depth gate every
	// other pruning technique in this file uses.
	TablebaseProbeDepth = 0

	// WindowDepth is the minimum depth at which aspiration windows are
	// used at all; below it the full (-Mate, Mate) window is searched.
	WindowDepth = 5
	// WindowSize is the initial half-width of the aspiration window.
	WindowSize = Value(25)
	// WindowTimerMS is how long an aspiration re-search is allowed to
	// run before a bound (fail-low/fail-high) report is sent to the UI.
	WindowTimerMS = 3000

	// RazorDepth/RazorMargin gate razoring: at shallow depth, if the
	// static eval is far enough below alpha the position is assumed
	// lost even after a quiescence search.
	RazorDepth  = 2
	RazorMargin = Value(300)

	// BetaPruningDepth/BetaMargin gate reverse futility pruning: if
	// eval already clears beta by a depth-scaled margin, cut.
	BetaPruningDepth = 6
	BetaMargin       = Value(85)

	// NullMovePruningDepth is the minimum depth null-move pruning is
	// attempted at.
	NullMovePruningDepth = 3

	// ProbCutDepth/ProbCutMargin gate probcut: a shallow, reduced,
	// SEE-screened search used to prove a position is good enough to
	// exceed beta by a margin without a full-depth search.
	ProbCutDepth  = 5
	ProbCutMargin = Value(100)

	// FutilityMargin/FutilityPruningDepth gate move-loop futility
	// pruning of quiet moves near the leaves.
	FutilityMargin       = Value(90)
	FutilityPruningDepth = 8

	// LateMovePruningDepth gates late-move pruning of quiet moves once
	// enough quiets have already been searched at this node.
	LateMovePruningDepth = 8

	// SEEPruningDepth/SEENoisyMargin/SEEQuietMargin gate SEE-based
	// pruning of losing captures/quiets in the main move loop.
	SEEPruningDepth = 8
	SEENoisyMargin  = Value(-20) // per depth^2
	SEEQuietMargin  = Value(-64) // per depth

	// QSEEMargin/QFutilityMargin gate delta pruning and the noisy
	// move picker's SEE threshold inside quiescence search.
	QSEEMargin      = Value(0)
	QFutilityMargin = Value(150)

	// SMPCycles is the number of distinct depth-skip patterns handed
	// out round-robin to Lazy SMP helper threads.
	SMPCycles = 20
)

// FutilityPruningHistoryLimit is indexed by the improving flag (0/1)
// and bounds how much combined history score is still allowed to
// override a futility-set skip-quiets decision.
var FutilityPruningHistoryLimit = [2]int{12000, 20000}

// LateMovePruningCounts[improving][depth] is the number of quiet moves
// that may be searched at depth before late-move pruning kicks in.
var LateMovePruningCounts [2][LateMovePruningDepth + 1]int

// CounterMovePruningDepth/CounterMoveHistoryLimit and
// FollowUpMovePruningDepth/FollowUpMoveHistoryLimit gate skipping a
// single quiet move (not the whole remainder of the move loop) based
// on how poorly it scores in the counter-move/follow-up-move history
// tables, indexed by the improving flag.
var CounterMovePruningDepth = [2]int{3, 5}
var CounterMoveHistoryLimit = [2]int{0, 0}
var FollowUpMovePruningDepth = [2]int{2, 4}
var FollowUpMoveHistoryLimit = [2]int{0, 0}

// SEEPieceValues is declared in see.go and reused by params.go's
// probcut/SEE-margin documentation; it is the only piece-value table
// the search package needs for material swap-off reasoning.

// SkipDepths/SkipSize diversify Lazy SMP helper threads: a helper with
// workerIndex%SMPCycles == c skips iterative-deepening depths
// satisfying (depth+SkipDepths[c])%SkipSize[c] == 0, so helpers explore
// a staggered subset of depths instead of duplicating the main thread.
// Grounded on the classic Stockfish skip-depth table.
var SkipDepths = [SMPCycles]int{
	0, 1, 0, 1, 2, 0, 1, 2, 3, 0, 1, 2, 3, 4, 0, 1, 2, 3, 4, 5,
}
var SkipSize = [SMPCycles]int{
	2, 2, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 5, 6, 6, 6, 6, 6, 6,
}

// LMRTable[depth][movesSearched] = floor(0.75 + ln(depth)*ln(moves)/2.25),
// the literal late-move-reduction formula the spec names. depth/moves of
// 0 reduce to 0 since ln(0) is undefined and no reduction makes sense
// there anyway.
var LMRTable [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			r := math.Floor(0.75 + math.Log(float64(d))*math.Log(float64(m))/2.25)
			if r < 0 {
				r = 0
			}
			LMRTable[d][m] = int(r)
		}
	}
	for improving := 0; improving < 2; improving++ {
		for depth := 0; depth <= LateMovePruningDepth; depth++ {
			base := 3 + depth*depth
			if improving == 1 {
				base += base / 2
			}
			LateMovePruningCounts[improving][depth] = base
		}
	}
}

// LmrReduction returns the late-move-reduction amount for a move
// searched at the given depth and move-count-in-loop, clamped to the
// table's bounds.
func LmrReduction(depth int, movesSearched int) int {
	if depth >= 64 {
		depth = 63
	}
	if movesSearched >= 64 {
		movesSearched = 63
	}
	if depth < 1 || movesSearched < 1 {
		return 0
	}
	return LMRTable[depth][movesSearched]
}
