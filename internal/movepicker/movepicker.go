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

// Package movepicker tracks which ordering stage the on demand move
// generator is currently serving. movegen.Movegen already yields moves in
// phases (PV, captures, non-captures); MovePicker rides that iterator and
// labels each move it hands out so the caller can tell a principled-variation
// or killer move from a plain quiet one without re-deriving that from the
// board. The label drives search.go's decision of when forward-pruning
// (futility, SEE, late-move pruning) is allowed to look at a move at all.
package movepicker

import (
	"github.com/nkorth/zugzwang/internal/movegen"
	"github.com/nkorth/zugzwang/internal/position"
	. "github.com/nkorth/zugzwang/internal/types"
)

// Stage identifies which ordering bucket the last move returned by Next
// belongs to, coarsest (best) first.
type Stage int

const (
	// StagePv is the principal-variation or transposition-table move.
	StagePv Stage = iota
	// StageGoodNoisy is a capture or promotion.
	StageGoodNoisy
	// StageKiller is a quiet move stored as a killer for this ply.
	StageKiller
	// StageCounter is a quiet move matching the counter-move table.
	StageCounter
	// StageQuiet is any other quiet move.
	StageQuiet
)

// MovePicker wraps a movegen.Movegen on-demand iterator and classifies each
// move it yields into a Stage. One MovePicker is created per ply's move
// generator (mirroring movegen.Movegen's own per-ply lifetime) and reset
// with Init before each position it is asked to iterate.
type MovePicker struct {
	mg *movegen.Movegen

	// Killer1/Killer2 mirror the generator's own killer slots so a caller
	// can test "was the move I just got a killer" without reaching into
	// movegen's private state.
	Killer1 Move
	Killer2 Move

	// Counter is the counter-move candidate for the ply being searched,
	// set by the caller via SetCounter before iteration starts.
	Counter Move

	// Stage is the classification of the move last returned by Next.
	Stage Stage

	ttMove Move
}

// New creates a MovePicker riding the given generator. The generator is not
// reset here - call Init for that once a position is known.
func New(mg *movegen.Movegen) *MovePicker {
	return &MovePicker{mg: mg}
}

// Init resets the underlying generator for a fresh iteration, seeding
// the PV/TT move that should come first.
func (mp *MovePicker) Init(ttMove Move) {
	mp.mg.ResetOnDemand()
	mp.ttMove = ttMove.MoveOf()
	if mp.ttMove != MoveNone {
		mp.mg.SetPvMove(mp.ttMove)
	}
	killers := mp.mg.KillerMoves()
	mp.Killer1 = killers[0]
	mp.Killer2 = killers[1]
	mp.Counter = MoveNone
}

// SetCounter records the counter-move candidate used to classify quiet
// moves during this iteration.
func (mp *MovePicker) SetCounter(move Move) {
	mp.Counter = move.MoveOf()
}

// Next returns the next move in generator order, or MoveNone when the
// iteration is exhausted, updating Stage to classify the move returned.
func (mp *MovePicker) Next(p *position.Position, mode movegen.GenMode) Move {
	move := mp.mg.GetNextMove(p, mode)
	if move == MoveNone {
		return MoveNone
	}
	mp.Stage = mp.classify(p, move)
	return move
}

// NextNoisy is a convenience for the qsearch/probcut callers that only ever
// want captures and promotions.
func (mp *MovePicker) NextNoisy(p *position.Position) Move {
	return mp.Next(p, movegen.GenCap)
}

func (mp *MovePicker) classify(p *position.Position, move Move) Stage {
	bare := move.MoveOf()
	switch {
	case bare == mp.ttMove:
		return StagePv
	case move.MoveType() == Promotion || p.IsCapturingMove(move):
		return StageGoodNoisy
	case bare == mp.Killer1 || bare == mp.Killer2:
		return StageKiller
	case mp.Counter != MoveNone && bare == mp.Counter:
		return StageCounter
	default:
		return StageQuiet
	}
}

// StoreKiller forwards a new killer to the underlying generator so future
// Init calls at this ply pick it up.
func (mp *MovePicker) StoreKiller(move Move) {
	mp.mg.StoreKiller(move)
}
