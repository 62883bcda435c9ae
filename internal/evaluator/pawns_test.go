/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/nkorth/zugzwang/internal/config"
	"github.com/nkorth/zugzwang/internal/position"
	. "github.com/nkorth/zugzwang/internal/types"
)

func TestEvalPiecePawnsCache(t *testing.T) {
	Settings.Eval.UsePawnEval = true
	Settings.Eval.UsePawnCache = true

	e := NewEvaluator()
	Settings.Eval.Tempo = 0
	p := position.NewPosition()
	var score *Score
	e.InitEval(p)

	assert.EqualValues(t, 0, e.pawnCache.len())
	assert.EqualValues(t, 0, e.pawnCache.hits)
	assert.EqualValues(t, 0, e.pawnCache.misses)

	score = e.evaluatePawns()
	assert.EqualValues(t, 1, e.pawnCache.len())
	assert.EqualValues(t, 0, e.pawnCache.hits)
	assert.EqualValues(t, 1, e.pawnCache.misses)

	score2 := e.evaluatePawns()
	assert.EqualValues(t, 1, e.pawnCache.len())
	assert.EqualValues(t, 1, e.pawnCache.hits)
	assert.EqualValues(t, 1, e.pawnCache.misses)

	assert.EqualValues(t, score, score2)
}

func TestEvalPiecePawns(t *testing.T) {
	Settings.Eval.UsePawnEval = true
	Settings.Eval.UsePawnCache = false

	e := NewEvaluator()
	Settings.Eval.Tempo = 0
	p := position.NewPosition()
	var score *Score
	e.InitEval(p)

	// the start position is symmetric - everything cancels out
	score = e.evaluatePawns()
	assert.EqualValues(t, 0, score.MidGameValue)
	assert.EqualValues(t, 0, score.EndGameValue)
	out.Printf("Pawns: %s\n", score)
}

func TestPawnStructureTerms(t *testing.T) {
	Settings.Eval.UsePawnEval = true
	Settings.Eval.UsePawnCache = false

	e := NewEvaluator()

	// a single white pawn: isolated and passed, nothing else
	p, _ := position.NewPositionFen("4k3/8/8/8/3P4/8/8/4K3 w - - 0 1")
	e.InitEval(p)
	score := e.evaluatePawns()
	assert.EqualValues(t,
		Settings.Eval.PawnIsolatedMidMalus+Settings.Eval.PawnPassedMidBonus,
		score.MidGameValue)
	assert.EqualValues(t,
		Settings.Eval.PawnIsolatedEndMalus+Settings.Eval.PawnPassedEndBonus,
		score.EndGameValue)

	// white c3/d4 vs black d5: d4 is blocked but supported, the black
	// d-pawn is isolated and blocked in return
	p, _ = position.NewPositionFen("4k3/8/8/3p4/3P4/2P5/8/4K3 w - - 0 1")
	e.InitEval(p)
	score = e.evaluatePawns()
	whiteMid := Settings.Eval.PawnBlockedMidMalus + Settings.Eval.PawnSupportedMidBonus
	whiteEnd := Settings.Eval.PawnBlockedEndMalus + Settings.Eval.PawnSupportedEndBonus
	blackMid := Settings.Eval.PawnIsolatedMidMalus + Settings.Eval.PawnBlockedMidMalus
	blackEnd := Settings.Eval.PawnIsolatedEndMalus + Settings.Eval.PawnBlockedEndMalus
	assert.EqualValues(t, whiteMid-blackMid, score.MidGameValue)
	assert.EqualValues(t, whiteEnd-blackEnd, score.EndGameValue)
}
