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

package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/nkorth/zugzwang/internal/types"
)

func TestLmrReductionFormula(t *testing.T) {
	// spot check the precomputed table against the formula
	for _, tc := range []struct{ depth, moves int }{
		{3, 4}, {8, 12}, {20, 30}, {63, 63},
	} {
		want := int(math.Floor(0.75 + math.Log(float64(tc.depth))*math.Log(float64(tc.moves))/2.25))
		assert.Equal(t, want, LmrReduction(tc.depth, tc.moves),
			"depth %d moves %d", tc.depth, tc.moves)
	}
}

func TestLmrReductionBounds(t *testing.T) {
	// depth/moves of 0 never reduce, out of range indices are clamped
	assert.Equal(t, 0, LmrReduction(0, 10))
	assert.Equal(t, 0, LmrReduction(10, 0))
	assert.Equal(t, 0, LmrReduction(1, 30))
	assert.Equal(t, LmrReduction(63, 63), LmrReduction(1000, 1000))
}

func TestLateMovePruningCounts(t *testing.T) {
	// improving positions must always allow at least as many quiet moves
	for depth := 0; depth <= LateMovePruningDepth; depth++ {
		assert.GreaterOrEqual(t, LateMovePruningCounts[1][depth], LateMovePruningCounts[0][depth])
	}
	// deeper nodes must always allow at least as many quiet moves
	for improving := 0; improving < 2; improving++ {
		for depth := 1; depth <= LateMovePruningDepth; depth++ {
			assert.GreaterOrEqual(t, LateMovePruningCounts[improving][depth], LateMovePruningCounts[improving][depth-1])
		}
	}
}

func TestValueToTTRoundTrip(t *testing.T) {
	values := []Value{
		0, 1, -1, 100, -100, 5000, -5000,
		ValueCheckMate, -ValueCheckMate,
		ValueCheckMate - 3, -ValueCheckMate + 5,
	}
	plies := []int{0, 1, 5, 42, MaxDepth - 1}
	for _, v := range values {
		for _, ply := range plies {
			assert.EqualValues(t, v, valueFromTT(valueToTT(v, ply), ply),
				"value %d ply %d", v, ply)
		}
	}
}

func TestSkipPatternDiversifies(t *testing.T) {
	// every helper must still search an infinite subset of depths - a
	// skip pattern that skips everything would idle the worker
	for cycle := 0; cycle < SMPCycles; cycle++ {
		// a skip size of 1 would make a helper skip every single depth
		assert.Greater(t, SkipSize[cycle], 1, "cycle %d skips everything", cycle)
		searched := 0
		for depth := 1; depth <= 20; depth++ {
			if (depth+SkipDepths[cycle])%SkipSize[cycle] != 0 {
				searched++
			}
		}
		assert.GreaterOrEqual(t, searched, 10, "cycle %d searches too little", cycle)
	}
}
