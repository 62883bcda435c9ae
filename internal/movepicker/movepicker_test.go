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

package movepicker

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nkorth/zugzwang/internal/config"
	"github.com/nkorth/zugzwang/internal/movegen"
	"github.com/nkorth/zugzwang/internal/position"
	. "github.com/nkorth/zugzwang/internal/types"
)

func TestMain(m *testing.M) {
	config.Setup()
	code := m.Run()
	os.Exit(code)
}

func TestPvMoveFirst(t *testing.T) {
	p := position.NewPosition()
	mg := movegen.NewMoveGen()
	mp := New(mg)

	ttMove := mg.GetMoveFromUci(p, "e2e4")
	assert.True(t, ttMove.IsValid())

	mp.Init(ttMove)
	first := mp.Next(p, movegen.GenAll)
	assert.EqualValues(t, ttMove.MoveOf(), first.MoveOf())
	assert.Equal(t, StagePv, mp.Stage)
}

func TestNoisyStage(t *testing.T) {
	// single capture available - the picker must label it good noisy
	p, _ := position.NewPositionFen("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	mg := movegen.NewMoveGen()
	mp := New(mg)
	mp.Init(MoveNone)

	capture := mg.GetMoveFromUci(p, "e4d5")
	for move := mp.Next(p, movegen.GenAll); move != MoveNone; move = mp.Next(p, movegen.GenAll) {
		if move.MoveOf() == capture.MoveOf() {
			assert.Equal(t, StageGoodNoisy, mp.Stage)
			return
		}
	}
	t.Fatal("capture never produced by picker")
}

func TestKillerAndCounterStages(t *testing.T) {
	p := position.NewPosition()
	mg := movegen.NewMoveGen()
	mp := New(mg)

	killer := mg.GetMoveFromUci(p, "b1c3")
	counter := mg.GetMoveFromUci(p, "g1f3")
	mg.StoreKiller(killer)

	mp.Init(MoveNone)
	mp.SetCounter(counter)
	assert.EqualValues(t, killer.MoveOf(), mp.Killer1)

	seenKiller, seenCounter := false, false
	for move := mp.Next(p, movegen.GenAll); move != MoveNone; move = mp.Next(p, movegen.GenAll) {
		switch move.MoveOf() {
		case killer.MoveOf():
			assert.Equal(t, StageKiller, mp.Stage)
			seenKiller = true
		case counter.MoveOf():
			assert.Equal(t, StageCounter, mp.Stage)
			seenCounter = true
		}
	}
	assert.True(t, seenKiller)
	assert.True(t, seenCounter)
}

func TestNoisyOnlyIteration(t *testing.T) {
	p, _ := position.NewPositionFen("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	mg := movegen.NewMoveGen()
	mp := New(mg)
	mp.Init(MoveNone)

	count := 0
	for move := mp.NextNoisy(p); move != MoveNone; move = mp.NextNoisy(p) {
		assert.True(t, p.IsCapturingMove(move) || move.MoveType() == Promotion)
		count++
	}
	assert.Equal(t, 1, count) // exd5 is the only capture
}
