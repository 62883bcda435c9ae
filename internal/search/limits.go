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
	"time"

	"github.com/nkorth/zugzwang/internal/moveslice"
)

// Limits holds everything the UCI "go" command said about how the search
// shall be bounded. The search only ever reads it; the UCI layer fills
// it in. The zero value means an unbounded (infinite-like) search.
type Limits struct {
	// modes without any time control
	Infinite bool
	Ponder   bool
	Mate     int

	// extra limits
	Depth int
	Nodes uint64
	Moves moveslice.MoveSlice

	// time control
	TimeControl bool
	WhiteTime   time.Duration
	BlackTime   time.Duration
	WhiteInc    time.Duration
	BlackInc    time.Duration
	MoveTime    time.Duration

	// parameter
	MovesToGo int
}

// NewSearchLimits creates a new empty Limits
// instance and returns a pointer to it
func NewSearchLimits() *Limits {
	return &Limits{}
}

// LimitedByDepth reports whether the search must stop after a fixed
// iterative deepening depth.
func (sl *Limits) LimitedByDepth() bool {
	return sl.Depth > 0
}

// LimitedByNodes reports whether the search must stop after a fixed
// number of visited nodes.
func (sl *Limits) LimitedByNodes() bool {
	return sl.Nodes > 0
}

// LimitedByMoveTime reports whether a fixed time per move was given.
func (sl *Limits) LimitedByMoveTime() bool {
	return sl.TimeControl && sl.MoveTime > 0
}

// LimitedBySelf reports whether the engine manages its own time budget
// from the remaining game clock.
func (sl *Limits) LimitedBySelf() bool {
	return sl.TimeControl && sl.MoveTime == 0
}
