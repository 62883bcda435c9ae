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

package timeman

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeLimitMoveTime(t *testing.T) {
	// explicit move time is used directly minus a safety margin
	limit := ComputeLimit(2*time.Second, 0, 0, 0, 1.0)
	assert.Equal(t, 1980*time.Millisecond, limit)
}

func TestComputeLimitMovesToGo(t *testing.T) {
	// 60s + 20 * 2s inc over 20 moves = 5s per move, minus 10%
	limit := ComputeLimit(0, 60*time.Second, 2*time.Second, 20, 1.0)
	assert.Equal(t, 4500*time.Millisecond, limit)
}

func TestComputeLimitSuddenDeath(t *testing.T) {
	// no moves-to-go: moves left estimated from the game phase
	limit := ComputeLimit(0, 60*time.Second, 2*time.Second, 0, 1.0)
	assert.Equal(t, 3150*time.Millisecond, limit)
}

func TestWatchdogExpires(t *testing.T) {
	m := New()
	m.Start(50*time.Millisecond, false)
	assert.False(t, m.TerminateSearchEarly())
	time.Sleep(150 * time.Millisecond)
	assert.True(t, m.TerminateSearchEarly())
	m.Stop()
}

func TestStopIsIdempotent(t *testing.T) {
	m := New()
	m.Stop() // never started - must not panic
	m.Start(time.Minute, false)
	m.Stop()
	m.Stop() // second stop must not panic either
}

func TestPonderSuppressesExpiry(t *testing.T) {
	m := New()
	m.Start(10*time.Millisecond, true)
	time.Sleep(50 * time.Millisecond)
	assert.False(t, m.TerminateSearchEarly())
	m.PonderHit()
	time.Sleep(100 * time.Millisecond)
	assert.True(t, m.TerminateSearchEarly())
	m.Stop()
}

func TestResetClearsTimeControl(t *testing.T) {
	m := New()
	m.Start(time.Millisecond, false)
	time.Sleep(50 * time.Millisecond)
	assert.True(t, m.TimeControlled())
	assert.True(t, m.TerminateSearchEarly())

	// a following infinite search must not inherit the expired flag
	m.Reset()
	assert.False(t, m.TimeControlled())
	assert.False(t, m.TerminateSearchEarly())
}
