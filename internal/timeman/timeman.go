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

// Package timeman is the search core's time-management collaborator. It
// turns UCI time-control inputs (clock, increment, moves-to-go) into a
// concrete time budget for the current move and tells the main search
// worker when that budget is spent. Extracted from the teacher's inline
// setupTimeControl/addExtraTime/startTimer methods on search.Search so
// the policy can be unit tested and reasoned about apart from the search
// tree itself - the search core only ever queries it, never computes a
// time budget on its own.
package timeman

import (
	"time"

	"github.com/nkorth/zugzwang/internal/logging"
	"github.com/nkorth/zugzwang/internal/util"
)

var log = logging.GetLog()

// Manager owns the time budget for one search and the background timer
// that watches it. The zero value is not usable - create with New().
type Manager struct {
	idealUsage time.Duration
	maxUsage   time.Duration
	extraTime  time.Duration
	startTime  time.Time

	timeControl bool
	ponder      bool

	expired *util.Bool
	stopped *util.Bool
	stop    chan struct{}
}

// New creates an idle Manager. Call Start to begin timing a search.
func New() *Manager {
	return &Manager{
		expired: util.NewBool(false),
		stopped: util.NewBool(true),
	}
}

// ComputeLimit estimates the time budget for the side to move, mirroring
// the teacher's setupTimeControl: moveTime (if set) is used directly
// (minus a small safety margin); otherwise the remaining clock is
// divided across an estimated number of moves left, itself derived from
// movesToGo when given or from the game-phase factor otherwise, then
// trimmed by a further safety margin.
func ComputeLimit(moveTime, timeLeft, timeIncrement time.Duration, movesToGo int, gamePhaseFactor float64) time.Duration {
	if moveTime > 0 {
		duration := moveTime - 20*time.Millisecond
		if duration < 0 {
			return moveTime
		}
		return duration
	}

	movesLeft := int64(movesToGo)
	if movesLeft == 0 {
		movesLeft = int64(15 + 25*gamePhaseFactor)
	}

	totalLeft := timeLeft + time.Duration(movesLeft*timeIncrement.Nanoseconds())
	limit := time.Duration(totalLeft.Nanoseconds() / movesLeft)

	if limit.Milliseconds() < 100 {
		limit = time.Duration(int64(0.8 * float64(limit.Nanoseconds())))
	} else {
		limit = time.Duration(int64(0.9 * float64(limit.Nanoseconds())))
	}
	return limit
}

// Start records idealUsage as the computed limit, sets maxUsage to a 50%
// overrun allowance (enough slack to finish an iteration already in
// flight), and - unless pondering, which postpones all time-based exits
// until PonderHit - launches the background watchdog goroutine.
func (m *Manager) Start(idealUsage time.Duration, ponder bool) {
	m.idealUsage = idealUsage
	m.maxUsage = idealUsage + idealUsage/2
	m.extraTime = 0
	m.startTime = time.Now()
	m.timeControl = true
	m.ponder = ponder
	m.expired.Store(false)
	m.stopped.Store(false)
	m.stop = make(chan struct{})
	if !ponder {
		m.watch()
	}
}

// Reset returns the manager to idle for a search without time control so
// that state latched by a previous timed search cannot leak into it.
func (m *Manager) Reset() {
	m.Stop()
	m.timeControl = false
	m.ponder = false
	m.expired.Store(false)
}

// PonderHit activates the watchdog for a search that started pondering.
func (m *Manager) PonderHit() {
	if m.timeControl && m.ponder {
		m.ponder = false
		m.startTime = time.Now()
		m.watch()
	}
}

// watch runs a relaxed busy-wait goroutine that flips expired once the
// ideal usage (plus any added extra time) has elapsed.
func (m *Manager) watch() {
	go func() {
		log.Debugf("Timeman: watchdog started with ideal usage %s", m.idealUsage)
		for {
			select {
			case <-m.stop:
				return
			default:
			}
			if m.ponder {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if time.Since(m.startTime) >= m.idealUsage+m.extraTime {
				m.expired.Store(true)
				log.Debugf("Timeman: watchdog expired after %s", time.Since(m.startTime))
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()
}

// Stop tears down the watchdog goroutine without flagging expiry -
// used when the search finishes (or is stopped) on its own. Safe to
// call more than once, both the UCI goroutine and the search's own
// cleanup path do.
func (m *Manager) Stop() {
	if m.stop != nil && m.stopped.CAS(false, true) {
		close(m.stop)
	}
}

// AddExtraTime adds/subtracts a fraction of the ideal usage to the
// running budget. f=1.0 is a no-op, f=0.9 trims 10%, f=1.1 extends 10%.
func (m *Manager) AddExtraTime(f float64) {
	if !m.timeControl {
		return
	}
	delta := time.Duration(int64((f - 1.0) * float64(m.idealUsage.Nanoseconds())))
	m.extraTime += delta
	log.Debugf("Timeman: extra time adjusted by %s to %s", delta, m.idealUsage+m.extraTime)
}

// Elapsed returns the wall time since Start was called (or since
// PonderHit, which restarts the clock).
func (m *Manager) Elapsed() time.Duration {
	if m.startTime.IsZero() {
		return 0
	}
	return time.Since(m.startTime)
}

// IdealUsage returns the soft time budget used to size the per-depth
// decision of whether another iteration is worth starting.
func (m *Manager) IdealUsage() time.Duration {
	return m.idealUsage
}

// MaxUsage returns the hard ceiling a worker mid-iteration should never
// be allowed to exceed by much.
func (m *Manager) MaxUsage() time.Duration {
	return m.maxUsage
}

// TerminateSearchEarly reports whether the watchdog has fired. Pondering
// suppresses this unconditionally, matching the teacher's own ponder
// handling in search.go's run().
func (m *Manager) TerminateSearchEarly() bool {
	if m.ponder {
		return false
	}
	return m.expired.Load()
}

// TimeControlled reports whether this manager is governing a time
// controlled search at all (as opposed to depth/node/infinite limits).
func (m *Manager) TimeControlled() bool {
	return m.timeControl
}
