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

// Package history provides data structures and functionality to manage
// history driven move tables (e.g. history counter, counter moves, counter
// move history and follow-up move history) used by the search to sort and
// prune quiet moves.
package history

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	. "github.com/nkorth/zugzwang/internal/types"
)

var out = message.NewPrinter(language.German)

const maxBonus = 2000

// History is a data structure updated during search to provide the move
// picker with valuable information for move sorting and quiet-move pruning.
//
// HistoryCount is the classic "butterfly" table indexed by side to move,
// from-square and to-square. CounterMoves remembers, per opponent move, the
// quiet reply that refuted it best. CounterMoveHist and FollowUpHist score a
// candidate quiet move against the piece/to-square pair of the move played
// one and two plies earlier respectively.
type History struct {
	HistoryCount    [2][64][64]int64
	CounterMoves    [64][64]Move
	CounterMoveHist [PtLength][64][PtLength][64]int64
	FollowUpHist    [PtLength][64][PtLength][64]int64
}

// NewHistory creates a new History instance.
func NewHistory() *History {
	return &History{}
}

// Get returns the butterfly history score for a quiet move.
func (h *History) Get(c Color, from Square, to Square) int64 {
	return h.HistoryCount[c][from][to]
}

// GetCounterMoveHistory returns the counter-move-history score of playing
// (pt, to) the ply after (prevPt, prevTo) was played.
func (h *History) GetCounterMoveHistory(prevPt PieceType, prevTo Square, pt PieceType, to Square) int64 {
	if prevPt == PtNone || prevPt >= PtLength {
		return 0
	}
	return h.CounterMoveHist[prevPt][prevTo][pt][to]
}

// GetFollowUpHistory returns the follow-up-move-history score of playing
// (pt, to) two plies after (prevPt, prevTo) was played.
func (h *History) GetFollowUpHistory(prevPt PieceType, prevTo Square, pt PieceType, to Square) int64 {
	if prevPt == PtNone || prevPt >= PtLength {
		return 0
	}
	return h.FollowUpHist[prevPt][prevTo][pt][to]
}

// Update credits the move that caused a beta cutoff and penalizes every
// other quiet move tried before it at this node, following the standard
// "gravity" formula bonus-proportional-to-depth-squared, clamped so that a
// single position cannot run a bucket away to infinity.
func (h *History) Update(c Color, best Move, quietsTried []Move, depth int, prevPiece, prevPiece2 PieceType, prevTo, prevTo2 Square, bestPt PieceType) {
	bonus := depth * depth
	if bonus > maxBonus {
		bonus = maxBonus
	}
	h.add(c, best, int64(bonus))
	h.addCmh(prevPiece, prevTo, bestPt, best.To(), int64(bonus))
	h.addFmh(prevPiece2, prevTo2, bestPt, best.To(), int64(bonus))
	for _, m := range quietsTried {
		if m == best {
			continue
		}
		h.add(c, m, -int64(bonus))
		h.addCmh(prevPiece, prevTo, bestPt, m.To(), -int64(bonus))
		h.addFmh(prevPiece2, prevTo2, bestPt, m.To(), -int64(bonus))
	}
}

func (h *History) add(c Color, m Move, bonus int64) {
	from, to := m.From(), m.To()
	v := h.HistoryCount[c][from][to] + bonus - h.HistoryCount[c][from][to]*abs64(bonus)/32768
	h.HistoryCount[c][from][to] = v
}

func (h *History) addCmh(prevPt PieceType, prevTo Square, pt PieceType, to Square, bonus int64) {
	if prevPt == PtNone || prevPt >= PtLength {
		return
	}
	v := h.CounterMoveHist[prevPt][prevTo][pt][to]
	h.CounterMoveHist[prevPt][prevTo][pt][to] = v + bonus - v*abs64(bonus)/32768
}

func (h *History) addFmh(prevPt PieceType, prevTo Square, pt PieceType, to Square, bonus int64) {
	if prevPt == PtNone || prevPt >= PtLength {
		return
	}
	v := h.FollowUpHist[prevPt][prevTo][pt][to]
	h.FollowUpHist[prevPt][prevTo][pt][to] = v + bonus - v*abs64(bonus)/32768
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// SetCounterMove records move as the refutation played in reply to
// (from, to).
func (h *History) SetCounterMove(from, to Square, move Move) {
	h.CounterMoves[from][to] = move
}

// GetCounterMove returns the recorded refutation of (from, to), or MoveNone.
func (h *History) GetCounterMove(from, to Square) Move {
	return h.CounterMoves[from][to]
}

func (h History) String() string {
	sb := strings.Builder{}
	for sf := SqA1; sf < SqNone; sf++ {
		for st := SqA1; st < SqNone; st++ {
			sb.WriteString(out.Sprintf("Move=%s%s: ", sf.String(), st.String()))
			for c := White; c <= 1; c++ {
				count := h.HistoryCount[c][sf][st]
				sb.WriteString(out.Sprintf("%s=%-7d ", c.String(), count))
			}
			m := h.CounterMoves[sf][st]
			sb.WriteString(out.Sprintf("cm=%s\n", m.StringUci()))
		}
	}
	return sb.String()
}
