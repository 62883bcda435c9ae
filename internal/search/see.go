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
	"github.com/nkorth/zugzwang/internal/attacks"
	"github.com/nkorth/zugzwang/internal/position"
	. "github.com/nkorth/zugzwang/internal/types"
)

// SEEPieceValues are the piece values used by the static exchange
// evaluator. These are independent from the evaluator's positional
// piece values - SEE only cares about material swap-offs.
var SEEPieceValues = [PtLength]Value{0, 20000, 100, 320, 330, 500, 900}

// staticExchangeEvaluation determines whether the capture sequence
// starting with move on toSquare wins material of at least threshold
// once all attackers and defenders have traded off in least-valuable-
// attacker order. It does not mutate p.
//
// The swap-off walks the attacker set square by square, always picking
// the weakest remaining attacker of the side to move next, re-deriving
// slider attacks after each virtual removal so x-rays behind the removed
// piece come into play (grounded on the teacher's AttacksTo/
// revealedAttacks helpers in the former gain-array see.go, combined with
// the weakest-attacker dispatch loop shape used by zurichess's SEE).
func staticExchangeEvaluation(p *position.Position, move Move, threshold Value) bool {
	if move.MoveType() == Castling {
		return threshold <= 0
	}

	from := move.From()
	to := move.To()

	var nextVictim PieceType
	if move.MoveType() == Promotion {
		nextVictim = move.PromotionType()
	} else {
		nextVictim = p.GetPiece(from).TypeOf()
	}

	// value of what we stand to gain from the very first capture,
	// including a promotion's own material gain
	balance := thisTacticalMoveValue(p, move) - threshold

	// if even winning the first exchange for free does not reach the
	// threshold we can stop immediately
	if balance < 0 {
		return false
	}

	// assume the losing side recaptures the moved piece (or a queen on
	// promotion) - if we would still be above threshold even after
	// losing it back, we are done
	balance -= SEEPieceValues[nextVictim]
	if balance >= 0 {
		return true
	}

	occupied := p.OccupiedAll()
	occupied.PopSquare(from)
	occupied.PopSquare(to)
	if move.MoveType() == EnPassant {
		epCaptureSquare := to.To(p.NextPlayer().Flip().MoveDirection())
		occupied.PopSquare(epCaptureSquare)
	}

	attackers := attacks.AllAttackersToSquare(p, to, occupied) & occupied

	us := p.NextPlayer()
	sideToMove := us.Flip()

	for {
		sideAttackers := attackers & p.OccupiedBb(sideToMove)
		if sideAttackers == BbZero {
			break
		}

		nextVictim, from = seeLeastValuableAttacker(p, sideAttackers, sideToMove)
		if from == SqNone {
			break
		}

		occupied.PopSquare(from)
		attackers &= occupied
		attackers |= attacks.AllAttackersToSquare(p, to, occupied) & occupied

		sideToMove = sideToMove.Flip()

		balance = -balance - 1 - SEEPieceValues[nextVictim]
		if balance >= 0 {
			// if the king recaptures but is still attacked the sequence
			// is illegal - the side that just "captured" can't do so
			if nextVictim == King && (attackers&p.OccupiedBb(sideToMove)) != BbZero {
				sideToMove = sideToMove.Flip()
			}
			break
		}
	}

	return us != sideToMove
}

// seeCapturedValue returns the material value of the piece that sits on
// move's destination square before the move is played, treating en
// passant as capturing the pawn on the capture square.
func seeCapturedValue(p *position.Position, move Move) Value {
	if move.MoveType() == EnPassant {
		return SEEPieceValues[Pawn]
	}
	captured := p.GetPiece(move.To())
	if captured == PieceNone {
		return 0
	}
	return SEEPieceValues[captured.TypeOf()]
}

// seeLeastValuableAttacker returns the weakest attacking piece type
// and its square out of the given attacker bitboard for color.
var seeAttackerOrder = [6]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

func seeLeastValuableAttacker(p *position.Position, attackers Bitboard, color Color) (PieceType, Square) {
	for _, pt := range seeAttackerOrder {
		bb := attackers & p.PiecesBb(color, pt)
		if bb != BbZero {
			return pt, bb.Lsb()
		}
	}
	return PtNone, SqNone
}
