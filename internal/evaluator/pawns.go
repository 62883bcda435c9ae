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
	. "github.com/nkorth/zugzwang/internal/config"
	. "github.com/nkorth/zugzwang/internal/types"
)

// evaluatePawns scores the pawn structures of both sides from the view
// of white. As the result depends on the pawns only it is cached by
// the pawn structure's own zobrist key when the pawn cache is enabled.
func (e *Evaluator) evaluatePawns() *Score {
	tmpScore.MidGameValue = 0
	tmpScore.EndGameValue = 0

	// look on cache table
	if Settings.Eval.UsePawnCache {
		entry := e.pawnCache.getEntry(e.position.PawnKey())
		if entry != nil {
			tmpScore.MidGameValue = entry.score.MidGameValue
			tmpScore.EndGameValue = entry.score.EndGameValue
			return &tmpScore
		}
	}

	// no cache hit - calculate
	white := e.pawnStructureScore(White)
	black := e.pawnStructureScore(Black)
	tmpScore.MidGameValue = white.MidGameValue - black.MidGameValue
	tmpScore.EndGameValue = white.EndGameValue - black.EndGameValue

	// store in cache
	if Settings.Eval.UsePawnCache {
		e.pawnCache.put(e.position.PawnKey(), &tmpScore)
	}

	return &tmpScore
}

// pawnStructureScore scores one color's pawn structure from that color's
// point of view. Maluses are stored as negative configuration values so
// they are always added.
func (e *Evaluator) pawnStructureScore(us Color) Score {
	var s Score
	them := us.Flip()
	up := us.MoveDirection()
	ourPawns := e.position.PiecesBb(us, Pawn)
	theirPawns := e.position.PiecesBb(them, Pawn)
	occupied := e.position.OccupiedAll()

	pawns := ourPawns
	for pawns != BbZero {
		sq := pawns.PopLsb()

		// squares in front of the pawn on its own file
		var front Bitboard
		if us == White {
			front = sq.RanksNorthMask() & sq.FileOf().Bb()
		} else {
			front = sq.RanksSouthMask() & sq.FileOf().Bb()
		}

		// isolated - no friendly pawn on a neighbouring file
		if sq.NeighbourFilesMask()&ourPawns == BbZero {
			s.MidGameValue += Settings.Eval.PawnIsolatedMidMalus
			s.EndGameValue += Settings.Eval.PawnIsolatedEndMalus
		}

		// doubled - friendly pawn in front on the same file
		// (counted once per rear pawn)
		if front&ourPawns != BbZero {
			s.MidGameValue += Settings.Eval.PawnDoubledMidMalus
			s.EndGameValue += Settings.Eval.PawnDoubledEndMalus
		}

		// passed - no enemy pawn ahead on own or neighbouring files
		if sq.PassedPawnMask(us)&theirPawns == BbZero {
			s.MidGameValue += Settings.Eval.PawnPassedMidBonus
			s.EndGameValue += Settings.Eval.PawnPassedEndBonus
		}

		// blocked - the stop square is occupied
		if ShiftBitboard(sq.Bb(), up)&occupied != BbZero {
			s.MidGameValue += Settings.Eval.PawnBlockedMidMalus
			s.EndGameValue += Settings.Eval.PawnBlockedEndMalus
		}

		// phalanx - friendly pawn directly beside
		if (ShiftBitboard(sq.Bb(), East)|ShiftBitboard(sq.Bb(), West))&ourPawns != BbZero {
			s.MidGameValue += Settings.Eval.PawnPhalanxMidBonus
			s.EndGameValue += Settings.Eval.PawnPhalanxEndBonus
		}

		// supported - defended by a friendly pawn
		if GetPawnAttacks(them, sq)&ourPawns != BbZero {
			s.MidGameValue += Settings.Eval.PawnSupportedMidBonus
			s.EndGameValue += Settings.Eval.PawnSupportedEndBonus
		}
	}

	return s
}
