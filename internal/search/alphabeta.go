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
	"fmt"
	golog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/op/go-logging"

	. "github.com/nkorth/zugzwang/internal/config"
	"github.com/nkorth/zugzwang/internal/movegen"
	"github.com/nkorth/zugzwang/internal/movepicker"
	"github.com/nkorth/zugzwang/internal/moveslice"
	"github.com/nkorth/zugzwang/internal/position"
	"github.com/nkorth/zugzwang/internal/tablebase"
	"github.com/nkorth/zugzwang/internal/transpositiontable"
	. "github.com/nkorth/zugzwang/internal/types"
	"github.com/nkorth/zugzwang/internal/util"
)

var trace = false

// rootSearch starts the actual recursive alpha beta search with the root moves for the first ply.
// As root moves are treated a little different this separate function supports readability
// as mixing it with the normal search would require quite some "if ply==0" statements.
func (s *Search) rootSearch(position *position.Position, depth int, alpha Value, beta Value) {
	if trace {
		s.slog.Debugf("Ply %-2.d Depth %-2.d start: %s", 0, depth, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("Ply %-2.d Depth %-2.d end: %s", 0, depth, s.statistics.CurrentVariation.StringUci())
	}

	// In root search we search all moves and store the value
	// into the root moves themselves for sorting in the
	// next iteration
	// best move is stored in pv[0][0]
	// best value is stored in pv[0][0].value
	bestNodeValue := ValueNA
	var value Value

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
	for i, m := range *s.rootMoves {

		position.DoMove(m)
		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(m)
		s.statistics.CurrentRootMoveIndex = i
		s.statistics.CurrentRootMove = m

		// check repetition and 50 moves
		if s.checkDrawRepAnd50(position, 2) {
			value = ValueDraw
		} else {
			// ///////////////////////////////////////////////////////////////////
			// PVS
			// First move in a node is an assumed PV and searched with full search window
			if !Settings.Search.UsePVS || i == 0 {
				value = -s.search(position, depth-1, 1, -beta, -alpha, true, true)
			} else {
				// Null window search after the initial PV search.
				value = -s.search(position, depth-1, 1, -alpha-1, -alpha, false, true)
				// If this move improved alpha without exceeding beta we do a proper full window
				// search to get an accurate score.
				if value > alpha && value < beta && !s.stopConditions() {
					s.statistics.RootPvsResearches++
					value = -s.search(position, depth-1, 1, -beta, -alpha, true, true)
				}
			}
			// ///////////////////////////////////////////////////////////////////
		}

		s.statistics.CurrentVariation.PopBack()
		position.UndoMove()

		// we want to do at least one complete search with depth 1
		// After that we can stop any time - any new best moves will
		// have been stored in pv[0]
		if s.stopConditions() && depth > 1 {
			return
		}

		// set the value into the root move to later be able to sort
		// root moves according to value
		s.rootMoves.Set(i, m.SetValue(value))

		// Did we find a better move for this node (not ply)?
		// For the first move this is always the case.
		if value > bestNodeValue {
			// new best value
			bestNodeValue = value
			// we have a new pv[0][0] - store pv+1 to pv
			savePV(m, s.pv[1], s.pv[0])
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////
}

// search is the normal alpha beta search after the root move ply (ply > 0)
// it will be called recursively until the remaining depth == 0 and we would
// enter quiescence search. Search consumes about 60% of the search time and
// all major prunings are done here. Quiescence search uses about 40% of the
// search time and has less options for pruning as not all moves are searched.
func (s *Search) search(p *position.Position, depth int, ply int, alpha Value, beta Value, isPV bool, doNull bool) Value {
	if trace {
		s.slog.Debugf("%0*s Ply %-2.d Depth %-2.d a:%-6.d b:%-6.d pv:%-6.v start:  %s", ply, "", ply, depth, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("%0*s Ply %-2.d Depth %-2.d a:%-6.d b:%-6.d pv:%-6.v end  :  %s", ply, "", ply, depth, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
	}

	// Check if search should be stopped
	if s.stopConditions() {
		return ValueNA
	}

	// Enter quiescence search when depth == 0 or max ply has been reached
	if depth <= 0 || ply >= MaxDepth {
		return s.qsearch(p, ply, alpha, beta, isPV)
	}

	origAlpha := alpha

	// Mate Distance Pruning
	// Did we already find a shorter mate then ignore
	// this one.
	if Settings.Search.UseMDP {
		if alpha < -ValueCheckMate+Value(ply) {
			alpha = -ValueCheckMate + Value(ply)
		}
		if beta > ValueCheckMate-Value(ply)-1 {
			beta = ValueCheckMate - Value(ply) - 1
		}
		if alpha >= beta {
			s.statistics.Mdp++
			return alpha
		}
	}

	// prepare node search
	us := p.NextPlayer()
	bestNodeValue := ValueNA
	bestNodeMove := MoveNone // used to store in the TT
	ttMove := MoveNone
	ttType := UPPER
	hasCheck := p.HasCheck()
	matethreat := false

	// TT Lookup
	// Results of searches are stored in the TT to be used to avoid searching
	// positions several times. We use the stored move as a best move from
	// previous searches and search it first. If we have a value from a
	// similar or deeper search we check if the value is usable.
	var ttEntry *transpositiontable.TtEntry
	var ttHasEval bool
	var ttEval Value
	if Settings.Search.UseTT {
		ttEntry = s.tt.Probe(p.ZobristKey())
		if ttEntry != nil { // tt hit
			s.statistics.TTHit++
			ttMove = ttEntry.Move()
			ttHasEval = ttEntry.Eval().IsValid()
			ttEval = ttEntry.Eval()
			if int(ttEntry.Depth()) >= depth {
				ttValue := valueFromTT(ttEntry.Value(), ply)
				cut := false
				switch {
				case !ttValue.IsValid():
					cut = false
				case ttEntry.Vtype() == EXACT:
					cut = true
				case ttEntry.Vtype() == UPPER && ttValue <= alpha:
					cut = true
				case ttEntry.Vtype() == LOWER && ttValue >= beta:
					cut = true
				}
				// inside a PV we keep searching for an accurate line even
				// when the stored value would allow a cut
				if cut && Settings.Search.UseTTValue && (!isPV || depth == 0) {
					s.getPVLine(p, s.pv[ply], depth)
					s.statistics.TTCuts++
					return ttValue
				}
				s.statistics.TTNoCuts++
			}
		} else {
			s.statistics.TTMiss++
		}
	}

	// Tablebase WDL probe - only below the root, and only deep enough to
	// be worth the lookup. With no tables loaded this always misses and
	// falls straight through to the normal static evaluation.
	if ply > 0 && depth >= TablebaseProbeDepth {
		if wdl := s.tb.ProbeWDL(p, depth, TablebaseProbeDepth); wdl != tablebase.WdlFailed {
			s.statistics.TBHits++
			var tbValue Value
			var tbBound ValueType
			switch wdl {
			case tablebase.WdlWin:
				tbValue = ValueCheckMateThreshold - Value(ply)
				tbBound = LOWER
			case tablebase.WdlLoss:
				tbValue = -ValueCheckMateThreshold + Value(ply)
				tbBound = UPPER
			default:
				tbValue = ValueDraw
				tbBound = EXACT
			}
			// only take the probe when its bound would cut this node;
			// store at near-max depth so the result is never re-derived
			if tbBound == EXACT ||
				(tbBound == LOWER && tbValue >= beta) ||
				(tbBound == UPPER && tbValue <= alpha) {
				if Settings.Search.UseTT {
					s.storeTT(p, MaxDepth-1, ply, MoveNone, tbValue, tbValue, tbBound)
				}
				return tbValue
			}
		}
	}

	// static evaluation of the position - reused by razoring, RFP, NMP,
	// probcut and the "improving" flag. Prefer a cached TT eval when present.
	var staticEval Value
	if ttHasEval {
		staticEval = ttEval
	} else {
		staticEval = s.evaluate(p, ply)
	}
	// improving: true if our static eval rose compared to our eval two plies
	// ago (i.e. since our own last move), used to scale some margins.
	improving := !hasCheck && ply >= 2 && staticEval > s.evalHistory[ply-2]
	s.evalHistory[ply] = staticEval
	improvingIdx := 0
	if improving {
		improvingIdx = 1
	}

	// Razoring
	// At shallow depth, if the static eval is far below alpha the position
	// is assumed lost even after a quiescence search - drop straight into
	// qsearch to confirm instead of searching the full move loop.
	if !isPV && !hasCheck && depth <= RazorDepth && staticEval+RazorMargin < alpha {
		s.statistics.RazorPrunings++
		return s.qsearch(p, ply, alpha, beta, false)
	}

	// Reverse Futility Pruning, (RFP, Static Null Move Pruning)
	// https://www.chessprogramming.org/Reverse_Futility_Pruning
	// Anticipate likely alpha low in the next ply by a beta cut
	// off before making and evaluating the move
	if Settings.Search.UseRFP &&
		doNull &&
		depth <= BetaPruningDepth &&
		!isPV &&
		!hasCheck {
		margin := BetaMargin * Value(depth)
		if staticEval-margin > beta {
			s.statistics.RfpPrunings++
			return staticEval
		}
	}

	// NULL MOVE PRUNING
	// https://www.chessprogramming.org/Null_Move_Pruning
	// Under the assumption the in most chess position it would be better
	// do make a move than to not make a move we can assume that if
	// our positional value after a null move is already above beta (>beta)
	// it would be above beta when doing a move in any case.
	if Settings.Search.UseNullMove {
		// a TT entry proving the position can not reach beta contradicts
		// the null-move assumption - don't bother trying
		ttAllowsNull := ttEntry == nil ||
			ttEntry.Vtype() != UPPER ||
			valueFromTT(ttEntry.Value(), ply) >= beta
		if doNull &&
			!isPV &&
			depth >= NullMovePruningDepth &&
			staticEval >= beta &&
			hasNonPawnMaterial(p, us) &&
			ttAllowsNull &&
			!hasCheck {

			// R = 4 + depth/6 + min(3, (eval-beta)/200)
			bonus := int((staticEval - beta) / 200)
			if bonus > 3 {
				bonus = 3
			}
			if bonus < 0 {
				bonus = 0
			}
			r := 4 + depth/6 + bonus
			newDepth := depth - r
			if newDepth < 0 {
				newDepth = 0
			}

			// do null move search
			p.DoNullMove()
			s.nodesVisited++
			nValue := -s.search(p, newDepth, ply+1, -beta, -beta+1, false, false)
			p.UndoNullMove()

			// check if we should stop the search
			if s.stopConditions() {
				return ValueNA
			}

			// flag for mate threats
			if nValue > ValueCheckMateThreshold {
				// although this player did not make a move the value still is
				// a mate - very good! Just adjust the value to not return an
				// unproven mate
				s.statistics.NMPMateBeta++
				nValue = ValueCheckMateThreshold
			} else if nValue < -ValueCheckMateThreshold {
				// the player did not move a got mated ==> mate threat
				s.statistics.NMPMateAlpha++
				matethreat = true
			}

			// if the value is higher than beta even after not making
			// a move it is not worth searching as it will very likely
			// be above beta if we make a move
			if nValue >= beta {
				s.statistics.NullMoveCuts++
				if Settings.Search.UseTT {
					s.storeTT(p, depth, ply, ttMove, nValue, staticEval, LOWER)
				}
				// return the clamped beta, not the raw null-search value -
				// the position was never actually searched to prove more
				return beta
			}
		}
	}

	// ProbCut
	// https://www.chessprogramming.org/ProbCut
	// A shallow, reduced, SEE-screened search used to prove a position is
	// good enough to exceed beta by a margin without a full-depth search.
	if !isPV && !hasCheck && depth >= ProbCutDepth &&
		beta < MateInMax && beta > MatedInMax &&
		staticEval+bestTacticalMoveValue(p) >= beta+ProbCutMargin {
		probCutBeta := beta + ProbCutMargin
		if probCutBeta > MateInMax {
			probCutBeta = MateInMax
		}
		probMg := s.mg[ply]
		probMg.ResetOnDemand()
		for m := probMg.GetNextMove(p, movegen.GenCap); m != MoveNone; m = probMg.GetNextMove(p, movegen.GenCap) {
			// only captures that can realistically lift eval above rBeta
			if !staticExchangeEvaluation(p, m, probCutBeta-staticEval) {
				continue
			}
			p.DoMove(m)
			if !p.WasLegalMove() {
				p.UndoMove()
				continue
			}
			s.nodesVisited++
			v := -s.search(p, depth-ProbCutDepth+1, ply+1, -probCutBeta, -probCutBeta+1, false, true)
			p.UndoMove()
			if s.stopConditions() {
				return ValueNA
			}
			if v >= probCutBeta {
				s.statistics.ProbCutPrunings++
				if Settings.Search.UseTT {
					s.storeTT(p, depth, ply, m, v, staticEval, LOWER)
				}
				return v
			}
		}
		s.pv[ply].Clear()
	}

	// reset search
	myMg := s.mg[ply]
	picker := movepicker.New(myMg)
	s.pv[ply].Clear()

	// PV Move Sort
	// When we received a best move for the position from the
	// TT we hand it to the move picker so it will be searched
	// first.
	pickerTTMove := MoveNone
	if Settings.Search.UseTTMove {
		if ttMove != MoveNone {
			s.statistics.TTMoveUsed++
			pickerTTMove = ttMove
		} else {
			s.statistics.NoTTMove++
		}
	}
	picker.Init(pickerTTMove)
	if lastMove := p.LastMove(); lastMove != MoveNone {
		picker.SetCounter(s.history.GetCounterMove(lastMove.From(), lastMove.To()))
	}

	// prepare move loop
	var value Value
	movesSearched := 0
	var quietsTried []Move

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
	for move := picker.Next(p, movegen.GenAll);
		move != MoveNone; move = picker.Next(p, movegen.GenAll) {

		from := move.From()
		to := move.To()

		if false { // DEBUG
			err := false
			msg := ""
			switch {
			case !move.IsValid():
				msg = fmt.Sprintf("Position DoMove: Invalid move %s", move.String())
				err = true
			case p.GetPiece(from) == PieceNone:
				msg = fmt.Sprintf("Position DoMove: No piece on %s for move %s", p.GetPiece(from).String(), move.StringUci())
				err = true
			case p.GetPiece(from).ColorOf() != us:
				msg = fmt.Sprintf("Position DoMove: Piece to move does not belong to next player %s", p.GetPiece(from).String())
				err = true
			case p.GetPiece(to).TypeOf() == King:
				msg = "Position DoMove: King cannot be captured!"
				err = true
			}
			if err {
				s.log.Criticalf("Search              : Depth %d Ply %d alpha %d beta %d isPv %t doNull %t\n", depth, ply, alpha, beta, isPV, doNull)
				s.log.Criticalf("Position            : %s\n", p.StringFen())
				s.log.Criticalf("Move                : %s\n", move.String())
				s.log.Criticalf("Moves Searched      : %d\n", movesSearched)
				s.log.Criticalf("ttMove              : %s\n", ttMove.String())
				s.log.Criticalf("bestMove            : %s\n", bestNodeMove.String())
				s.log.Criticalf("MoveGen PV          : %s\n", myMg.PvMove())
				s.log.Criticalf("MoveGen K1          : %s\n", myMg.KillerMoves()[0])
				s.log.Criticalf("MoveGen K2          : %s\n", myMg.KillerMoves()[1])
				s.log.Criticalf(msg)
				panic(msg)
			}
		} // DEBUG

		isCapture := p.IsCapturingMove(move)
		isKiller := picker.Stage == movepicker.StageKiller
		isCounter := picker.Stage == movepicker.StageCounter
		isQuiet := move.MoveType() != Promotion && !isCapture

		// history scores of a quiet move - shared by futility pruning,
		// counter-move/follow-up pruning and the LMR adjustment below
		var hist, cmh, fmh int64
		if isQuiet {
			hist = s.history.Get(us, from, to)
			if lastMove := p.LastMove(); lastMove != MoveNone {
				cmh = s.history.GetCounterMoveHistory(
					p.GetPiece(lastMove.To()).TypeOf(), lastMove.To(),
					p.GetPiece(from).TypeOf(), to)
			}
			if prevOwnMove := p.MoveBeforeLast(); prevOwnMove != MoveNone {
				fmh = s.history.GetFollowUpHistory(
					p.GetPiece(prevOwnMove.To()).TypeOf(), prevOwnMove.To(),
					p.GetPiece(from).TypeOf(), to)
			}
		}

		// prepare newDepth
		newDepth := depth - 1
		lmrDepth := newDepth
		extension := 0

		givesCheck := p.GivesCheck(move)

		// Singular extension: if the tt move is vastly better than every
		// alternative, extend the search by one ply instead of risking that
		// a shallower search misses the only move that keeps the position
		// alive.
		if Settings.Search.UseExt &&
			move == ttMove &&
			depth >= 8 &&
			ttEntry != nil &&
			int(ttEntry.Depth()) >= depth-2 &&
			ttEntry.Vtype() != UPPER &&
			ttEntry.Value().IsValid() {
			if s.moveIsSingular(p, move, depth, ply, valueFromTT(ttEntry.Value(), ply)) {
				extension = 1
			}
		}

		// Check extension - QS already searches all moves when in check, but
		// extending here lets the normal search's prunings apply too.
		if Settings.Search.UseExt && extension == 0 {
			if Settings.Search.UseCheckExt && givesCheck {
				s.statistics.CheckExtension++
				extension = 1
			}
			if Settings.Search.UseThreatExt && matethreat {
				s.statistics.ThreatExtension++
				extension = 1
			}
			// an early quiet move whose counter/follow-up history is very
			// strong is likely part of a forced maneuver - give it a ply
			if isQuiet && len(quietsTried) <= 4 && cmh >= 10000 && fmh >= 10000 {
				s.statistics.HistExtension++
				extension = 1
			}
		}
		newDepth += extension

		// ///////////////////////////////////////////////////////
		// Forward Pruning - only for quiet, non-extended, non-special moves
		if !isPV &&
			bestNodeValue > MatedInMax && // never prune before a mate score is off the table
			extension == 0 &&
			move != ttMove &&
			!isKiller &&
			isQuiet &&
			!hasCheck && // pre move
			!givesCheck && // post move
			!matethreat { // from pre move null move check

			// LMP - Late Move Pruning (move-count based pruning)
			if Settings.Search.UseLmp && depth <= LateMovePruningDepth &&
				len(quietsTried) >= LateMovePruningCounts[improvingIdx][depth] {
				s.statistics.LmpCuts++
				continue
			}

			// Futility Pruning - a move whose history scores are high
			// enough escapes the margin cut, it earned another look.
			if Settings.Search.UseFP && depth < FutilityPruningDepth {
				margin := FutilityMargin * Value(depth)
				if staticEval+margin <= alpha &&
					hist+cmh+fmh < int64(FutilityPruningHistoryLimit[improvingIdx]) {
					if staticEval > bestNodeValue {
						bestNodeValue = staticEval
					}
					s.statistics.FpPrunings++
					continue
				}
			}

			// SEE pruning of quiet moves that lose material near the
			// leaves. Only past the good-noisy stage - anything the picker
			// served earlier is worth its full search regardless.
			if depth <= SEEPruningDepth && picker.Stage > movepicker.StageGoodNoisy {
				threshold := SEEQuietMargin * Value(depth)
				if !staticExchangeEvaluation(p, move, threshold) {
					s.statistics.SEPrunings++
					continue
				}
			}

			// Counter-move history pruning: skip this one quiet move (not
			// the whole remainder of the loop) if it scores very poorly
			// against whatever the opponent's last move was.
			if Settings.Search.UseHistoryCounter && depth <= CounterMovePruningDepth[improvingIdx] {
				if p.LastMove() != MoveNone && cmh < int64(CounterMoveHistoryLimit[improvingIdx]) {
					s.statistics.CmhPrunings++
					continue
				}
			}

			// Follow-up-history pruning: same idea one ply further back,
			// scored against our own previous move rather than the
			// opponent's reply to it.
			if Settings.Search.UseHistoryCounter && depth <= FollowUpMovePruningDepth[improvingIdx] {
				if p.MoveBeforeLast() != MoveNone && fmh < int64(FollowUpMoveHistoryLimit[improvingIdx]) {
					s.statistics.FmhPrunings++
					continue
				}
			}
		}

		// SEE pruning of losing captures and promotions near the leaves
		// (the tt move is exempt).
		if !isPV && bestNodeValue > MatedInMax && !isQuiet && extension == 0 &&
			depth <= SEEPruningDepth && move != ttMove {
			threshold := SEENoisyMargin * Value(depth*depth)
			if !staticExchangeEvaluation(p, move, threshold) {
				s.statistics.SEPrunings++
				continue
			}
		}

		// LMR
		// Late Move Reduction assumes that later moves a rarely
		// exceeding alpha and therefore the search is reduced in depth.
		if Settings.Search.UseLmr &&
			extension == 0 &&
			isQuiet &&
			depth >= 3 &&
			movesSearched >= 1 {
			r := LmrReduction(depth, movesSearched+1)
			if isPV {
				r--
			}
			if !improving {
				r++
			}
			// killers, counters and moves with a strong history record
			// earned a less aggressive reduction
			if isKiller || isCounter {
				r--
			}
			histTerm := int((hist + cmh + fmh) / 5000)
			if histTerm > 2 {
				histTerm = 2
			}
			if histTerm < -2 {
				histTerm = -2
			}
			r -= histTerm
			if r > 0 {
				lmrDepth -= r
				s.statistics.LmrReductions++
			}
			if lmrDepth < 0 {
				lmrDepth = 0
			}
		}
		// ///////////////////////////////////////////////////////

		// ///////////////////////////////////////////////////////
		// DO MOVE
		p.DoMove(move)

		// check if legal move or skip
		if !p.WasLegalMove() {
			p.UndoMove()
			continue
		}

		// we only count legal moves
		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(move)
		s.sendSearchUpdateToUci()
		if isQuiet {
			quietsTried = append(quietsTried, move)
		}

		// check repetition and 50 moves
		if s.checkDrawRepAnd50(p, 2) {
			value = ValueDraw

		} else {

			// ///////////////////////////////////////////////////////
			// PVS
			// https://www.chessprogramming.org/Principal_Variation_Search
			if !Settings.Search.UsePVS || movesSearched == 0 {
				value = -s.search(p, newDepth, ply+1, -beta, -alpha, true, true)
			} else {
				// Null window search after the initial PV search, at a
				// potentially reduced depth if LMR applies above.
				value = -s.search(p, lmrDepth, ply+1, -alpha-1, -alpha, false, true)
				if value > alpha && !s.stopConditions() {
					// did we actually have a LMR reduction?
					if lmrDepth < newDepth {
						s.statistics.LmrResearches++
						value = -s.search(p, newDepth, ply+1, -beta, -alpha, true, true)
					} else if value < beta {
						s.statistics.PvsResearches++
						value = -s.search(p, newDepth, ply+1, -beta, -alpha, true, true)
					}
				}
			}
			// ///////////////////////////////////////////////////////
		}

		movesSearched++
		s.statistics.CurrentVariation.PopBack()
		p.UndoMove()
		// UNDO MOVE
		// ///////////////////////////////////////////////////////

		// check if we should stop the search
		if s.stopConditions() {
			return ValueNA
		}

		// Did we find a better move for this node (not ply)?
		if value > bestNodeValue {
			bestNodeValue = value
			bestNodeMove = move
			if value > alpha {
				// we have a new best move for the ply
				savePV(move, s.pv[ply+1], s.pv[ply])
				if value >= beta {
					// Count beta cuts
					s.statistics.BetaCuts++
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					// store move which caused a beta cut off in this ply
					if Settings.Search.UseKiller && isQuiet {
						myMg.StoreKiller(move)
					}
					if isQuiet {
						lastMove := p.LastMove()
						prevPt, prevTo := PtNone, SqNone
						if lastMove != MoveNone {
							prevPt = p.GetPiece(lastMove.To()).TypeOf()
							prevTo = lastMove.To()
						}
						prevPt2, prevTo2 := PtNone, SqNone
						if prevOwnMove := p.MoveBeforeLast(); prevOwnMove != MoveNone {
							prevPt2 = p.GetPiece(prevOwnMove.To()).TypeOf()
							prevTo2 = prevOwnMove.To()
						}
						s.history.Update(us, move, quietsTried, depth, prevPt, prevPt2, prevTo, prevTo2, p.GetPiece(from).TypeOf())
						if Settings.Search.UseCounterMoves && lastMove != MoveNone {
							s.history.SetCounterMove(lastMove.From(), lastMove.To(), move)
						}
					}
					ttType = LOWER
					break
				}
				// We found a move between alpha and beta - new best move
				// which can be forced.
				alpha = value
				ttType = EXACT
			}
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////

	// If we did not have at least one legal move
	// then we might have a mate or stalemate
	if movesSearched == 0 && !s.stopConditions() {
		if p.HasCheck() { // mate
			s.statistics.Checkmates++
			bestNodeValue = -ValueCheckMate + Value(ply)
		} else { // stalemate
			s.statistics.Stalemates++
			bestNodeValue = ValueDraw
		}
		ttType = EXACT
	} else if bestNodeValue <= origAlpha {
		ttType = UPPER
	}

	// Store TT
	if Settings.Search.UseTT {
		s.storeTT(p, depth, ply, bestNodeMove, bestNodeValue, staticEval, ttType)
	}

	return bestNodeValue
}

// moveIsSingular determines whether move (the tt move) is the only move at
// this node that can keep the score near ttValue. It is called before move
// is made on the board and does not make it itself: it searches every other
// legal move at a reduced depth on a null window just below ttValue. If
// nothing else comes close, move is singular and worth extending in the
// calling search.
//
// This uses a throwaway move generator rather than s.mg[ply], which is the
// instance actively driving the caller's own move loop at this ply - reusing
// it here would reset that loop's on-demand iteration state out from under it.
func (s *Search) moveIsSingular(p *position.Position, move Move, depth int, ply int, ttValue Value) bool {
	rBeta := ttValue - Value(depth)
	if rBeta < -ValueCheckMate {
		rBeta = -ValueCheckMate
	}

	searchDepth := depth/2 - 1
	if searchDepth < 0 {
		searchDepth = 0
	}

	probeMg := movegen.NewMoveGen()
	singular := true
	for m := probeMg.GetNextMove(p, movegen.GenAll); m != MoveNone; m = probeMg.GetNextMove(p, movegen.GenAll) {
		if m.MoveOf() == move.MoveOf() {
			continue
		}
		p.DoMove(m)
		if !p.WasLegalMove() {
			p.UndoMove()
			continue
		}
		s.nodesVisited++
		v := -s.search(p, searchDepth, ply+1, -rBeta-1, -rBeta, false, true)
		p.UndoMove()
		if s.stopConditions() {
			singular = false
			break
		}
		if v > rBeta {
			singular = false
			break
		}
	}

	return singular
}

// qsearch is a simplified search to counter the horizon effect in depth based
// searches. It continues the search into deeper branches as long as there are
// so called non quiet moves (usually captures, promotions). Only if the
// position is relatively quiet we will compute an evaluation of the position
// to return to the previous depth. Quiescence never stores into the TT - it
// searches a subset of moves from an arbitrary depth so its result is not a
// safe bound to reuse at other depths.
func (s *Search) qsearch(p *position.Position, ply int, alpha Value, beta Value, isPV bool) Value {
	if trace {
		s.slog.Debugf("%0*s Ply %-2.d QSearch     a:%-6.d b:%-6.d pv:%-6.v start:  %s", ply, "", ply, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("%0*s Ply %-2.d QSearch     a:%-6.d b:%-6.d pv:%-6.v end  :  %s", ply, "", ply, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
	}

	// Check if search should be stopped
	if s.stopConditions() {
		return ValueNA
	}

	if s.statistics.CurrentExtraSearchDepth < ply {
		s.statistics.CurrentExtraSearchDepth = ply
	}

	if !Settings.Search.UseQuiescence || ply >= MaxDepth {
		return s.evaluate(p, ply)
	}

	// Mate Distance Pruning
	if Settings.Search.UseMDP {
		if alpha < -ValueCheckMate+Value(ply) {
			alpha = -ValueCheckMate + Value(ply)
		}
		if beta > ValueCheckMate-Value(ply)-1 {
			beta = ValueCheckMate - Value(ply) - 1
		}
		if alpha >= beta {
			s.statistics.Mdp++
			return alpha
		}
	}

	bestNodeValue := ValueNA
	ttMove := MoveNone
	hasCheck := p.HasCheck()
	var staticEval Value

	// if in check we simply do a normal search (all moves) in qsearch
	if !hasCheck {
		staticEval = s.evaluate(p, ply)
		// Quiescence StandPat
		// https://www.chessprogramming.org/Quiescence_Search#Standing_Pat
		if Settings.Search.UseQSStandpat && staticEval > alpha {
			if staticEval >= beta {
				s.statistics.StandpatCuts++
				return staticEval
			}
			alpha = staticEval
		}
		bestNodeValue = staticEval

		// delta pruning: if even the best possible tactical gain cannot
		// reach alpha we can bail without generating any moves.
		if bestTacticalMoveValue(p) < alpha-staticEval-QFutilityMargin {
			s.statistics.QFpPrunings++
			return bestNodeValue
		}
	}

	// TT Lookup - the stored move is tried first and a usable stored value
	// cuts; qsearch never stores (see func comment above).
	if Settings.Search.UseQSTT {
		ttEntry := s.tt.Probe(p.ZobristKey())
		if ttEntry != nil { // tt hit
			s.statistics.TTHit++
			ttMove = ttEntry.Move()
			ttValue := valueFromTT(ttEntry.Value(), ply)
			cut := false
			switch {
			case !ttValue.IsValid():
				cut = false
			case ttEntry.Vtype() == EXACT:
				cut = true
			case ttEntry.Vtype() == UPPER && ttValue <= alpha:
				cut = true
			case ttEntry.Vtype() == LOWER && ttValue >= beta:
				cut = true
			}
			if cut && Settings.Search.UseTTValue {
				s.statistics.TTCuts++
				return ttValue
			}
			s.statistics.TTNoCuts++
		} else {
			s.statistics.TTMiss++
		}
	}

	myMg := s.mg[ply]
	picker := movepicker.New(myMg)
	s.pv[ply].Clear()

	qsTTMove := MoveNone
	if Settings.Search.UseQSTT {
		if ttMove != MoveNone {
			s.statistics.TTMoveUsed++
			qsTTMove = ttMove
		} else {
			s.statistics.NoTTMove++
		}
	}
	picker.Init(qsTTMove)

	var value Value
	movesSearched := 0

	// if in check we search all moves - an implicit search extension
	var mode movegen.GenMode
	if hasCheck {
		s.statistics.CheckInQS++
		mode = movegen.GenAll
	} else {
		mode = movegen.GenCap
	}

	seeThreshold := QSEEMargin
	if m := alpha - staticEval - QFutilityMargin; m > seeThreshold {
		seeThreshold = m
	}

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
	for move := picker.Next(p, mode); move != MoveNone; move = picker.Next(p, mode) {

		// reduce the number of moves searched by only looking at captures
		// that win (or at least break even on) material.
		if !hasCheck && move != ttMove && !staticExchangeEvaluation(p, move, seeThreshold) {
			continue
		}

		// ///////////////////////////////////////////////////////
		// DO MOVE
		p.DoMove(move)

		if !p.WasLegalMove() {
			p.UndoMove()
			continue
		}

		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(move)
		s.sendSearchUpdateToUci()

		if hasCheck && s.checkDrawRepAnd50(p, 2) {
			value = ValueDraw
		} else {
			value = -s.qsearch(p, ply+1, -beta, -alpha, isPV)
		}

		movesSearched++
		s.statistics.CurrentVariation.PopBack()
		p.UndoMove()
		// UNDO MOVE
		// ///////////////////////////////////////////////////////

		if s.stopConditions() {
			return ValueNA
		}

		if value > bestNodeValue {
			bestNodeValue = value
			if value > alpha {
				savePV(move, s.pv[ply+1], s.pv[ply])
				if value >= beta {
					s.statistics.BetaCuts++
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					break
				}
				alpha = value
			}
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////

	// If we had no legal move and were in check this is a mate - if we
	// were not in check we simply had no (good) captures and the standpat
	// value computed above already is bestNodeValue.
	if movesSearched == 0 && hasCheck && !s.stopConditions() {
		s.statistics.Checkmates++
		bestNodeValue = -ValueCheckMate + Value(ply)
	}

	return bestNodeValue
}

// call evaluation on the position
func (s *Search) evaluate(position *position.Position, ply int) Value {
	s.statistics.LeafPositionsEvaluated++

	var value = ValueNA

	if Settings.Search.UseTT && Settings.Search.UseEvalTT {
		ttEntry := s.tt.Probe(position.ZobristKey())
		if ttEntry != nil && ttEntry.Eval().IsValid() { // tt hit
			s.statistics.TTHit++
			s.statistics.EvaluationsFromTT++
			value = ttEntry.Eval()
		}
	}

	if value == ValueNA {
		s.statistics.Evaluations++
		value = s.eval.Evaluate(position)
	}

	return value
}

// moveIsTactical reports whether a move is a capture or promotion -
// the set of moves qsearch and SEE reason about as "noisy".
func moveIsTactical(p *position.Position, move Move) bool {
	return move.MoveType() == Promotion || p.IsCapturingMove(move)
}

// hasNonPawnMaterial reports whether color has any piece besides pawns and
// king - used to gate null move pruning against zugzwang-prone endgames.
func hasNonPawnMaterial(p *position.Position, c Color) bool {
	return p.MaterialNonPawn(c) > 0
}

// thisTacticalMoveValue returns the material value captured or promoted to
// by move, as used by SEE's piece table, ignoring the exchange that follows.
func thisTacticalMoveValue(p *position.Position, move Move) Value {
	v := seeCapturedValue(p, move)
	if move.MoveType() == Promotion {
		v += SEEPieceValues[move.PromotionType()] - SEEPieceValues[Pawn]
	}
	return v
}

// bestTacticalMoveValue returns the largest material gain any single
// tactical move in the position could deliver, used for qsearch delta
// pruning. It deliberately does not consider the whole exchange sequence -
// just the single highest-value piece currently capturable (at least a
// pawn), plus the queen promotion gain when a pawn of the side to move
// stands one step from promotion.
func bestTacticalMoveValue(p *position.Position) Value {
	us := p.NextPlayer()
	them := us.Flip()
	best := SEEPieceValues[Pawn]
	for pt := Knight; pt <= Queen; pt++ {
		if p.PiecesBb(them, pt) != BbZero {
			if SEEPieceValues[pt] > best {
				best = SEEPieceValues[pt]
			}
		}
	}
	// promotion potential
	promoRank := Rank7_Bb
	if us == Black {
		promoRank = Rank2_Bb
	}
	if p.PiecesBb(us, Pawn)&promoRank != BbZero {
		best += SEEPieceValues[Queen] - SEEPieceValues[Pawn]
	}
	return best
}

// savePV adds the given move as first move to a cleared dest and then appends
// all src moves to dest
func savePV(move Move, src *moveslice.MoveSlice, dest *moveslice.MoveSlice) {
	dest.Clear()
	dest.PushBack(move)
	*dest = append(*dest, *src...)
}

// storeTT stores a position into the TT
func (s *Search) storeTT(p *position.Position, depth int, ply int, move Move, value Value, eval Value, valueType ValueType) {
	s.tt.Put(p.ZobristKey(), move, int8(depth), valueToTT(value, ply), valueType, eval)
}

// getPVLine fills the given pv move list with the pv move starting from the given
// depth as long as these position are in the TT
func (s *Search) getPVLine(p *position.Position, pv *moveslice.MoveSlice, depth int) {
	// Recursion-less reading of the chain of pv moves
	pv.Clear()
	counter := 0
	ttMatch := s.tt.GetEntry(p.ZobristKey())
	for ttMatch != nil && ttMatch.Move() != MoveNone && counter < depth {
		pv.PushBack(ttMatch.Move())
		p.DoMove(ttMatch.Move())
		counter++
		ttMatch = s.tt.GetEntry(p.ZobristKey())
	}
	for i := 0; i < counter; i++ {
		p.UndoMove()
	}
}

// correct the value for mate distance when storing to TT
func valueToTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			value = value + Value(ply)
		} else {
			value = value - Value(ply)
		}
	}
	return value
}

// correct the value for mate distance when reading from TT. A stored mate
// value can lie up to ply beyond ValueCheckMate (see valueToTT), so the
// whole band beyond the mate threshold is corrected; ValueNA passes as is.
func valueFromTT(value Value, ply int) Value {
	if value == ValueNA {
		return value
	}
	if value > ValueCheckMateThreshold {
		value = value - Value(ply)
	} else if value < -ValueCheckMateThreshold {
		value = value + Value(ply)
	}
	return value
}

// getSearchTraceLog returns an instance of a standard Logger with a "normal"
// logging format (e.g. time - file - level) for usage in the search itself.
// It logs to os.Stdout until the search log file is opened; from then on the
// file backend replaces the os.Stdout backend.
func getSearchTraceLog() *logging.Logger {
	searchLog := logging.MustGetLogger("search")

	searchLogFormat := logging.MustStringFormatter(`%{time:15:04:05.000} %{level:-7.7s}:  %{message}`)

	backend1 := logging.NewLogBackend(os.Stdout, "", golog.Lmsgprefix)
	backend1Formatter := logging.NewBackendFormatter(backend1, searchLogFormat)
	searchBackEnd := logging.AddModuleLevel(backend1Formatter)
	searchBackEnd.SetLevel(logging.Level(SearchLogLevel), "")
	searchLog.SetBackend(searchBackEnd)

	// File backend
	programName, _ := os.Executable()
	exeName := strings.TrimSuffix(filepath.Base(programName), ".exe")

	// find log path
	logPath, err := util.ResolveFolder(Settings.Log.LogPath)
	if err != nil {
		golog.Println("Log folder could not be found:", err)
		return searchLog
	}
	searchLogFilePath := filepath.Join(logPath, exeName+"_search.log")

	// create file backend
	searchLogFile, err := os.OpenFile(searchLogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		golog.Println("Logfile could not be created:", err)
		return searchLog
	}
	backend2 := logging.NewLogBackend(searchLogFile, "", golog.Lmsgprefix)
	backend2Formatter := logging.NewBackendFormatter(backend2, searchLogFormat)
	searchBackEnd2 := logging.AddModuleLevel(backend2Formatter)
	searchBackEnd2.SetLevel(logging.DEBUG, "")
	searchLog.SetBackend(searchBackEnd2)
	searchLog.Infof("Log %s started at %s:", searchLogFile.Name(), time.Now().String())
	return searchLog
}
