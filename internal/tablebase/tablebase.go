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

// Package tablebase is the search core's collaborator for Syzygy endgame
// tablebase probing. It exposes the two queries the search needs - a DTZ
// probe at the root and a WDL probe inside the tree - without pulling in
// the actual Syzygy file format and compression the teacher never
// implemented. With no tablebase path configured (or no matching file
// found) every probe reports a miss and the search proceeds normally;
// this keeps the collaborator's contract real while its internals stay a
// documented stub (see DESIGN.md).
package tablebase

import (
	"os"
	"path/filepath"

	"github.com/nkorth/zugzwang/internal/logging"
	"github.com/nkorth/zugzwang/internal/position"
	. "github.com/nkorth/zugzwang/internal/types"
)

var log = logging.GetLog()

// WdlResult is the outcome of a WDL probe from the perspective of the
// side to move.
type WdlResult uint8

const (
	// WdlFailed means no tablebase result is available for the position.
	WdlFailed WdlResult = iota
	// WdlLoss means the side to move is lost with best play.
	WdlLoss
	// WdlDraw means the position is a tablebase draw.
	WdlDraw
	// WdlWin means the side to move wins with best play.
	WdlWin
)

// MaxPieces is the largest total piece count (both sides, including
// kings) this prober will ever probe. Positions with more men on the
// board than this are not looked up - mirrors every real Syzygy prober's
// own cutoff, just at a smaller N since no tables are actually loaded.
const MaxPieces = 6

// Prober is the search core's tablebase collaborator. A zero-value
// Prober (or one built with no path found) is a valid, always-miss
// prober - callers never need a nil check.
type Prober struct {
	path    string
	loaded  bool
	maxMen  int
}

// NewProber builds a Prober rooted at path. If path does not exist or is
// empty the prober is still usable, it will simply report every probe as
// a miss - matching the teacher's "book/TT path may not exist" tolerance
// in openingbook.Book.Initialize.
func NewProber(path string) *Prober {
	p := &Prober{path: path, maxMen: MaxPieces}
	if path == "" {
		log.Info("Tablebase: no path configured, probing disabled")
		return p
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		log.Infof("Tablebase: path %s not usable (%v), probing disabled", path, err)
		return p
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		log.Infof("Tablebase: could not read path %s (%v), probing disabled", path, err)
		return p
	}
	count := 0
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if ext == ".rtbw" || ext == ".rtbz" {
			count++
		}
	}
	p.loaded = count > 0
	if p.loaded {
		log.Infof("Tablebase: found %d table file(s) under %s", count, path)
	} else {
		log.Infof("Tablebase: no table files found under %s, probing disabled", path)
	}
	return p
}

// menOnBoard counts every piece on the board, both colors, including kings.
func menOnBoard(p *position.Position) int {
	n := 0
	for c := White; c <= Black; c++ {
		for pt := King; pt <= Queen; pt++ {
			n += p.PiecesBb(c, pt).PopCount()
		}
	}
	return n
}

// ProbeDTZ looks up a root position in the distance-to-zeroing tables.
// On a hit it returns the tablebase-optimal move and true. With no
// tables loaded (the common case for this collaborator, see DESIGN.md)
// it always reports a miss so the caller falls through to a normal
// search.
func (pr *Prober) ProbeDTZ(p *position.Position) (Move, bool) {
	if pr == nil || !pr.loaded || menOnBoard(p) > pr.maxMen {
		return MoveNone, false
	}
	// No Syzygy decoder is wired in - a "loaded" prober with matching
	// files still has nothing to decode, so it reports a miss just like
	// the disabled case. Kept as a distinct branch so a future decoder
	// only has to fill in this body.
	return MoveNone, false
}

// ProbeWDL looks up a non-root position in the win/draw/loss tables,
// restricted to depth >= probeDepth (mirrors the teacher's own
// depth-gated probes elsewhere, e.g. the TT depth check in
// alphabeta.go's search). Returns WdlFailed when no table answers.
func (pr *Prober) ProbeWDL(p *position.Position, depth int, probeDepth int) WdlResult {
	if pr == nil || !pr.loaded || depth < probeDepth || menOnBoard(p) > pr.maxMen {
		return WdlFailed
	}
	return WdlFailed
}
