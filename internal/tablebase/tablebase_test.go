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

package tablebase

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nkorth/zugzwang/internal/config"
	"github.com/nkorth/zugzwang/internal/position"
	. "github.com/nkorth/zugzwang/internal/types"
)

func TestMain(m *testing.M) {
	config.Setup()
	code := m.Run()
	os.Exit(code)
}

func TestProberWithoutPathAlwaysMisses(t *testing.T) {
	pr := NewProber("")
	p, _ := position.NewPositionFen("8/8/4k3/8/8/4K3/8/8 w - - 0 1")

	move, found := pr.ProbeDTZ(p)
	assert.False(t, found)
	assert.EqualValues(t, MoveNone, move)
	assert.Equal(t, WdlFailed, pr.ProbeWDL(p, 10, 0))
}

func TestProberWithBadPathAlwaysMisses(t *testing.T) {
	pr := NewProber("/does/not/exist")
	p, _ := position.NewPositionFen("8/8/4k3/8/8/4K3/8/8 w - - 0 1")

	_, found := pr.ProbeDTZ(p)
	assert.False(t, found)
	assert.Equal(t, WdlFailed, pr.ProbeWDL(p, 10, 0))
}

func TestProbeSkipsFullBoards(t *testing.T) {
	pr := NewProber("")
	p := position.NewPosition() // 32 men, way past any table's limit

	_, found := pr.ProbeDTZ(p)
	assert.False(t, found)
	assert.Equal(t, WdlFailed, pr.ProbeWDL(p, 10, 0))
}

func TestMenOnBoard(t *testing.T) {
	p := position.NewPosition()
	assert.Equal(t, 32, menOnBoard(p))

	p, _ = position.NewPositionFen("8/8/4k3/8/8/4K3/8/8 w - - 0 1")
	assert.Equal(t, 2, menOnBoard(p))
}
