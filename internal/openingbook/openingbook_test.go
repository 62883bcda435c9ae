/*
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

package openingbook

import (
	"os"
	"path/filepath"
	"testing"

	logging2 "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"

	"github.com/nkorth/zugzwang/internal/config"
	"github.com/nkorth/zugzwang/internal/logging"
	"github.com/nkorth/zugzwang/internal/position"
	. "github.com/nkorth/zugzwang/internal/types"
)

var logTest *logging2.Logger

// Setup the tests
func TestMain(m *testing.M) {
	config.Setup()
	logTest = logging.GetTestLog()
	code := m.Run()
	os.Exit(code)
}

// writes the given lines to a book file below a test temp directory and
// returns its full path
func writeBookFile(t *testing.T, name string, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestReadingNonExistingFile(t *testing.T) {
	b := NewBook()
	err := b.Initialize(t.TempDir(), "abc.pgn", Pgn, false, false)
	assert.Error(t, err, "Initialize on missing file should throw error")
}

func TestProcessingEmpty(t *testing.T) {
	file := writeBookFile(t, "empty.txt", "")

	book := NewBook()
	err := book.Initialize(file, "", Simple, false, false)
	assert.NoError(t, err, "Initialize book threw error: %s", err)
	assert.Equal(t, 1, book.NumberOfEntries()) // root position only

	startPos := position.NewPosition()
	entry, ok := book.GetEntry(startPos.ZobristKey())
	assert.True(t, ok)
	assert.EqualValues(t, entry.ZobristKey, startPos.ZobristKey())

	entry, ok = book.GetEntry(Key(1234))
	assert.False(t, ok)
	assert.True(t, entry.ZobristKey == 0)
}

func TestProcessingSimple(t *testing.T) {
	file := writeBookFile(t, "book_small.txt",
		"e2e4 e7e5 g1f3\n"+
			"d2d4 d7d5\n")

	book := NewBook()
	err := book.Initialize(file, "", Simple, false, false)
	assert.NoError(t, err, "Initialize book threw error: %s", err)
	// root + 3 moves of line one + 2 moves of line two
	assert.Equal(t, 6, book.NumberOfEntries())

	// get root entry
	pos := position.NewPosition()
	entry, found := book.GetEntry(pos.ZobristKey())
	assert.True(t, found)
	assert.Equal(t, book.rootEntry, entry.ZobristKey)
	assert.Equal(t, 2, len(entry.Moves)) // e2e4 and d2d4
	assert.Equal(t, 2, entry.Counter)    // two games through the root

	// follow 1.e4
	pos.DoMove(CreateMove(SqE2, SqE4, Normal, PtNone))
	entry, found = book.GetEntry(pos.ZobristKey())
	assert.True(t, found)
	assert.EqualValues(t, entry.ZobristKey, pos.ZobristKey())
	assert.Equal(t, 1, len(entry.Moves)) // only e7e5 follows
}

func TestProcessingSan(t *testing.T) {
	file := writeBookFile(t, "book_san.txt",
		"1. e4 e5 2. Nf3 Nc6 1/2-1/2\n"+
			"1. e4 c5 2. Nf3 0-1\n")

	book := NewBook()
	err := book.Initialize(file, "", San, false, false)
	assert.NoError(t, err, "Initialize book threw error: %s", err)
	// root, the shared e4 position, then e5/Nf3/Nc6 and c5/Nf3
	assert.Equal(t, 7, book.NumberOfEntries())

	pos := position.NewPosition()
	entry, found := book.GetEntry(pos.ZobristKey())
	assert.True(t, found)
	assert.Equal(t, 1, len(entry.Moves)) // both games open 1.e4
	assert.Equal(t, 2, entry.Counter)

	pos.DoMove(CreateMove(SqE2, SqE4, Normal, PtNone))
	entry, found = book.GetEntry(pos.ZobristKey())
	assert.True(t, found)
	assert.Equal(t, 2, len(entry.Moves)) // e5 and c5
}

func TestProcessingPgn(t *testing.T) {
	file := writeBookFile(t, "book.pgn",
		"[Event \"Test Game\"]\n"+
			"[Site \"?\"]\n"+
			"[Result \"1/2-1/2\"]\n"+
			"\n"+
			"1. e4 e5 2. Nf3 {standard} Nc6 1/2-1/2\n")

	book := NewBook()
	err := book.Initialize(file, "", Pgn, false, false)
	assert.NoError(t, err, "Initialize book threw error: %s", err)
	assert.Equal(t, 5, book.NumberOfEntries())

	pos := position.NewPosition()
	entry, found := book.GetEntry(pos.ZobristKey())
	assert.True(t, found)
	assert.Equal(t, 1, len(entry.Moves))

	pos.DoMove(CreateMove(SqE2, SqE4, Normal, PtNone))
	entry, found = book.GetEntry(pos.ZobristKey())
	assert.True(t, found)
	assert.Equal(t, 1, len(entry.Moves))
	for _, s := range entry.Moves {
		ne, ok := book.GetEntry(Key(s.NextEntry))
		assert.True(t, ok)
		assert.NotZero(t, ne.ZobristKey)
		logTest.Debugf("%s ==> %d (%d)", Move(s.Move).StringUci(), ne.ZobristKey, ne.Counter)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	file := writeBookFile(t, "book_cache.txt", "e2e4 e7e5\n")

	book := NewBook()
	err := book.Initialize(file, "", Simple, true, true)
	assert.NoError(t, err, "Initialize book threw error: %s", err)
	numberOfEntries := book.NumberOfEntries()
	assert.Equal(t, 3, numberOfEntries)

	book.Reset()
	assert.Equal(t, 0, book.NumberOfEntries())

	// second initialization must come from the cache file written above
	err = book.Initialize(file, "", Simple, true, false)
	assert.NoError(t, err, "Initialize book from cache threw error: %s", err)
	assert.Equal(t, numberOfEntries, book.NumberOfEntries())
}
