package buffer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/scribe-edit/scribe/internal/engine/position"
)

func pos(line, col int) position.Position {
	return position.New(line, col)
}

func TestNewBufferEmpty(t *testing.T) {
	b := New()
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
	if b.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", b.LineCount())
	}
	if b.IsDirty() {
		t.Error("new buffer should not be dirty")
	}
	if b.LineEnding() != LineEndingLF {
		t.Errorf("LineEnding() = %v, want LF", b.LineEnding())
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		name string
		text string
		want LineEnding
	}{
		{"lf", "a\nb\n", LineEndingLF},
		{"crlf", "a\r\nb\r\n", LineEndingCRLF},
		{"cr only", "a\rb", LineEndingCR},
		{"mixed prefers crlf", "a\r\nb\nc", LineEndingCRLF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLineEnding(tt.text); got != tt.want {
				t.Errorf("DetectLineEnding(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestPositionToCharIdx(t *testing.T) {
	b := FromString("hello\nworld\n")
	tests := []struct {
		pos  position.Position
		want int
	}{
		{pos(0, 0), 0},
		{pos(0, 5), 5},
		{pos(1, 0), 6},
		{pos(1, 5), 11},
		{pos(2, 0), 12},
	}
	for _, tt := range tests {
		got, err := b.PositionToCharIdx(tt.pos)
		if err != nil {
			t.Fatalf("PositionToCharIdx(%v): %v", tt.pos, err)
		}
		if got != tt.want {
			t.Errorf("PositionToCharIdx(%v) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestPositionToCharIdxInvalid(t *testing.T) {
	b := FromString("hi\n")
	for _, p := range []position.Position{pos(-1, 0), pos(5, 0), pos(0, 3)} {
		if _, err := b.PositionToCharIdx(p); !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("PositionToCharIdx(%v) error = %v, want ErrInvalidPosition", p, err)
		}
	}
}

func TestGraphemeColumns(t *testing.T) {
	// Family emoji: one column, seven codepoints.
	b := FromString("a\U0001F468‍\U0001F469‍\U0001F467‍\U0001F466b")
	idx, err := b.PositionToCharIdx(pos(0, 2))
	if err != nil {
		t.Fatal(err)
	}
	if idx != 8 {
		t.Errorf("char idx after emoji = %d, want 8", idx)
	}
	if got := b.CharIdxToPosition(8); got != pos(0, 2) {
		t.Errorf("CharIdxToPosition(8) = %v, want %v", got, pos(0, 2))
	}
	// Offsets inside the cluster clamp to its end boundary.
	if got := b.CharIdxToPosition(4); got != pos(0, 2) {
		t.Errorf("CharIdxToPosition(4) = %v, want %v", got, pos(0, 2))
	}
}

func TestCombiningCharacterColumns(t *testing.T) {
	b := FromString("éx") // e + combining acute, then x
	idx, err := b.PositionToCharIdx(pos(0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if idx != 2 {
		t.Errorf("column 1 char idx = %d, want 2", idx)
	}
	if got := b.CharIdxToPosition(1); got != pos(0, 1) {
		t.Errorf("CharIdxToPosition(1) = %v, want %v", got, pos(0, 1))
	}
}

func TestCharIdxToPositionClamps(t *testing.T) {
	b := FromString("ab\ncd")
	if got := b.CharIdxToPosition(-3); got != pos(0, 0) {
		t.Errorf("negative offset = %v, want 0,0", got)
	}
	if got := b.CharIdxToPosition(99); got != pos(1, 2) {
		t.Errorf("past-end offset = %v, want 1,2", got)
	}
}

func TestInsert(t *testing.T) {
	b := FromString("hello world")
	op, err := b.Insert(pos(0, 5), ", big")
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "hello, big world" {
		t.Errorf("Text() = %q", got)
	}
	if op.Kind != OpInsert {
		t.Errorf("op.Kind = %v, want OpInsert", op.Kind)
	}
	if op.End != pos(0, 10) {
		t.Errorf("op.End = %v, want 0,10", op.End)
	}
	if !b.IsDirty() {
		t.Error("buffer should be dirty after insert")
	}
}

func TestInsertMultiline(t *testing.T) {
	b := FromString("ab")
	op, err := b.Insert(pos(0, 1), "x\ny")
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "ax\nyb" {
		t.Errorf("Text() = %q", got)
	}
	if op.End != pos(1, 1) {
		t.Errorf("op.End = %v, want 1,1", op.End)
	}
}

func TestDelete(t *testing.T) {
	b := FromString("hello world")
	op, err := b.Delete(pos(0, 5), pos(0, 11))
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "hello" {
		t.Errorf("Text() = %q", got)
	}
	if op.DeletedText != " world" {
		t.Errorf("DeletedText = %q", op.DeletedText)
	}
	if op.CursorAfter != pos(0, 5) {
		t.Errorf("CursorAfter = %v", op.CursorAfter)
	}
}

func TestDeleteReversedRangeRejected(t *testing.T) {
	b := FromString("hello world")
	_, err := b.Delete(pos(0, 7), pos(0, 2))
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Delete error = %v, want ErrInvalidRange", err)
	}
	if got := b.Text(); got != "hello world" {
		t.Errorf("Text() = %q, buffer mutated on error", got)
	}
	if got := b.Version(); got != 0 {
		t.Errorf("Version() = %d, want 0 after failed delete", got)
	}
}

func TestDeleteOutOfRangeIsPositionError(t *testing.T) {
	b := FromString("hello world")
	_, err := b.Delete(pos(0, 2), pos(0, 99))
	if !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Delete error = %v, want ErrInvalidPosition", err)
	}
	if errors.Is(err, ErrInvalidRange) {
		t.Error("out-of-range position should not match ErrInvalidRange")
	}
	if got := b.Text(); got != "hello world" {
		t.Errorf("Text() = %q, buffer mutated on error", got)
	}
}

func TestReplaceReversedRangeRejected(t *testing.T) {
	b := FromString("hello world")
	_, err := b.Replace(pos(0, 7), pos(0, 2), "x")
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Replace error = %v, want ErrInvalidRange", err)
	}
	_, err = b.Replace(pos(9, 0), pos(9, 1), "x")
	if !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Replace error = %v, want ErrInvalidPosition", err)
	}
	if got := b.Text(); got != "hello world" {
		t.Errorf("Text() = %q, buffer mutated on error", got)
	}
}

func TestReplace(t *testing.T) {
	b := FromString("one two three")
	op, err := b.Replace(pos(0, 4), pos(0, 7), "2")
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "one 2 three" {
		t.Errorf("Text() = %q", got)
	}
	if op.Kind != OpReplace || op.DeletedText != "two" || op.InsertedText != "2" {
		t.Errorf("op = %+v", op)
	}
	if op.CursorAfter != pos(0, 5) {
		t.Errorf("CursorAfter = %v, want 0,5", op.CursorAfter)
	}
}

func TestBackspace(t *testing.T) {
	b := FromString("ab\ncd")
	op, ok, err := b.Backspace(pos(1, 1))
	if err != nil || !ok {
		t.Fatalf("Backspace: ok=%v err=%v", ok, err)
	}
	if got := b.Text(); got != "ab\nd" {
		t.Errorf("Text() = %q", got)
	}
	if op.DeletedText != "c" {
		t.Errorf("DeletedText = %q", op.DeletedText)
	}
}

func TestBackspaceJoinsLines(t *testing.T) {
	b := FromString("ab\ncd")
	_, ok, err := b.Backspace(pos(1, 0))
	if err != nil || !ok {
		t.Fatalf("Backspace: ok=%v err=%v", ok, err)
	}
	if got := b.Text(); got != "abcd" {
		t.Errorf("Text() = %q", got)
	}
}

func TestBackspaceJoinsCRLF(t *testing.T) {
	b := FromString("ab\r\ncd")
	op, ok, err := b.Backspace(pos(1, 0))
	if err != nil || !ok {
		t.Fatalf("Backspace: ok=%v err=%v", ok, err)
	}
	if got := b.Text(); got != "abcd" {
		t.Errorf("Text() = %q", got)
	}
	if op.DeletedText != "\r\n" {
		t.Errorf("DeletedText = %q, want CRLF", op.DeletedText)
	}
}

func TestBackspaceAtDocumentStart(t *testing.T) {
	b := FromString("ab")
	_, ok, err := b.Backspace(pos(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("backspace at document start should be a no-op")
	}
	if b.Text() != "ab" {
		t.Errorf("Text() = %q", b.Text())
	}
}

func TestBackspaceRemovesWholeCluster(t *testing.T) {
	b := FromString("a\U0001F469‍\U0001F4BB") // woman technologist
	op, ok, err := b.Backspace(pos(0, 2))
	if err != nil || !ok {
		t.Fatalf("Backspace: ok=%v err=%v", ok, err)
	}
	if got := b.Text(); got != "a" {
		t.Errorf("Text() = %q, want %q", got, "a")
	}
	if op.DeletedText != "\U0001F469‍\U0001F4BB" {
		t.Errorf("DeletedText = %q", op.DeletedText)
	}
}

func TestDeleteForward(t *testing.T) {
	b := FromString("ab\ncd")
	_, ok, err := b.DeleteForward(pos(0, 0))
	if err != nil || !ok {
		t.Fatalf("DeleteForward: ok=%v err=%v", ok, err)
	}
	if got := b.Text(); got != "b\ncd" {
		t.Errorf("Text() = %q", got)
	}
}

func TestDeleteForwardJoinsLines(t *testing.T) {
	b := FromString("ab\r\ncd")
	op, ok, err := b.DeleteForward(pos(0, 2))
	if err != nil || !ok {
		t.Fatalf("DeleteForward: ok=%v err=%v", ok, err)
	}
	if got := b.Text(); got != "abcd" {
		t.Errorf("Text() = %q", got)
	}
	if op.DeletedText != "\r\n" {
		t.Errorf("DeletedText = %q", op.DeletedText)
	}
}

func TestDeleteForwardInvalidPosition(t *testing.T) {
	b := FromString("ab\ncd")
	if _, _, err := b.DeleteForward(pos(9, 0)); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("DeleteForward past last line error = %v, want ErrInvalidPosition", err)
	}
	if _, _, err := b.DeleteForward(pos(0, 99)); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("DeleteForward past line end error = %v, want ErrInvalidPosition", err)
	}
	if _, _, err := b.Backspace(pos(9, 1)); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Backspace past last line error = %v, want ErrInvalidPosition", err)
	}
	if got := b.Text(); got != "ab\ncd" {
		t.Errorf("Text() = %q, buffer mutated on error", got)
	}
}

func TestDeleteForwardAtDocumentEnd(t *testing.T) {
	b := FromString("ab")
	_, ok, err := b.DeleteForward(pos(0, 2))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("delete forward at document end should be a no-op")
	}
}

func TestWordBoundaries(t *testing.T) {
	b := FromString("foo bar  baz\nqux")
	tests := []struct {
		from position.Position
		want position.Position
	}{
		{pos(0, 0), pos(0, 4)},
		{pos(0, 4), pos(0, 9)},
		{pos(0, 9), pos(1, 0)},
		{pos(1, 0), pos(1, 3)}, // no further word: document end
	}
	for _, tt := range tests {
		if got := b.NextWordBoundary(tt.from); got != tt.want {
			t.Errorf("NextWordBoundary(%v) = %v, want %v", tt.from, got, tt.want)
		}
	}

	back := []struct {
		from position.Position
		want position.Position
	}{
		{pos(1, 3), pos(1, 0)},
		{pos(1, 0), pos(0, 9)},
		{pos(0, 9), pos(0, 4)},
		{pos(0, 2), pos(0, 0)},
		{pos(0, 0), pos(0, 0)}, // no earlier word: document start
	}
	for _, tt := range back {
		if got := b.PrevWordBoundary(tt.from); got != tt.want {
			t.Errorf("PrevWordBoundary(%v) = %v, want %v", tt.from, got, tt.want)
		}
	}
}

func TestMetrics(t *testing.T) {
	b := FromString("short\nmuch longer line\nmid\n")
	m := b.Metrics()
	if m.LineCount != 4 {
		t.Errorf("LineCount = %d, want 4", m.LineCount)
	}
	if m.LongestLine != 16 {
		t.Errorf("LongestLine = %d, want 16", m.LongestLine)
	}
	if m.CharCount != b.Len() {
		t.Errorf("CharCount = %d, want %d", m.CharCount, b.Len())
	}
}

func TestReadOnly(t *testing.T) {
	b := FromString("locked")
	b.SetReadOnly(true)
	if _, err := b.Insert(pos(0, 0), "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Insert on read-only = %v, want ErrReadOnly", err)
	}
	if _, err := b.Delete(pos(0, 0), pos(0, 1)); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Delete on read-only = %v, want ErrReadOnly", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")

	b := FromString("line one\r\nline two\r\n")
	if err := b.Save(); !errors.Is(err, ErrNoFilePath) {
		t.Errorf("Save without path = %v, want ErrNoFilePath", err)
	}
	if err := b.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	if b.IsDirty() {
		t.Error("buffer should be clean after save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "line one\r\nline two\r\n" {
		t.Errorf("saved content = %q, CRLF not preserved", data)
	}

	loaded, err := FromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.LineEnding() != LineEndingCRLF {
		t.Errorf("LineEnding = %v, want CRLF", loaded.LineEnding())
	}
	if loaded.FilePath() != path {
		t.Errorf("FilePath = %q", loaded.FilePath())
	}
}

func TestSnapshotStable(t *testing.T) {
	b := FromString("before")
	snap := b.Snapshot()
	if _, err := b.Insert(pos(0, 6), " after"); err != nil {
		t.Fatal(err)
	}
	if got := snap.Content.String(); got != "before" {
		t.Errorf("snapshot content = %q, want %q", got, "before")
	}
	if snap.Version == b.Version() {
		t.Error("version should advance past the snapshot")
	}
}

func TestVersionAdvances(t *testing.T) {
	b := FromString("x")
	v := b.Version()
	if _, err := b.Insert(pos(0, 1), "y"); err != nil {
		t.Fatal(err)
	}
	if b.Version() <= v {
		t.Errorf("version %d did not advance past %d", b.Version(), v)
	}
}
