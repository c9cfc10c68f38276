package rope

import (
	"strings"
	"testing"
)

func TestEmptyRope(t *testing.T) {
	r := New()
	if !r.IsEmpty() {
		t.Error("expected new rope to be empty")
	}
	if got := r.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
	if got := r.LineCount(); got != 1 {
		t.Errorf("LineCount() = %d, want 1", got)
	}
	if got := r.String(); got != "" {
		t.Errorf("String() = %q, want \"\"", got)
	}
}

func TestZeroValueRope(t *testing.T) {
	var r Rope
	if got := r.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
	if got := r.String(); got != "" {
		t.Errorf("String() = %q, want \"\"", got)
	}
	if got := r.Insert(0, "hi").String(); got != "hi" {
		t.Errorf("Insert on zero rope = %q, want \"hi\"", got)
	}
}

func TestFromStringRoundTrip(t *testing.T) {
	texts := []string{
		"hello",
		"hello\nworld",
		"line1\r\nline2\r\n",
		"héllo wörld",
		"日本語のテキスト",
		strings.Repeat("a quick brown fox\n", 200),
	}
	for _, text := range texts {
		r := FromString(text)
		if got := r.String(); got != text {
			t.Errorf("FromString(%q).String() mismatch", text[:min(len(text), 20)])
		}
		if got := r.ByteLen(); got != len(text) {
			t.Errorf("ByteLen() = %d, want %d", got, len(text))
		}
	}
}

func TestLenCountsChars(t *testing.T) {
	r := FromString("héllo")
	if got := r.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
	if got := r.ByteLen(); got != 6 {
		t.Errorf("ByteLen() = %d, want 6", got)
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		base string
		at   CharOffset
		text string
		want string
	}{
		{"", 0, "abc", "abc"},
		{"abc", 0, "x", "xabc"},
		{"abc", 3, "x", "abcx"},
		{"abc", 1, "x", "axbc"},
		{"héllo", 2, "x", "héxllo"},
		{"abc", -5, "x", "xabc"},
		{"abc", 99, "x", "abcx"},
	}
	for _, tt := range tests {
		r := FromString(tt.base).Insert(tt.at, tt.text)
		if got := r.String(); got != tt.want {
			t.Errorf("Insert(%q, %d, %q) = %q, want %q", tt.base, tt.at, tt.text, got, tt.want)
		}
	}
}

func TestInsertPreservesOriginal(t *testing.T) {
	r := FromString("abc")
	_ = r.Insert(1, "XXX")
	if got := r.String(); got != "abc" {
		t.Errorf("original modified by Insert: %q", got)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		base       string
		start, end CharOffset
		want       string
	}{
		{"abcdef", 0, 2, "cdef"},
		{"abcdef", 4, 6, "abcd"},
		{"abcdef", 2, 4, "abef"},
		{"abcdef", 0, 6, ""},
		{"abcdef", 3, 3, "abcdef"},
		{"abcdef", -1, 2, "cdef"},
		{"abcdef", 4, 99, "abcd"},
		{"héllo", 1, 2, "hllo"},
	}
	for _, tt := range tests {
		r := FromString(tt.base).Delete(tt.start, tt.end)
		if got := r.String(); got != tt.want {
			t.Errorf("Delete(%q, %d, %d) = %q, want %q", tt.base, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		base       string
		start, end CharOffset
		text       string
		want       string
	}{
		{"hello world", 6, 11, "there", "hello there"},
		{"hello", 0, 5, "bye", "bye"},
		{"hello", 2, 2, "XX", "heXXllo"},
		{"hello", 1, 4, "", "ho"},
	}
	for _, tt := range tests {
		r := FromString(tt.base).Replace(tt.start, tt.end, tt.text)
		if got := r.String(); got != tt.want {
			t.Errorf("Replace(%q, %d, %d, %q) = %q, want %q",
				tt.base, tt.start, tt.end, tt.text, got, tt.want)
		}
	}
}

func TestSlice(t *testing.T) {
	r := FromString("hello\nworld")
	tests := []struct {
		start, end CharOffset
		want       string
	}{
		{0, 5, "hello"},
		{6, 11, "world"},
		{5, 6, "\n"},
		{0, 11, "hello\nworld"},
		{3, 3, ""},
		{8, 2, ""},
		{-2, 2, "he"},
		{9, 99, "ld"},
	}
	for _, tt := range tests {
		if got := r.Slice(tt.start, tt.end); got != tt.want {
			t.Errorf("Slice(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestSplitConcat(t *testing.T) {
	text := strings.Repeat("0123456789", 100)
	r := FromString(text)
	for _, at := range []CharOffset{0, 1, 7, 500, 999, 1000} {
		left, right := r.Split(at)
		if got := left.Len() + right.Len(); got != 1000 {
			t.Errorf("Split(%d): total len = %d, want 1000", at, got)
		}
		if got := left.Concat(right).String(); got != text {
			t.Errorf("Split(%d) then Concat does not round-trip", at)
		}
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 1},
		{"no newline", 1},
		{"one\ntwo", 2},
		{"one\ntwo\n", 3},
		{"\n\n\n", 4},
	}
	for _, tt := range tests {
		if got := FromString(tt.text).LineCount(); got != tt.want {
			t.Errorf("LineCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestLineStartEnd(t *testing.T) {
	r := FromString("ab\ncdef\n\nghi")
	tests := []struct {
		line       int
		start, end CharOffset
	}{
		{0, 0, 2},
		{1, 3, 7},
		{2, 8, 8},
		{3, 9, 12},
	}
	for _, tt := range tests {
		if got := r.LineStart(tt.line); got != tt.start {
			t.Errorf("LineStart(%d) = %d, want %d", tt.line, got, tt.start)
		}
		if got := r.LineEnd(tt.line); got != tt.end {
			t.Errorf("LineEnd(%d) = %d, want %d", tt.line, got, tt.end)
		}
	}
}

func TestLineText(t *testing.T) {
	r := FromString("ab\ncdef\n\nghi")
	want := []string{"ab", "cdef", "", "ghi"}
	for line, text := range want {
		if got := r.LineText(line); got != text {
			t.Errorf("LineText(%d) = %q, want %q", line, got, text)
		}
	}
}

func TestCharToLine(t *testing.T) {
	r := FromString("ab\ncdef\n\nghi")
	tests := []struct {
		at   CharOffset
		want int
	}{
		{0, 0},
		{2, 0},
		{3, 1},
		{7, 1},
		{8, 2},
		{9, 3},
		{12, 3},
		{-1, 0},
		{99, 3},
	}
	for _, tt := range tests {
		if got := r.CharToLine(tt.at); got != tt.want {
			t.Errorf("CharToLine(%d) = %d, want %d", tt.at, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	sum := FromString("héllo\nwörld\n").Summary()
	if sum.Bytes != 14 {
		t.Errorf("Bytes = %d, want 14", sum.Bytes)
	}
	if sum.Chars != 12 {
		t.Errorf("Chars = %d, want 12", sum.Chars)
	}
	if sum.Lines != 2 {
		t.Errorf("Lines = %d, want 2", sum.Lines)
	}
}

func TestSummaryMonoid(t *testing.T) {
	a := ComputeSummary("hello\n")
	b := ComputeSummary("wörld")
	if got, want := a.Add(b), ComputeSummary("hello\nwörld"); got != want {
		t.Errorf("Add = %+v, want %+v", got, want)
	}
	if got := a.Add(TextSummary{}); got != a {
		t.Errorf("Add identity = %+v, want %+v", got, a)
	}
}

func TestEquals(t *testing.T) {
	a := FromString("hello world")
	b := New().Insert(0, "world").Insert(0, "hello ")
	if !a.Equals(b) {
		t.Error("structurally different ropes with equal text should be Equals")
	}
	if a.Equals(FromString("hello worlD")) {
		t.Error("ropes with different text should not be Equals")
	}
}

func TestHeightStaysBounded(t *testing.T) {
	r := New()
	for i := 0; i < 500; i++ {
		r = r.Insert(r.Len(), "line of text\n")
	}
	if got := r.Len(); got != 500*13 {
		t.Fatalf("Len() = %d, want %d", got, 500*13)
	}
	// A balanced 8-ary tree over ~6500 chars should stay shallow.
	if got := r.Height(); got > 8 {
		t.Errorf("Height() = %d, want <= 8", got)
	}
}

func TestManyRandomPointEdits(t *testing.T) {
	var want strings.Builder
	r := New()
	// Deterministic edit sequence compared against a plain string model.
	text := ""
	for i := 0; i < 300; i++ {
		at := (i * 7) % (len(text) + 1)
		ins := string(rune('a' + i%26))
		text = text[:at] + ins + text[at:]
		r = r.Insert(at, ins)
	}
	want.WriteString(text)
	if got := r.String(); got != want.String() {
		t.Errorf("rope diverged from string model after %d edits", 300)
	}
}

func TestFromReader(t *testing.T) {
	text := strings.Repeat("日本語テキスト\n", 300)
	r, err := FromReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if got := r.String(); got != text {
		t.Error("FromReader content mismatch")
	}
	if got := r.Len(); got != 7*300 {
		t.Errorf("Len() = %d, want %d", got, 7*300)
	}
}

func TestBuilderSplitsMidCharacter(t *testing.T) {
	// Feed a multibyte character one byte at a time.
	text := "ab界cd"
	var b Builder
	for i := 0; i < len(text); i++ {
		b.Write([]byte{text[i]})
	}
	r := b.Build()
	if got := r.String(); got != text {
		t.Errorf("Build() = %q, want %q", got, text)
	}
	if got := r.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
}

func TestBuilderReset(t *testing.T) {
	var b Builder
	b.WriteString("discarded")
	b.Reset()
	b.WriteString("kept")
	if got := b.Build().String(); got != "kept" {
		t.Errorf("Build() after Reset = %q, want \"kept\"", got)
	}
}

func TestChunkIteratorCoversText(t *testing.T) {
	text := strings.Repeat("chunk iterator coverage ", 100)
	r := FromString(text)
	var sb strings.Builder
	it := r.Chunks()
	for it.Next() {
		sb.WriteString(it.Chunk().String())
	}
	if got := sb.String(); got != text {
		t.Error("chunk iterator did not reproduce the full text")
	}
}

func TestLineIterator(t *testing.T) {
	r := FromString("one\ntwo\nthree")
	var lines []string
	it := r.Lines()
	for it.Next() {
		lines = append(lines, it.Text())
	}
	want := []string{"one", "two", "three"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if got := it.Line(); got != 2 {
		t.Errorf("Line() after exhaustion = %d, want 2", got)
	}
}
