package bidi

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
	xbidi "golang.org/x/text/unicode/bidi"
)

// clusterSpan is a grapheme cluster's rune offset range within the
// paragraph text.
type clusterSpan struct {
	start, end int
}

// Paragraph is a single line of text with its bidi resolution. It is
// built once and immutable afterward; all queries are lookups.
type Paragraph struct {
	text          string
	base          Level
	levels        []Level // per rune, after whitespace reset
	clusters      []clusterSpan
	clusterLevels []Level
	visual        []int // visual rank -> logical column
	visualIdx     []int // logical column -> visual rank
	runs          []VisualRun
}

// Option configures paragraph resolution.
type Option func(*paragraphConfig)

type paragraphConfig struct {
	base Direction
}

// WithBaseDirection overrides paragraph direction detection.
func WithBaseDirection(d Direction) Option {
	return func(c *paragraphConfig) { c.base = d }
}

// NewParagraph resolves text per the Unicode bidirectional algorithm.
// The text is one paragraph; it must not contain line breaks.
func NewParagraph(text string, opts ...Option) *Paragraph {
	cfg := paragraphConfig{base: DirectionNeutral}
	for _, opt := range opts {
		opt(&cfg)
	}

	classes := classify(text)

	var base Level
	switch cfg.base {
	case DirectionLTR:
		base = 0
	case DirectionRTL:
		base = 1
	default:
		base = detectBaseLevel(classes)
	}

	levels, work := resolveExplicit(classes, base)
	resolveImplicit(work, levels, base)
	resetWhitespaceLevels(classes, levels, base)

	p := &Paragraph{text: text, base: base, levels: levels}
	p.segmentClusters()
	p.reorder()
	p.buildRuns()
	return p
}

// Text returns the paragraph text.
func (p *Paragraph) Text() string { return p.text }

// Len returns the paragraph length in grapheme clusters.
func (p *Paragraph) Len() int { return len(p.clusters) }

// BaseLevel returns the paragraph embedding level.
func (p *Paragraph) BaseLevel() Level { return p.base }

// BaseDirection returns the paragraph's resolved base direction.
func (p *Paragraph) BaseDirection() Direction { return p.base.Direction() }

// Levels returns the per-character resolved embedding levels. The
// returned slice is shared; callers must not modify it.
func (p *Paragraph) Levels() []Level { return p.levels }

// LevelAt returns the embedding level of the cluster at column col.
func (p *Paragraph) LevelAt(col int) (Level, error) {
	if col < 0 || col >= len(p.clusters) {
		return 0, ErrIndexOutOfRange
	}
	return p.clusterLevels[col], nil
}

// TextBetween returns the text of columns [start, end).
func (p *Paragraph) TextBetween(start, end int) string {
	if start < 0 || end > len(p.clusters) || start >= end {
		return ""
	}
	lo := byteOffset(p.text, p.clusters[start].start)
	hi := byteOffset(p.text, p.clusters[end-1].end)
	return p.text[lo:hi]
}

// classify returns the bidi class of each rune.
func classify(text string) []xbidi.Class {
	classes := make([]xbidi.Class, 0, len(text))
	for i := 0; i < len(text); {
		props, sz := xbidi.LookupString(text[i:])
		classes = append(classes, props.Class())
		i += sz
	}
	return classes
}

// detectBaseLevel finds the paragraph level from the first strong
// character outside any isolate.
func detectBaseLevel(classes []xbidi.Class) Level {
	depth := 0
	for _, c := range classes {
		switch c {
		case xbidi.LRI, xbidi.RLI, xbidi.FSI:
			depth++
		case xbidi.PDI:
			if depth > 0 {
				depth--
			}
		case xbidi.L:
			if depth == 0 {
				return 0
			}
		case xbidi.R, xbidi.AL:
			if depth == 0 {
				return 1
			}
		}
	}
	return 0
}

// firstStrongInIsolate scans to the matching PDI and returns R for an
// RTL-first isolate, L otherwise.
func firstStrongInIsolate(rest []xbidi.Class) xbidi.Class {
	depth := 0
	for _, c := range rest {
		switch c {
		case xbidi.LRI, xbidi.RLI, xbidi.FSI:
			depth++
		case xbidi.PDI:
			if depth == 0 {
				return xbidi.L
			}
			depth--
		case xbidi.L:
			if depth == 0 {
				return xbidi.L
			}
		case xbidi.R, xbidi.AL:
			if depth == 0 {
				return xbidi.R
			}
		}
	}
	return xbidi.L
}

// dirStatus is one entry of the directional status stack.
type dirStatus struct {
	level    Level
	override xbidi.Class // ON means no override
	isolate  bool
}

// resolveExplicit runs the explicit embedding and isolate rules:
// levels holds each rune's level, work holds classes with directional
// formatting characters neutralized to BN and overrides applied.
func resolveExplicit(classes []xbidi.Class, base Level) (levels []Level, work []xbidi.Class) {
	levels = make([]Level, len(classes))
	work = make([]xbidi.Class, len(classes))
	copy(work, classes)

	stack := []dirStatus{{level: base, override: xbidi.ON}}
	cur := func() dirStatus { return stack[len(stack)-1] }
	overflowIsolate, overflowEmbed, validIsolates := 0, 0, 0

	for i, c := range classes {
		switch c {
		case xbidi.RLE, xbidi.LRE, xbidi.RLO, xbidi.LRO:
			levels[i] = cur().level
			work[i] = xbidi.BN
			var next Level
			if c == xbidi.RLE || c == xbidi.RLO {
				next = cur().level.nextOdd()
			} else {
				next = cur().level.nextEven()
			}
			if next <= maxDepth && overflowIsolate == 0 && overflowEmbed == 0 {
				override := xbidi.ON
				switch c {
				case xbidi.RLO:
					override = xbidi.R
				case xbidi.LRO:
					override = xbidi.L
				}
				stack = append(stack, dirStatus{level: next, override: override})
			} else if overflowIsolate == 0 {
				overflowEmbed++
			}

		case xbidi.RLI, xbidi.LRI, xbidi.FSI:
			levels[i] = cur().level
			if ov := cur().override; ov != xbidi.ON {
				work[i] = ov
			}
			effective := c
			if c == xbidi.FSI {
				if firstStrongInIsolate(classes[i+1:]) == xbidi.R {
					effective = xbidi.RLI
				} else {
					effective = xbidi.LRI
				}
			}
			var next Level
			if effective == xbidi.RLI {
				next = cur().level.nextOdd()
			} else {
				next = cur().level.nextEven()
			}
			if next <= maxDepth && overflowIsolate == 0 && overflowEmbed == 0 {
				validIsolates++
				stack = append(stack, dirStatus{level: next, override: xbidi.ON, isolate: true})
			} else {
				overflowIsolate++
			}

		case xbidi.PDI:
			if overflowIsolate > 0 {
				overflowIsolate--
			} else if validIsolates > 0 {
				overflowEmbed = 0
				for !cur().isolate {
					stack = stack[:len(stack)-1]
				}
				stack = stack[:len(stack)-1]
				validIsolates--
			}
			levels[i] = cur().level
			if ov := cur().override; ov != xbidi.ON {
				work[i] = ov
			}

		case xbidi.PDF:
			levels[i] = cur().level
			work[i] = xbidi.BN
			if overflowIsolate > 0 {
				// matched by an overflowed isolate, ignore
			} else if overflowEmbed > 0 {
				overflowEmbed--
			} else if !cur().isolate && len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}

		case xbidi.B:
			levels[i] = base

		default:
			levels[i] = cur().level
			if ov := cur().override; ov != xbidi.ON {
				work[i] = ov
			}
		}
	}
	return levels, work
}

// levelRun is a maximal same-level span of the formatting-stripped
// sequence, with its start-of-sequence and end-of-sequence classes.
type levelRun struct {
	idxs     []int
	level    Level
	sos, eos xbidi.Class
}

func dirClassOf(l Level) xbidi.Class {
	if l.IsRTL() {
		return xbidi.R
	}
	return xbidi.L
}

// buildLevelRuns groups non-BN positions into level runs and assigns
// boundary classes from the higher of the adjacent levels.
func buildLevelRuns(work []xbidi.Class, levels []Level, base Level) []levelRun {
	var runs []levelRun
	for i := 0; i < len(work); i++ {
		if work[i] == xbidi.BN {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].level == levels[i] &&
			runs[n-1].idxs[len(runs[n-1].idxs)-1] == prevNonBN(work, i) {
			runs[n-1].idxs = append(runs[n-1].idxs, i)
			continue
		}
		runs = append(runs, levelRun{idxs: []int{i}, level: levels[i]})
	}
	for k := range runs {
		prev, next := base, base
		if k > 0 {
			prev = runs[k-1].level
		}
		if k < len(runs)-1 {
			next = runs[k+1].level
		}
		runs[k].sos = dirClassOf(maxLevel(runs[k].level, prev))
		runs[k].eos = dirClassOf(maxLevel(runs[k].level, next))
	}
	return runs
}

func prevNonBN(work []xbidi.Class, i int) int {
	for j := i - 1; j >= 0; j-- {
		if work[j] != xbidi.BN {
			return j
		}
	}
	return -1
}

func maxLevel(a, b Level) Level {
	if a > b {
		return a
	}
	return b
}

// resolveImplicit applies the weak, neutral, and implicit level rules
// to each level run in place.
func resolveImplicit(work []xbidi.Class, levels []Level, base Level) {
	for _, run := range buildLevelRuns(work, levels, base) {
		resolveWeak(work, run)
		resolveNeutral(work, run)
		resolveLevels(work, levels, run)
	}
}

func isIsolateClass(c xbidi.Class) bool {
	return c == xbidi.LRI || c == xbidi.RLI || c == xbidi.FSI || c == xbidi.PDI
}

// resolveWeak applies rules W1 through W7.
func resolveWeak(work []xbidi.Class, run levelRun) {
	// W1: non-spacing marks take the class of the preceding character.
	prev := run.sos
	for _, i := range run.idxs {
		if work[i] == xbidi.NSM {
			if isIsolateClass(prev) {
				work[i] = xbidi.ON
			} else {
				work[i] = prev
			}
		}
		prev = work[i]
	}

	// W2: European numbers after an Arabic letter become Arabic.
	strong := run.sos
	for _, i := range run.idxs {
		switch work[i] {
		case xbidi.L, xbidi.R, xbidi.AL:
			strong = work[i]
		case xbidi.EN:
			if strong == xbidi.AL {
				work[i] = xbidi.AN
			}
		}
	}

	// W3: Arabic letters are treated as strong R.
	for _, i := range run.idxs {
		if work[i] == xbidi.AL {
			work[i] = xbidi.R
		}
	}

	// W4: a single separator between matching numbers joins them.
	for k := 1; k < len(run.idxs)-1; k++ {
		i := run.idxs[k]
		before, after := work[run.idxs[k-1]], work[run.idxs[k+1]]
		if work[i] == xbidi.ES && before == xbidi.EN && after == xbidi.EN {
			work[i] = xbidi.EN
		}
		if work[i] == xbidi.CS && before == after &&
			(before == xbidi.EN || before == xbidi.AN) {
			work[i] = before
		}
	}

	// W5: terminator runs adjacent to European numbers become EN.
	for k := 0; k < len(run.idxs); k++ {
		if work[run.idxs[k]] != xbidi.ET {
			continue
		}
		end := k
		for end < len(run.idxs) && work[run.idxs[end]] == xbidi.ET {
			end++
		}
		adjacentEN := (k > 0 && work[run.idxs[k-1]] == xbidi.EN) ||
			(end < len(run.idxs) && work[run.idxs[end]] == xbidi.EN)
		if adjacentEN {
			for j := k; j < end; j++ {
				work[run.idxs[j]] = xbidi.EN
			}
		}
		k = end - 1
	}

	// W6: leftover separators and terminators are neutral.
	for _, i := range run.idxs {
		switch work[i] {
		case xbidi.ET, xbidi.ES, xbidi.CS:
			work[i] = xbidi.ON
		}
	}

	// W7: European numbers after a strong L become L.
	strong = run.sos
	for _, i := range run.idxs {
		switch work[i] {
		case xbidi.L, xbidi.R:
			strong = work[i]
		case xbidi.EN:
			if strong == xbidi.L {
				work[i] = xbidi.L
			}
		}
	}
}

func isNeutral(c xbidi.Class) bool {
	switch c {
	case xbidi.B, xbidi.S, xbidi.WS, xbidi.ON:
		return true
	}
	return isIsolateClass(c)
}

// strongContext maps numbers to R for neutral resolution.
func strongContext(c xbidi.Class) xbidi.Class {
	if c == xbidi.EN || c == xbidi.AN {
		return xbidi.R
	}
	return c
}

// resolveNeutral applies rules N1 and N2.
func resolveNeutral(work []xbidi.Class, run levelRun) {
	embedding := dirClassOf(run.level)
	for k := 0; k < len(run.idxs); k++ {
		if !isNeutral(work[run.idxs[k]]) {
			continue
		}
		end := k
		for end < len(run.idxs) && isNeutral(work[run.idxs[end]]) {
			end++
		}
		before, after := run.sos, run.eos
		if k > 0 {
			before = strongContext(work[run.idxs[k-1]])
		}
		if end < len(run.idxs) {
			after = strongContext(work[run.idxs[end]])
		}
		resolved := embedding
		if before == after && (before == xbidi.L || before == xbidi.R) {
			resolved = before
		}
		for j := k; j < end; j++ {
			work[run.idxs[j]] = resolved
		}
		k = end - 1
	}
}

// resolveLevels applies rules I1 and I2.
func resolveLevels(work []xbidi.Class, levels []Level, run levelRun) {
	for _, i := range run.idxs {
		if run.level.IsRTL() {
			switch work[i] {
			case xbidi.L, xbidi.EN, xbidi.AN:
				levels[i] = run.level + 1
			}
		} else {
			switch work[i] {
			case xbidi.R:
				levels[i] = run.level + 1
			case xbidi.EN, xbidi.AN:
				levels[i] = run.level + 2
			}
		}
	}
}

// resetWhitespaceLevels applies rule L1: segment separators and
// trailing whitespace or formatting sequences return to the base
// level.
func resetWhitespaceLevels(classes []xbidi.Class, levels []Level, base Level) {
	tail := true
	for i := len(classes) - 1; i >= 0; i-- {
		switch classes[i] {
		case xbidi.B, xbidi.S:
			levels[i] = base
			tail = true
		case xbidi.WS, xbidi.BN,
			xbidi.LRE, xbidi.RLE, xbidi.LRO, xbidi.RLO, xbidi.PDF,
			xbidi.LRI, xbidi.RLI, xbidi.FSI, xbidi.PDI:
			if tail {
				levels[i] = base
			}
		default:
			tail = false
		}
	}
}

// segmentClusters splits the text into grapheme clusters and assigns
// each the level of its first rune.
func (p *Paragraph) segmentClusters() {
	state := -1
	rest := p.text
	runeOff := 0
	for len(rest) > 0 {
		cluster, r, _, next := uniseg.StepString(rest, state)
		n := utf8.RuneCountInString(cluster)
		p.clusters = append(p.clusters, clusterSpan{start: runeOff, end: runeOff + n})
		p.clusterLevels = append(p.clusterLevels, p.levels[runeOff])
		runeOff += n
		rest = r
		state = next
	}
}

// byteOffset converts a rune offset into a byte offset.
func byteOffset(s string, runeOff int) int {
	n := 0
	for i := range s {
		if n == runeOff {
			return i
		}
		n++
	}
	return len(s)
}
