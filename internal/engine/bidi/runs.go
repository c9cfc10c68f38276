package bidi

import "fmt"

// VisualRun is a maximal span of clusters sharing one display
// direction. Start and End are logical cluster columns; runs are
// reported in visual order, left to right.
type VisualRun struct {
	Start int // inclusive logical column
	End   int // exclusive logical column
	Level Level
}

// Direction returns the run's display direction.
func (r VisualRun) Direction() Direction { return r.Level.Direction() }

func (r VisualRun) String() string {
	return fmt.Sprintf("[%d,%d) %s", r.Start, r.End, r.Direction())
}

// VisualRuns returns the paragraph's runs in display order.
func (p *Paragraph) VisualRuns() []VisualRun { return p.runs }

// LogicalToVisual maps a logical cluster column to its visual column.
// Valid for the full caret range [0, Len].
func (p *Paragraph) LogicalToVisual(logical int) (int, error) {
	n := len(p.clusters)
	if logical < 0 || logical > n {
		return 0, ErrIndexOutOfRange
	}
	if logical == n {
		return n, nil
	}
	return p.visualIdx[logical], nil
}

// VisualToLogical maps a visual column back to its logical cluster
// column. Inverse of LogicalToVisual for every index in [0, Len].
func (p *Paragraph) VisualToLogical(visual int) (int, error) {
	n := len(p.clusters)
	if visual < 0 || visual > n {
		return 0, ErrIndexOutOfRange
	}
	if visual == n {
		return n, nil
	}
	return p.visual[visual], nil
}

// reorder applies rule L2 at cluster granularity: from the highest
// level down to the lowest odd level, reverse every contiguous span of
// clusters at or above that level.
func (p *Paragraph) reorder() {
	n := len(p.clusters)
	p.visual = make([]int, n)
	for i := range p.visual {
		p.visual[i] = i
	}

	var highest Level
	lowestOdd := Level(maxDepth + 1)
	for _, l := range p.clusterLevels {
		if l > highest {
			highest = l
		}
		if l.IsRTL() && l < lowestOdd {
			lowestOdd = l
		}
	}
	if lowestOdd <= highest {
		for lvl := highest; lvl >= lowestOdd; lvl-- {
			p.reverseSpansAtLevel(lvl)
		}
	}

	p.visualIdx = make([]int, n)
	for rank, col := range p.visual {
		p.visualIdx[col] = rank
	}
}

func (p *Paragraph) reverseSpansAtLevel(lvl Level) {
	at := func(rank int) Level { return p.clusterLevels[p.visual[rank]] }
	for i := 0; i < len(p.visual); i++ {
		if at(i) < lvl {
			continue
		}
		j := i
		for j < len(p.visual) && at(j) >= lvl {
			j++
		}
		for lo, hi := i, j-1; lo < hi; lo, hi = lo+1, hi-1 {
			p.visual[lo], p.visual[hi] = p.visual[hi], p.visual[lo]
		}
		i = j - 1
	}
}

// buildRuns groups logically contiguous same-level clusters and sorts
// the groups by their leftmost visual position. Reordering keeps each
// level run contiguous on screen, so this fully determines display
// order.
func (p *Paragraph) buildRuns() {
	n := len(p.clusters)
	if n == 0 {
		return
	}
	var logical []VisualRun
	start := 0
	for i := 1; i <= n; i++ {
		if i == n || p.clusterLevels[i] != p.clusterLevels[start] {
			logical = append(logical, VisualRun{Start: start, End: i, Level: p.clusterLevels[start]})
			start = i
		}
	}

	rank := func(r VisualRun) int {
		lo := p.visualIdx[r.Start]
		if hi := p.visualIdx[r.End-1]; hi < lo {
			lo = hi
		}
		return lo
	}
	p.runs = make([]VisualRun, len(logical))
	copy(p.runs, logical)
	for i := 1; i < len(p.runs); i++ {
		for j := i; j > 0 && rank(p.runs[j]) < rank(p.runs[j-1]); j-- {
			p.runs[j], p.runs[j-1] = p.runs[j-1], p.runs[j]
		}
	}
}
