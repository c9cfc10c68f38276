package selection

import (
	"sort"

	"github.com/scribe-edit/scribe/internal/engine/position"
)

// SelectionSet holds one primary selection plus any number of
// secondary selections for multi-cursor editing. The set keeps
// selections sorted by start and free of overlaps.
type SelectionSet struct {
	primary     Selection
	secondaries []Selection
}

// NewSet returns a set with a single collapsed primary at pos.
func NewSet(pos position.Position) *SelectionSet {
	return &SelectionSet{primary: Collapsed(pos)}
}

// Primary returns the primary selection.
func (ss *SelectionSet) Primary() Selection { return ss.primary }

// SetPrimary replaces the primary selection and re-merges.
func (ss *SelectionSet) SetPrimary(s Selection) {
	ss.primary = s
	ss.MergeOverlapping()
}

// Secondaries returns the secondary selections in document order.
func (ss *SelectionSet) Secondaries() []Selection { return ss.secondaries }

// All returns every selection in document order.
func (ss *SelectionSet) All() []Selection {
	all := make([]Selection, 0, len(ss.secondaries)+1)
	all = append(all, ss.secondaries...)
	all = append(all, ss.primary)
	sort.Slice(all, func(i, j int) bool {
		return all[i].Range().Start.Before(all[j].Range().Start)
	})
	return all
}

// Count returns the number of selections including the primary.
func (ss *SelectionSet) Count() int { return len(ss.secondaries) + 1 }

// AddSelection adds a secondary selection and merges overlaps.
func (ss *SelectionSet) AddSelection(s Selection) {
	ss.secondaries = append(ss.secondaries, s)
	ss.MergeOverlapping()
}

// ClearSecondary drops all secondary selections, keeping the primary.
func (ss *SelectionSet) ClearSecondary() {
	ss.secondaries = nil
}

// CollapseAll collapses every selection to its head.
func (ss *SelectionSet) CollapseAll() {
	ss.primary = ss.primary.CollapseToHead()
	for i := range ss.secondaries {
		ss.secondaries[i] = ss.secondaries[i].CollapseToHead()
	}
	ss.MergeOverlapping()
}

// MergeOverlapping folds selections whose ranges touch or overlap into
// one, repeating until stable. When a secondary merges with the
// primary the merged selection stays primary, keeping its direction.
func (ss *SelectionSet) MergeOverlapping() {
	if len(ss.secondaries) == 0 {
		return
	}
	for {
		if !ss.mergeOnce() {
			return
		}
	}
}

// mergeOnce performs one merge pass and reports whether anything
// changed.
func (ss *SelectionSet) mergeOnce() bool {
	// Collapsed secondaries identical to another selection are
	// duplicates, not neighbors; drop them outright.
	kept := ss.secondaries[:0]
	changed := false
	for _, s := range ss.secondaries {
		if s.IsCollapsed() && samePoint(s, ss.primary) {
			changed = true
			continue
		}
		dup := false
		for _, k := range kept {
			if samePoint(s, k) {
				dup = true
				break
			}
		}
		if dup {
			changed = true
			continue
		}
		kept = append(kept, s)
	}
	ss.secondaries = kept

	for i := 0; i < len(ss.secondaries); i++ {
		s := ss.secondaries[i]
		if !s.IsCollapsed() || !ss.primary.IsCollapsed() {
			if s.Range().Touches(ss.primary.Range()) {
				ss.primary = mergeInto(ss.primary, s)
				ss.secondaries = append(ss.secondaries[:i], ss.secondaries[i+1:]...)
				return true
			}
		}
		for j := i + 1; j < len(ss.secondaries); j++ {
			o := ss.secondaries[j]
			if s.IsCollapsed() && o.IsCollapsed() {
				continue
			}
			if s.Range().Touches(o.Range()) {
				ss.secondaries[i] = mergeInto(s, o)
				ss.secondaries = append(ss.secondaries[:j], ss.secondaries[j+1:]...)
				return true
			}
		}
	}
	return changed
}

func samePoint(a, b Selection) bool {
	return a.IsCollapsed() && b.IsCollapsed() && a.Head == b.Head
}

// mergeInto unions other into base, keeping base's direction.
func mergeInto(base, other Selection) Selection {
	u := base.Range().Union(other.Range())
	if base.IsForward() {
		return Selection{Anchor: u.Start, Head: u.End, Granularity: base.Granularity}
	}
	return Selection{Anchor: u.End, Head: u.Start, Granularity: base.Granularity}
}
