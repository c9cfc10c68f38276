// Package history implements linear undo and redo over buffer edit
// operations. Operations accumulate into groups separated by explicit
// boundaries; adjacent same-kind edits fold into a single operation so
// a typing run undoes in one step. Memory is bounded by group count
// and byte limits, evicting the oldest groups first.
package history
