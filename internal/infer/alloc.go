package infer

import "fmt"

// NonterminalAllocator is a monotonically increasing name allocator yielding
// t0, t1, t2, ... t0 (grammar.StartSymbol) is permanently reserved for
// START and is never handed out by Next.
//
// A pipeline Context carries exactly one NonterminalAllocator for its
// lifetime; names are never recycled within a run.
type NonterminalAllocator struct {
	next int
}

// NewNonterminalAllocator returns an allocator whose first Next() call
// yields t1 -- t0 is reserved for START and pre-claimed.
func NewNonterminalAllocator() *NonterminalAllocator {
	return &NonterminalAllocator{next: 1}
}

// Next returns a fresh, never-before-issued nonterminal name.
func (a *NonterminalAllocator) Next() string {
	name := fmt.Sprintf("t%d", a.next)
	a.next++
	return name
}
