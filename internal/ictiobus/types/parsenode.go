// Package types holds the data types shared by the grammar inference
// pipeline: the parse tree built from guide examples and refined by
// bubbling/coalescing, and the grammar symbols it is labeled with.
package types

import (
	"fmt"
	"strings"
)

const (
	treeLevelEmpty             = "        "
	treeLevelOngoing           = "  |     "
	treeLevelPrefix            = "  |%s: "
	treeLevelPrefixLast        = `  \%s: `
	treeLevelPrefixNamePad     = '-'
	treeLevelPrefixNamePadAmnt = 3
)

func makeTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmnt {
		msg = string(treeLevelPrefixNamePad) + msg
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func makeTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmnt {
		msg = string(treeLevelPrefixNamePad) + msg
	}
	return fmt.Sprintf(treeLevelPrefixLast, msg)
}

// ParseNode is a labelled rose tree node. A terminal node carries an opaque
// lexeme payload and has no children; a nonterminal node carries a grammar
// symbol name and an ordered list of children.
//
// ParseNode is mutated only by wholesale replacement: callers that want to
// rewrite part of a tree should Copy it first and rewrite the copy.
type ParseNode struct {
	// Terminal is whether this node holds a terminal lexeme.
	Terminal bool

	// Value is the terminal's lexeme payload if Terminal is true, otherwise
	// the nonterminal name labelling this node.
	Value string

	// Children is the ordered list of child nodes. Always empty for a
	// terminal node.
	Children []*ParseNode
}

// NewTerminal returns a leaf ParseNode wrapping the given lexeme payload.
func NewTerminal(payload string) *ParseNode {
	return &ParseNode{Terminal: true, Value: payload}
}

// NewNonterminal returns an internal ParseNode labelled nt with the given
// children.
func NewNonterminal(nt string, children ...*ParseNode) *ParseNode {
	return &ParseNode{Value: nt, Children: children}
}

// Copy returns a duplicate, deeply-copied ParseNode. Mutating the copy never
// affects the original.
func (pn *ParseNode) Copy() *ParseNode {
	if pn == nil {
		return nil
	}

	cp := &ParseNode{
		Terminal: pn.Terminal,
		Value:    pn.Value,
		Children: make([]*ParseNode, len(pn.Children)),
	}

	for i := range pn.Children {
		cp.Children[i] = pn.Children[i].Copy()
	}

	return cp
}

// Equal returns whether pn and o are structurally identical: same
// terminal/nonterminal label at every node, same children in the same order.
func (pn *ParseNode) Equal(o any) bool {
	other, ok := o.(*ParseNode)
	if !ok {
		return false
	}
	if pn == nil || other == nil {
		return pn == other
	}

	if pn.Terminal != other.Terminal || pn.Value != other.Value {
		return false
	}
	if len(pn.Children) != len(other.Children) {
		return false
	}
	for i := range pn.Children {
		if !pn.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// FixupPayload strips wrapping double-quote characters from a terminal
// payload of length >= 3 that begins and ends with a `"`. This recovers the
// original lexeme from a quoted-literal symbol of the kind a grammar body
// uses for terminals.
func FixupPayload(payload string) string {
	if len(payload) >= 3 && strings.HasPrefix(payload, `"`) && strings.HasSuffix(payload, `"`) {
		return payload[1 : len(payload)-1]
	}
	return payload
}

// Yield returns the string obtained by concatenating, in left-to-right
// order, the (fixed-up) payload of every terminal leaf beneath pn.
func (pn *ParseNode) Yield() string {
	var sb strings.Builder
	pn.yield(&sb)
	return sb.String()
}

func (pn *ParseNode) yield(sb *strings.Builder) {
	if pn == nil {
		return
	}
	if pn.Terminal {
		sb.WriteString(FixupPayload(pn.Value))
		return
	}
	for _, c := range pn.Children {
		c.yield(sb)
	}
}

// Body returns the symbol sequence formed by pn's direct children, with
// terminal fixup applied to terminal children. This is the production body
// that a nonterminal node with these children realizes in a Grammar.
func (pn *ParseNode) Body() []string {
	body := make([]string, len(pn.Children))
	for i, c := range pn.Children {
		if c.Terminal {
			body[i] = FixupPayload(c.Value)
		} else {
			body[i] = c.Value
		}
	}
	return body
}

// Walk calls visit for pn and every descendant, depth-first, children in
// order. If visit returns false, Walk stops descending into that node's
// children (but continues with siblings already queued by the caller).
func (pn *ParseNode) Walk(visit func(n *ParseNode) bool) {
	if pn == nil {
		return
	}
	if !visit(pn) {
		return
	}
	for _, c := range pn.Children {
		c.Walk(visit)
	}
}

// String returns a prettified, line-by-line representation of the tree
// suitable for structural comparison in tests.
func (pn *ParseNode) String() string {
	return pn.leveledStr("", "")
}

func (pn *ParseNode) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if pn.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %q)", pn.Value))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", pn.Value))
	}

	for i := range pn.Children {
		sb.WriteRune('\n')
		var leveledFirstPrefix, leveledContPrefix string
		if i+1 < len(pn.Children) {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix("")
			leveledContPrefix = contPrefix + treeLevelOngoing
		} else {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefixLast("")
			leveledContPrefix = contPrefix + treeLevelEmpty
		}
		sb.WriteString(pn.Children[i].leveledStr(leveledFirstPrefix, leveledContPrefix))
	}

	return sb.String()
}
