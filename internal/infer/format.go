package infer

import (
	"fmt"
	"strings"

	"github.com/dekarrin/grammarinfer/internal/ictiobus/grammar"
	"github.com/dekarrin/rosed"
)

// consoleWidth is the line width rule bodies are wrapped to when printed to
// an interactive session.
const consoleWidth = 78

// FormatGrammar renders g for display: START first, then every other rule
// in insertion order, with long alternation lists wrapped and continuation
// lines indented under the " -> ".
func FormatGrammar(g *grammar.Grammar) string {
	var sb strings.Builder

	order := append([]string{grammar.StartSymbol}, nonStartNonTerminals(g)...)
	for _, nt := range order {
		r := g.Rule(nt)
		if r == nil {
			continue
		}
		sb.WriteString(formatRule(r))
		sb.WriteRune('\n')
	}

	return sb.String()
}

func formatRule(r *grammar.Rule) string {
	alts := make([]string, len(r.Productions))
	for i, p := range r.Productions {
		alts[i] = p.String()
	}

	lhs := fmt.Sprintf("%s -> ", r.NonTerminal)
	body := rosed.Edit(strings.Join(alts, " | ")).Wrap(consoleWidth - len(lhs)).String()

	return lhs + spaceIndentNewlines(body, len(lhs))
}

// spaceIndentNewlines pads every line after the first in str with amount
// spaces, so a wrapped continuation lines up under the text that precedes
// it on the first line.
func spaceIndentNewlines(str string, amount int) string {
	if strings.Contains(str, "\n") {
		pad := strings.Repeat(" ", amount)
		str = strings.ReplaceAll(str, "\n", "\n"+pad)
	}
	return str
}
