package infer

import (
	"math/rand"

	"github.com/dekarrin/grammarinfer/internal/ictiobus/grammar"
	"github.com/dekarrin/grammarinfer/internal/ictiobus/types"
)

// Fixed schema nonterminal names for token-class generalisation. Unlike
// every other nonterminal in the pipeline, these are not allocator-issued:
// they are canonical, shared across every rule promoted into one of these
// classes.
const (
	DigitNT        = "tdigit"
	NonZeroDigitNT = "tnzdigit"
	DigitsNT       = "tdigits"
	IntegerNT      = "tinteger"
)

// ExpandTokens promotes literal digit-terminal rule bodies to the broader
// tdigit / tinteger / tdigits schemas when the oracle tolerates it, trying
// the broadest tier first and narrowing: tdigits, then tinteger, then
// tdigit.
func ExpandTokens(ctx *Context, g *grammar.Grammar, trees []*types.ParseNode) (*grammar.Grammar, []*types.ParseNode) {
	rng := rand.New(rand.NewSource(ctx.Seed))

	for _, nt := range g.NonTerminals() {
		r := g.Rule(nt)

		var digitBodies []grammar.Production
		present := map[string]bool{}
		allLenOne := true
		for _, p := range r.Productions {
			if len(p) != 1 || g.HasRule(p[0]) {
				continue
			}
			lit := types.FixupPayload(p[0])
			if lit == "" || !isAllDigits(lit) {
				continue
			}
			digitBodies = append(digitBodies, p)
			present[lit] = true
			if len(lit) != 1 {
				allLenOne = false
			}
		}
		if len(digitBodies) == 0 {
			continue
		}

		containing := treesContaining(trees, nt)
		if len(containing) == 0 {
			continue
		}

		switch {
		case probeAllOccurrences(ctx, containing, nt, sampleLeadingZeroDigits(rng, ctx.MaxSamples)):
			ensureDigitHelperRules(g)
			replaceDigitBodies(g, nt, digitBodies, DigitsNT)
		case probeAllOccurrences(ctx, containing, nt, sampleIntegers(rng, ctx.MaxSamples)):
			ensureDigitHelperRules(g)
			replaceDigitBodies(g, nt, digitBodies, IntegerNT)
		case allLenOne:
			missing := missingDigits(present)
			if len(missing) > 0 && probeAllOccurrences(ctx, containing, nt, missing) {
				ensureDigitHelperRules(g)
				replaceDigitBodies(g, nt, digitBodies, DigitNT)
			}
		}
	}

	return g, trees
}

// ExpandedClasses reports which of the fixed token-class schemas ended up
// present in g, in narrowing order (tdigits, tinteger, tnzdigit, tdigit),
// so a caller can tell an operator which generalisations actually fired.
func ExpandedClasses(g *grammar.Grammar) []string {
	var out []string
	for _, nt := range []string{DigitsNT, IntegerNT, NonZeroDigitNT, DigitNT} {
		if g.HasRule(nt) {
			out = append(out, nt)
		}
	}
	return out
}

// probeAllOccurrences requires that, for every tree in trees, every
// all-occurrences template instantiated with every candidate is accepted by
// the oracle.
func probeAllOccurrences(ctx *Context, trees []*types.ParseNode, nt string, candidates []string) bool {
	for _, t := range trees {
		templates := AllOccurrenceTemplates(t, nt)
		for _, c := range candidates {
			for _, tmpl := range templates {
				if !ctx.Oracle.Parse(Instantiate(tmpl, c)) {
					return false
				}
			}
		}
	}
	return true
}

func treesContaining(trees []*types.ParseNode, nt string) []*types.ParseNode {
	var out []*types.ParseNode
	for _, t := range trees {
		found := false
		t.Walk(func(n *types.ParseNode) bool {
			if !n.Terminal && n.Value == nt {
				found = true
			}
			return true
		})
		if found {
			out = append(out, t)
		}
	}
	return out
}

func missingDigits(present map[string]bool) []string {
	var out []string
	for d := '0'; d <= '9'; d++ {
		s := string(d)
		if !present[s] {
			out = append(out, s)
		}
	}
	return out
}

func replaceDigitBodies(g *grammar.Grammar, nt string, bodies []grammar.Production, newSym string) {
	r := g.Rule(nt)
	for _, b := range bodies {
		r.RemoveBody(b)
	}
	g.AddRule(nt, []string{newSym})
}

// ensureDigitHelperRules inserts the fixed schema rules for tdigit,
// tnzdigit, tdigits, and tinteger, if not already present.
func ensureDigitHelperRules(g *grammar.Grammar) {
	if !g.HasRule(DigitNT) {
		for d := '0'; d <= '9'; d++ {
			g.AddRule(DigitNT, []string{string(d)})
		}
	}
	if !g.HasRule(NonZeroDigitNT) {
		for d := '1'; d <= '9'; d++ {
			g.AddRule(NonZeroDigitNT, []string{string(d)})
		}
	}
	if !g.HasRule(DigitsNT) {
		g.AddRule(DigitsNT, []string{DigitNT})
		g.AddRule(DigitsNT, []string{DigitNT, DigitsNT})
	}
	if !g.HasRule(IntegerNT) {
		g.AddRule(IntegerNT, []string{NonZeroDigitNT})
		g.AddRule(IntegerNT, []string{NonZeroDigitNT, DigitsNT})
	}
}

func sampleIntegers(rng *rand.Rand, n int) []string {
	out := make([]string, n)
	for i := range out {
		b := make([]byte, 0, 10)
		b = append(b, byte('1'+rng.Intn(9)))
		extra := rng.Intn(10)
		for j := 0; j < extra; j++ {
			b = append(b, byte('0'+rng.Intn(10)))
		}
		out[i] = string(b)
	}
	return out
}

func sampleLeadingZeroDigits(rng *rand.Rand, n int) []string {
	out := make([]string, n)
	for i := range out {
		b := make([]byte, 0, 10)
		b = append(b, '0')
		extra := rng.Intn(10)
		for j := 0; j < extra; j++ {
			b = append(b, byte('0'+rng.Intn(10)))
		}
		out[i] = string(b)
	}
	return out
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
