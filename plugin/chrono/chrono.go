// Package chrono locates natural-language date/time expressions in free
// text and resolves them against a reference instant. Resolution keeps
// track of which fields were stated explicitly and which were implied by
// the reference, so callers can distinguish "March 15 at 5pm" knowing
// the month, day and hour from the year it had to assume.
package chrono

import (
	"regexp"
	"sort"
	"time"
)

// Parser finds date/time expressions in text. It is safe for concurrent
// use; all state is compiled once at construction.
type Parser struct {
	rules   []rule
	rangeRe *regexp.Regexp
}

func NewParser() *Parser {
	return &Parser{
		rules:   compileRules(),
		rangeRe: regexp.MustCompile(`^\s*(?:to|until|till|through|[-\x{2013}\x{2014}])\s*`),
	}
}

// FindMatches scans text and returns every resolved expression in order
// of appearance. ref is the instant ambiguous fields resolve against;
// refOffsetMinutes is the UTC offset, in minutes, the reference is read
// at. When forwardOnly is set, expressions without an explicit direction
// resolve to the nearest instant at or after ref.
func (p *Parser) FindMatches(text string, ref time.Time, refOffsetMinutes int, forwardOnly bool) []Match {
	cands := p.collect(text)
	if len(cands) == 0 {
		return nil
	}

	var matches []Match
	for i := 0; i < len(cands); i++ {
		c := cands[i]
		start := resolve(c, ref, refOffsetMinutes, forwardOnly)

		if i+1 < len(cands) {
			if joined, ok := p.joinRange(text, c, cands[i+1]); ok {
				end := resolve(cands[i+1], start.Resolved(), start.OffsetMinutes(), true)
				matches = append(matches, Match{
					Text:  joined,
					Index: c.index,
					Start: start,
					End:   end,
				})
				i++
				continue
			}
		}

		matches = append(matches, Match{Text: c.text, Index: c.index, Start: start})
	}
	return matches
}

// collect runs every rule over the text and keeps a non-overlapping,
// leftmost-longest subset of the raw matches.
func (p *Parser) collect(text string) []*candidate {
	var all []*candidate
	for _, r := range p.rules {
		for _, loc := range r.re.FindAllStringSubmatchIndex(text, -1) {
			groups := map[string]string{}
			for gi, name := range r.re.SubexpNames() {
				if name == "" || loc[2*gi] < 0 {
					continue
				}
				groups[name] = text[loc[2*gi]:loc[2*gi+1]]
			}
			c := r.build(groups)
			if c == nil {
				continue
			}
			c.index = loc[0]
			c.text = text[loc[0]:loc[1]]
			all = append(all, c)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].index != all[j].index {
			return all[i].index < all[j].index
		}
		return len(all[i].text) > len(all[j].text)
	})

	var kept []*candidate
	lastEnd := -1
	for _, c := range all {
		if c.index < lastEnd {
			continue
		}
		kept = append(kept, c)
		lastEnd = c.end()
	}
	return kept
}

// joinRange reports whether two adjacent candidates are connected by a
// range separator ("to", "until", a dash) with nothing else between
// them, returning the combined matched text.
func (p *Parser) joinRange(text string, a, b *candidate) (string, bool) {
	gap := text[a.end():b.index]
	m := p.rangeRe.FindString(gap)
	if m == "" || len(m) != len(gap) {
		return "", false
	}
	return text[a.index:b.end()], true
}
