// Package wikitext parses MediaWiki markup into a node tree.
//
// The parser is best effort: it never fails. Constructs it cannot close are
// kept as literal text and reported as warnings.
package wikitext

import (
	"strings"
	"unicode"
)

const (
	// MaxInlineDepth bounds how deeply templates, links and template
	// parameters may nest. Deeper openers are kept as literal text.
	MaxInlineDepth = 64

	// MaxListDepth bounds list nesting. Extra list markers are kept as
	// item text.
	MaxListDepth = 32
)

// construct identifies a bracketed construct for failure memoization.
type construct uint8

const (
	cTemplate construct = 1 << iota
	cTemplateParameter
	cLink
	cExternalLink
)

func (c construct) String() string {
	switch c {
	case cTemplate:
		return "template"
	case cTemplateParameter:
		return "template parameter"
	case cLink:
		return "link"
	case cExternalLink:
		return "external link"
	}
	return "construct"
}

type parser struct {
	src      string
	pos      int
	depth    int
	failed   map[int]construct // openers known not to close
	warnings []Warning

	lower  string              // src with ASCII letters lower-cased
	closes map[string]closeHit // last closing-tag search per tag name
}

// closeHit records a closing-tag search started at from. The answer holds
// for every later search starting at or before at, and for every later
// search at all when the tag was not found.
type closeHit struct {
	from, at, end int
	ok            bool
}

// Parse parses wikitext into block-level nodes.
func Parse(src string) Result {
	p := newParser(src)
	nodes := p.parseBlocks()
	return Result{Nodes: nodes, Warnings: p.warnings}
}

func newParser(src string) *parser {
	return &parser{
		src:    src,
		failed: make(map[int]construct),
		lower:  asciiLower(src),
		closes: make(map[string]closeHit),
	}
}

func (p *parser) warn(start, end int, msg string) {
	p.warnings = append(p.warnings, Warning{Start: start, End: end, Message: msg})
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) atAny(terms []string) bool {
	for _, t := range terms {
		if p.hasPrefix(t) {
			return true
		}
	}
	return false
}

// lineEnd returns the offset of the next newline, or the end of input.
func (p *parser) lineEnd() int {
	if i := strings.IndexByte(p.src[p.pos:], '\n'); i >= 0 {
		return p.pos + i
	}
	return len(p.src)
}

// skipNewline consumes a single newline at the cursor, if present.
func (p *parser) skipNewline() {
	if p.hasPrefix("\n") {
		p.pos++
	}
}

// sub parses src[from:to] as inline content in a child parser, keeping
// offsets absolute.
func (p *parser) sub(from, to int) []Node {
	c := &parser{
		src:    p.src[:to],
		pos:    from,
		depth:  p.depth,
		failed: make(map[int]construct),
		lower:  p.lower[:to],
		closes: make(map[string]closeHit),
	}
	nodes := c.parseInline()
	p.warnings = append(p.warnings, c.warnings...)
	return nodes
}

// attempt runs parse for a bracketed construct, restoring the cursor and
// remembering the failure when the construct does not close.
func (p *parser) attempt(c construct, parse func() (Node, bool)) (Node, bool) {
	start := p.pos
	if p.failed[start]&c != 0 {
		return nil, false
	}
	if p.depth >= MaxInlineDepth {
		p.failed[start] |= c
		p.warn(start, start+1, c.String()+" nested too deeply")
		return nil, false
	}

	p.depth++
	n, ok := parse()
	p.depth--

	if !ok {
		p.warn(start, p.pos, "unterminated "+c.String())
		p.pos = start
		p.failed[start] |= c
	}
	return n, ok
}

// appendText appends a text run, merging it into a preceding adjacent run.
func appendText(nodes []Node, start, end int, value string) []Node {
	if value == "" {
		return nodes
	}
	if n := len(nodes); n > 0 {
		if t, ok := nodes[n-1].(Text); ok && t.End == start {
			t.Value += value
			t.End = end
			nodes[n-1] = t
			return nodes
		}
	}
	return append(nodes, Text{Span: Span{Start: start, End: end}, Value: value})
}

// appendNodes appends more nodes, merging adjacent text at the seam.
func appendNodes(nodes, more []Node) []Node {
	for _, n := range more {
		if t, ok := n.(Text); ok {
			nodes = appendText(nodes, t.Start, t.End, t.Value)
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// trimNodes strips whitespace from the outer text runs of a node sequence.
func trimNodes(nodes []Node) []Node {
	for len(nodes) > 0 {
		t, ok := nodes[0].(Text)
		if !ok {
			break
		}
		t.Value = strings.TrimLeftFunc(t.Value, unicode.IsSpace)
		if t.Value != "" {
			nodes[0] = t
			break
		}
		nodes = nodes[1:]
	}
	for len(nodes) > 0 {
		last := len(nodes) - 1
		t, ok := nodes[last].(Text)
		if !ok {
			break
		}
		t.Value = strings.TrimRightFunc(t.Value, unicode.IsSpace)
		if t.Value != "" {
			nodes[last] = t
			break
		}
		nodes = nodes[:last]
	}
	return nodes
}
