package wikitext

import (
	"regexp"
	"strings"
)

var redirectRe = regexp.MustCompile(`(?i)^\s*#redirect\s*:?\s*\[\[([^\]\|\n]+)(?:\|[^\]\n]*)?\]\][^\n]*\n?`)

// parseBlocks parses the whole input as a sequence of block-level nodes.
// Paragraph lines are parsed inline and their newlines kept as text.
func (p *parser) parseBlocks() []Node {
	var nodes []Node
	if m := redirectRe.FindStringSubmatch(p.src); m != nil {
		nodes = append(nodes, Redirect{Span: Span{0, len(m[0])}, Target: strings.TrimSpace(m[1])})
		p.pos = len(m[0])
	}

	for p.pos < len(p.src) {
		if block, ok := p.parseBlock(); ok {
			nodes = appendNodes(nodes, block)
			continue
		}
		nodes = appendNodes(nodes, p.parseInline("\n"))
		if p.hasPrefix("\n") {
			nodes = appendText(nodes, p.pos, p.pos+1, "\n")
			p.pos++
		}
	}
	return nodes
}

// parseBlock parses a block construct at the start of a line.
func (p *parser) parseBlock() ([]Node, bool) {
	end := p.lineEnd()
	line := p.src[p.pos:end]

	switch {
	case strings.TrimSpace(line) == "":
		return []Node{p.parseParagraphBreak()}, true
	case line[0] == '=':
		if n, ok := p.parseHeading(end); ok {
			return []Node{n}, true
		}
	case strings.HasPrefix(line, "----"):
		return p.parseDivider(), true
	case line[0] == '*' || line[0] == '#':
		return []Node{p.parseList("", line[0])}, true
	case line[0] == ';' || line[0] == ':':
		return []Node{p.parseDefinitionList()}, true
	case strings.HasPrefix(strings.TrimLeft(line, " \t"), "{|"):
		return []Node{p.parseTable()}, true
	case line[0] == ' ':
		return []Node{p.parsePreformatted()}, true
	}
	return nil, false
}

func (p *parser) parseParagraphBreak() Node {
	start := p.pos
	for p.pos < len(p.src) {
		end := p.lineEnd()
		if strings.TrimSpace(p.src[p.pos:end]) != "" {
			break
		}
		p.pos = end
		p.skipNewline()
	}
	return ParagraphBreak{Span{start, p.pos}}
}

func (p *parser) parseHeading(end int) (Node, bool) {
	start := p.pos
	line := strings.TrimRight(p.src[start:end], " \t\r")

	lead := len(line) - len(strings.TrimLeft(line, "="))
	trail := len(line) - len(strings.TrimRight(line, "="))
	level := min(lead, trail, 6)
	if lead == len(line) {
		// A line of only '=' is a heading whose text is the middle '='.
		level = min((len(line)-1)/2, 6)
	}
	if level < 1 {
		return nil, false
	}

	nodes := trimNodes(p.sub(start+level, start+len(line)-level))
	p.pos = end
	p.skipNewline()
	return Heading{Span: Span{start, p.pos}, Level: level, Nodes: nodes}, true
}

// parseDivider consumes a horizontal rule. Anything after the dashes on the
// same line is ordinary inline content.
func (p *parser) parseDivider() []Node {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] == '-' {
		p.pos++
	}
	nodes := []Node{HorizontalDivider{Span{start, p.pos}}}
	nodes = append(nodes, p.parseInline("\n")...)
	if p.hasPrefix("\n") {
		nodes = appendText(nodes, p.pos, p.pos+1, "\n")
		p.pos++
	}
	return nodes
}

// listMarkers returns the run of list markers at the cursor, clamped to
// MaxListDepth.
func (p *parser) listMarkers() (string, bool) {
	n := 0
	for p.pos+n < len(p.src) && (p.src[p.pos+n] == '*' || p.src[p.pos+n] == '#') {
		n++
	}
	if n > MaxListDepth {
		return p.src[p.pos : p.pos+MaxListDepth], true
	}
	return p.src[p.pos : p.pos+n], false
}

// parseList parses consecutive lines whose markers extend prefix with
// marker. Lines with longer marker runs become a nested list inside the
// last item.
func (p *parser) parseList(prefix string, marker byte) Node {
	start := p.pos
	var items []ListItem
	for p.pos < len(p.src) {
		m, clamped := p.listMarkers()
		if len(m) <= len(prefix) || m[:len(prefix)] != prefix || m[len(prefix)] != marker {
			break
		}
		if len(m) > len(prefix)+1 {
			child := p.parseList(m[:len(prefix)+1], m[len(prefix)+1])
			if len(items) == 0 {
				items = append(items, ListItem{Span: Span{NodeSpan(child).Start, NodeSpan(child).Start}})
			}
			last := &items[len(items)-1]
			last.Nodes = append(last.Nodes, child)
			last.End = p.pos
			continue
		}

		itemStart := p.pos
		if clamped {
			p.warn(itemStart, itemStart+len(m), "list nested too deeply")
		}
		p.pos += len(m)
		nodes := p.parseInline("\n")
		p.skipNewline()
		items = append(items, ListItem{Span: Span{itemStart, p.pos}, Nodes: nodes})
	}

	span := Span{start, p.pos}
	if marker == '#' {
		return OrderedList{Span: span, Items: items}
	}
	return UnorderedList{Span: span, Items: items}
}

func (p *parser) parseDefinitionList() Node {
	start := p.pos
	var items []ListItem
	for p.pos < len(p.src) && (p.src[p.pos] == ';' || p.src[p.pos] == ':') {
		itemStart := p.pos
		for p.pos < len(p.src) && strings.IndexByte(";:*#", p.src[p.pos]) >= 0 {
			p.pos++
		}
		nodes := p.parseInline("\n")
		p.skipNewline()
		items = append(items, ListItem{Span: Span{itemStart, p.pos}, Nodes: nodes})
	}
	return DefinitionList{Span: Span{start, p.pos}, Items: items}
}

// parseTable skips a table, including nested tables, as a single node.
func (p *parser) parseTable() Node {
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		end := p.lineEnd()
		line := strings.TrimLeft(p.src[p.pos:end], " \t")
		p.pos = end
		p.skipNewline()
		switch {
		case strings.HasPrefix(line, "{|"):
			depth++
		case strings.HasPrefix(line, "|}"):
			depth--
		}
		if depth == 0 {
			return Table{Span{start, p.pos}}
		}
	}
	p.warn(start, p.pos, "unterminated table")
	return Table{Span{start, p.pos}}
}

func (p *parser) parsePreformatted() Node {
	start := p.pos
	p.pos++
	nodes := p.parseInline("\n")
	p.skipNewline()
	return Preformatted{Span: Span{start, p.pos}, Nodes: nodes}
}
