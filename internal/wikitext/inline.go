package wikitext

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// extensionTags hold content that is not wikitext; the whole element is
// kept as a single Tag.
var extensionTags = map[string]bool{
	"ref":             true,
	"references":      true,
	"math":            true,
	"chem":            true,
	"ce":              true,
	"gallery":         true,
	"imagemap":        true,
	"syntaxhighlight": true,
	"source":          true,
	"pre":             true,
	"score":           true,
	"timeline":        true,
	"templatedata":    true,
	"graph":           true,
	"mapframe":        true,
	"maplink":         true,
	"hiero":           true,
	"inputbox":        true,
	"categorytree":    true,
}

var (
	entityRe    = regexp.MustCompile(`^&(?:#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[A-Za-z][A-Za-z0-9]{1,31});`)
	magicWordRe = regexp.MustCompile(`^__[A-Z]+__`)
)

var urlSchemes = []string{"http://", "https://", "ftp://", "ftps://", "irc://", "//", "mailto:", "news:"}

// parseInline parses inline content until one of terms is at the cursor or
// the input ends. The terminator is not consumed.
func (p *parser) parseInline(terms ...string) []Node {
	var nodes []Node
	textStart := p.pos
	for p.pos < len(p.src) {
		if p.atAny(terms) {
			break
		}
		start := p.pos
		n, ok := p.parseConstruct()
		if !ok {
			_, size := utf8.DecodeRuneInString(p.src[p.pos:])
			p.pos += size
			continue
		}
		if start > textStart {
			nodes = appendText(nodes, textStart, start, p.src[textStart:start])
		}
		if t, isText := n.(Text); isText {
			nodes = appendText(nodes, t.Start, t.End, t.Value)
		} else {
			nodes = append(nodes, n)
		}
		textStart = p.pos
	}
	if p.pos > textStart {
		nodes = appendText(nodes, textStart, p.pos, p.src[textStart:p.pos])
	}
	return nodes
}

// parseConstruct parses the inline construct at the cursor. It leaves the
// cursor untouched when there is none.
func (p *parser) parseConstruct() (Node, bool) {
	switch p.src[p.pos] {
	case '<':
		if p.hasPrefix("<!--") {
			return p.parseComment(), true
		}
		return p.parseTag()
	case '&':
		return p.parseEntity()
	case '{':
		if p.hasPrefix("{{{") {
			if n, ok := p.attempt(cTemplateParameter, p.parseTemplateParameter); ok {
				return n, true
			}
		}
		if p.hasPrefix("{{") {
			return p.attempt(cTemplate, p.parseTemplate)
		}
	case '[':
		if p.hasPrefix("[[") {
			return p.attempt(cLink, p.parseLink)
		}
		if p.atURL(p.pos + 1) {
			return p.attempt(cExternalLink, p.parseExternalLink)
		}
	case '\'':
		return p.parseEmphasis()
	case '_':
		if m := magicWordRe.FindString(p.src[p.pos:min(len(p.src), p.pos+64)]); m != "" {
			start := p.pos
			p.pos += len(m)
			return MagicWord{Span: Span{start, p.pos}, Name: strings.Trim(m, "_")}, true
		}
	}
	return nil, false
}

func (p *parser) atURL(at int) bool {
	rest := p.src[at:]
	for _, s := range urlSchemes {
		if len(rest) >= len(s) && strings.EqualFold(rest[:len(s)], s) {
			return true
		}
	}
	return false
}

func (p *parser) parseComment() Node {
	start := p.pos
	if i := strings.Index(p.src[start+4:], "-->"); i >= 0 {
		p.pos = start + 4 + i + 3
	} else {
		p.pos = len(p.src)
		p.warn(start, p.pos, "unterminated comment")
	}
	return Comment{Span: Span{start, p.pos}}
}

func (p *parser) parseEntity() (Node, bool) {
	start := p.pos
	m := entityRe.FindString(p.src[start:min(len(p.src), start+40)])
	if m == "" {
		return nil, false
	}
	decoded := html.UnescapeString(m)
	if decoded == m {
		return nil, false
	}
	p.pos += len(m)
	span := Span{start, p.pos}
	if r, size := utf8.DecodeRuneInString(decoded); size == len(decoded) {
		return CharacterEntity{Span: span, Character: r}, true
	}
	return Text{Span: span, Value: decoded}, true
}

func (p *parser) parseEmphasis() (Node, bool) {
	start := p.pos
	n := 0
	for p.pos+n < len(p.src) && p.src[p.pos+n] == '\'' {
		n++
	}
	switch {
	case n >= 5:
		p.pos += 5
		return BoldItalic{Span{start, p.pos}}, true
	case n >= 3:
		p.pos += 3
		return Bold{Span{start, p.pos}}, true
	case n == 2:
		p.pos += 2
		return Italic{Span{start, p.pos}}, true
	}
	return nil, false
}

// parseTag handles HTML and extension tags. Tag names are read with the
// HTML tokenizer so attribute quoting follows HTML rules.
func (p *parser) parseTag() (Node, bool) {
	start := p.pos
	rest := p.src[start:]
	if len(rest) < 3 || !(isASCIILetter(rest[1]) || rest[1] == '/') {
		return nil, false
	}
	gt := strings.IndexAny(rest[1:], "<>")
	if gt < 0 || rest[1+gt] != '>' {
		return nil, false
	}
	raw := rest[:gt+2]

	z := html.NewTokenizer(strings.NewReader(raw))
	tt := z.Next()
	nameBytes, _ := z.TagName()
	name := strings.ToLower(string(nameBytes))
	if name == "" {
		return nil, false
	}
	p.pos = start + len(raw)

	switch tt {
	case html.StartTagToken:
		if name == "nowiki" {
			if end, closeEnd, ok := p.findClose(name); ok {
				text := Text{Span: Span{start, closeEnd}, Value: p.src[p.pos:end]}
				p.pos = closeEnd
				return text, true
			}
			return StartTag{Span: Span{start, p.pos}, Name: name}, true
		}
		if extensionTags[name] {
			if _, closeEnd, ok := p.findClose(name); ok {
				p.pos = closeEnd
			} else {
				p.warn(start, p.pos, "unterminated <"+name+">")
			}
			return Tag{Span: Span{start, p.pos}, Name: name}, true
		}
		return StartTag{Span: Span{start, p.pos}, Name: name}, true
	case html.SelfClosingTagToken:
		if extensionTags[name] {
			return Tag{Span: Span{start, p.pos}, Name: name}, true
		}
		return StartTag{Span: Span{start, p.pos}, Name: name}, true
	case html.EndTagToken:
		return EndTag{Span: Span{start, p.pos}, Name: name}, true
	}
	p.pos = start
	return nil, false
}

// findClose locates the closing tag for name after the cursor. It returns
// the offset of the closing tag and the offset just past it. Results are
// reused across calls so repeated unclosed tags stay linear.
func (p *parser) findClose(name string) (int, int, bool) {
	from := p.pos
	if hit, seen := p.closes[name]; seen && from >= hit.from && (!hit.ok || from <= hit.at) {
		return hit.at, hit.end, hit.ok
	}
	hit := closeHit{from: from}
	hit.at, hit.end, hit.ok = p.scanClose(name, from)
	p.closes[name] = hit
	return hit.at, hit.end, hit.ok
}

func (p *parser) scanClose(name string, from int) (int, int, bool) {
	closing := "</" + name
	for {
		i := strings.Index(p.lower[from:], closing)
		if i < 0 {
			return 0, 0, false
		}
		at := from + i
		after := at + len(closing)
		// "</ref" must not match "</references".
		if after < len(p.src) && (isASCIILetter(p.src[after]) || p.src[after] == '-') {
			from = after
			continue
		}
		gt := strings.IndexByte(p.src[after:], '>')
		if gt < 0 {
			return 0, 0, false
		}
		return at, after + gt + 1, true
	}
}

func (p *parser) parseTemplate() (Node, bool) {
	start := p.pos
	p.pos += 2
	name := trimNodes(p.parseInline("|", "}}"))
	var params []Parameter
	for p.hasPrefix("|") {
		p.pos++
		params = append(params, p.parseParameter())
	}
	if !p.hasPrefix("}}") {
		return nil, false
	}
	p.pos += 2
	return Template{Span: Span{start, p.pos}, Name: name, Parameters: params}, true
}

func (p *parser) parseParameter() Parameter {
	start := p.pos
	first := p.parseInline("|", "}}", "=")
	if !p.hasPrefix("=") {
		return Parameter{Span: Span{start, p.pos}, Value: first}
	}
	p.pos++
	name := trimNodes(first)
	if name == nil {
		name = []Node{}
	}
	value := trimNodes(p.parseInline("|", "}}"))
	return Parameter{Span: Span{start, p.pos}, Name: name, Value: value}
}

func (p *parser) parseTemplateParameter() (Node, bool) {
	start := p.pos
	p.pos += 3
	name := trimNodes(p.parseInline("|", "}}}"))
	var def []Node
	if p.hasPrefix("|") {
		p.pos++
		def = p.parseInline("}}}")
	}
	if !p.hasPrefix("}}}") {
		return nil, false
	}
	p.pos += 3
	return TemplateParameter{Span: Span{start, p.pos}, Name: name, Default: def}, true
}

func (p *parser) parseLink() (Node, bool) {
	start := p.pos
	p.pos += 2

	i := p.pos
	for ; i < len(p.src); i++ {
		c := p.src[i]
		if c == '|' || strings.HasPrefix(p.src[i:], "]]") {
			break
		}
		if strings.IndexByte("\n[]{}<", c) >= 0 {
			return nil, false
		}
	}
	if i == len(p.src) {
		return nil, false
	}
	target := strings.TrimSpace(p.src[p.pos:i])
	if target == "" {
		return nil, false
	}
	targetSpan := Span{p.pos, i}
	p.pos = i

	if ns, ok := namespace(target); ok {
		for p.hasPrefix("|") {
			p.pos++
			p.parseInline("|", "]]", "\n")
		}
		if !p.hasPrefix("]]") {
			return nil, false
		}
		p.pos += 2
		span := Span{start, p.pos}
		if ns == "category" {
			return Category{Span: span, Target: target}, true
		}
		return Image{Span: span, Target: target}, true
	}

	var text []Node
	if p.hasPrefix("|") {
		p.pos++
		text = p.parseInline("]]", "\n")
	}
	if !p.hasPrefix("]]") {
		return nil, false
	}
	p.pos += 2
	if len(trimNodes(append([]Node(nil), text...))) == 0 {
		text = []Node{Text{Span: targetSpan, Value: strings.TrimPrefix(target, ":")}}
	}

	// Letters directly after the closing brackets extend the link text.
	trailStart := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsLetter(r) {
			break
		}
		p.pos += size
	}
	if p.pos > trailStart {
		text = appendText(text, trailStart, p.pos, p.src[trailStart:p.pos])
	}
	return Link{Span: Span{start, p.pos}, Target: target, Text: text}, true
}

// namespace reports whether a link target lives in a namespace whose links
// are not prose: files and categories.
func namespace(target string) (string, bool) {
	i := strings.IndexByte(target, ':')
	if i <= 0 {
		return "", false
	}
	switch ns := strings.ToLower(strings.TrimSpace(target[:i])); ns {
	case "file", "image", "media":
		return "file", true
	case "category":
		return ns, true
	}
	return "", false
}

func (p *parser) parseExternalLink() (Node, bool) {
	start := p.pos
	p.pos++
	nodes := p.parseInline("]", "\n")
	if !p.hasPrefix("]") {
		return nil, false
	}
	p.pos++
	return ExternalLink{Span: Span{start, p.pos}, Nodes: nodes}, true
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// asciiLower lower-cases ASCII letters only, so byte offsets match s.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
