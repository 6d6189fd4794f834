package article

import (
	"strconv"
	"strings"

	"github.com/dgallion1/wikiguess/internal/wikitext"
)

// ResolveInline flattens inline markup to plain text. Link targets, and any
// construct it does not understand, contribute nothing.
func ResolveInline(nodes []wikitext.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case wikitext.CharacterEntity:
			sb.WriteRune(n.Character)
		case wikitext.Link:
			sb.WriteString(ResolveInline(n.Text))
		case wikitext.Template:
			sb.WriteString(ResolveTemplate(n))
		case wikitext.Text:
			sb.WriteString(n.Value)
		}
	}
	return sb.String()
}

// ResolveTemplate renders a template invocation. Only a fixed catalog of
// templates, matched by case-insensitive name, produces prose; anything
// else renders as nothing.
func ResolveTemplate(t wikitext.Template) string {
	ps := params(t.Parameters)
	switch name := strings.ToLower(strings.TrimSpace(ResolveInline(t.Name))); name {
	case "lang":
		return renderLang(ps)
	case "abbr":
		return renderAbbr(ps)
	case "blockquote":
		return renderBlockquote(ps)
	case "cite encyclopedia":
		return ps.value("encyclopedia")
	case "cite book", "cite journal", "cite web", "cite news", "cite report", "cite periodical":
		return ps.value("title")
	case "cvt", "convert":
		return renderConvert(ps)
	case "endash":
		return "–"
	default:
		return ""
	}
}

// params gives lookup over template parameters. Values that resolve to
// blank text count as absent.
type params []wikitext.Parameter

// positional returns the i-th (zero-based) unnamed parameter. A parameter
// explicitly named "i+1" is used when there is no unnamed one.
func (ps params) positional(i int) (string, bool) {
	n := 0
	for _, p := range ps {
		if p.Name != nil {
			continue
		}
		if n == i {
			return present(ResolveInline(p.Value))
		}
		n++
	}
	return ps.named(strconv.Itoa(i + 1))
}

// named returns the first parameter whose resolved name equals name.
func (ps params) named(name string) (string, bool) {
	for _, p := range ps {
		if p.Name == nil {
			continue
		}
		if ResolveInline(p.Name) == name {
			return present(ResolveInline(p.Value))
		}
	}
	return "", false
}

func present(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// value returns the named parameter, or "" when absent.
func (ps params) value(name string) string {
	v, _ := ps.named(name)
	return v
}

// {{lang|code|text}}
func renderLang(ps params) string {
	text, _ := ps.positional(1)
	return text
}

// {{abbr|short|long}}
func renderAbbr(ps params) string {
	short, hasShort := ps.positional(0)
	long, hasLong := ps.positional(1)
	switch {
	case hasShort && hasLong:
		return long + " (" + short + ")"
	case hasLong:
		return long
	case hasShort:
		return short
	}
	return ""
}

// {{blockquote|text|source}}
func renderBlockquote(ps params) string {
	quote, ok := ps.positional(0)
	if !ok {
		return ""
	}
	out := "“" + quote + "”"
	if source, ok := ps.positional(1); ok {
		out += " – " + source
	}
	return out
}

// {{convert|number|unit|...}}
func renderConvert(ps params) string {
	number, hasNumber := ps.positional(0)
	unit, hasUnit := ps.positional(1)
	switch {
	case hasNumber && hasUnit:
		return number + " " + unit
	case hasNumber:
		return number
	case hasUnit:
		return "??? " + unit
	}
	return ""
}
