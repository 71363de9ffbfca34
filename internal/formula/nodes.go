package formula

import (
	"encoding/xml"
	"strings"
)

type node interface {
	write(b *strings.Builder)
}

type runStyle int

const (
	styleDefault runStyle = iota // Word decides: italic letters, upright digits
	stylePlain
	styleItalic
	styleBold
	styleBoldItalic
	styleDoubleStruck
	styleScript
	styleFraktur
	styleSans
	styleMono
	styleText // normal text, spaces kept
)

var styleProps = map[runStyle]string{
	stylePlain:        `<m:sty m:val="p"/>`,
	styleItalic:       `<m:sty m:val="i"/>`,
	styleBold:         `<m:sty m:val="b"/>`,
	styleBoldItalic:   `<m:sty m:val="bi"/>`,
	styleDoubleStruck: `<m:scr m:val="double-struck"/><m:sty m:val="p"/>`,
	styleScript:       `<m:scr m:val="script"/><m:sty m:val="p"/>`,
	styleFraktur:      `<m:scr m:val="fraktur"/><m:sty m:val="p"/>`,
	styleSans:         `<m:scr m:val="sans-serif"/><m:sty m:val="p"/>`,
	styleMono:         `<m:scr m:val="monospace"/><m:sty m:val="p"/>`,
	styleText:         `<m:nor/>`,
}

const mathFont = `<w:rPr><w:rFonts w:ascii="Cambria Math" w:hAnsi="Cambria Math"/></w:rPr>`

type textNode struct {
	text  string
	style runStyle
}

func (n *textNode) write(b *strings.Builder) {
	b.WriteString("<m:r>")
	if props, ok := styleProps[n.style]; ok {
		b.WriteString("<m:rPr>")
		b.WriteString(props)
		b.WriteString("</m:rPr>")
	}
	b.WriteString(mathFont)
	b.WriteString(`<m:t xml:space="preserve">`)
	escape(b, n.text)
	b.WriteString("</m:t></m:r>")
}

type groupNode struct {
	children []node
}

func (n *groupNode) write(b *strings.Builder) { writeRow(b, n.children) }

type fracNode struct {
	num, den []node
	noBar    bool
}

func (n *fracNode) write(b *strings.Builder) {
	b.WriteString("<m:f>")
	if n.noBar {
		b.WriteString(`<m:fPr><m:type m:val="noBar"/></m:fPr>`)
	}
	wrap(b, "m:num", n.num)
	wrap(b, "m:den", n.den)
	b.WriteString("</m:f>")
}

type radNode struct {
	deg, body []node
}

func (n *radNode) write(b *strings.Builder) {
	b.WriteString("<m:rad>")
	if len(n.deg) == 0 {
		b.WriteString(`<m:radPr><m:degHide m:val="1"/></m:radPr><m:deg/>`)
	} else {
		wrap(b, "m:deg", n.deg)
	}
	wrap(b, "m:e", n.body)
	b.WriteString("</m:rad>")
}

type scriptNode struct {
	base     []node
	sub, sup []node
}

func (n *scriptNode) write(b *strings.Builder) {
	switch {
	case n.sub != nil && n.sup != nil:
		b.WriteString("<m:sSubSup>")
		wrap(b, "m:e", n.base)
		wrap(b, "m:sub", n.sub)
		wrap(b, "m:sup", n.sup)
		b.WriteString("</m:sSubSup>")
	case n.sub != nil:
		b.WriteString("<m:sSub>")
		wrap(b, "m:e", n.base)
		wrap(b, "m:sub", n.sub)
		b.WriteString("</m:sSub>")
	default:
		b.WriteString("<m:sSup>")
		wrap(b, "m:e", n.base)
		wrap(b, "m:sup", n.sup)
		b.WriteString("</m:sSup>")
	}
}

type naryNode struct {
	chr      string
	subSup   bool // limits beside the operator instead of under/over
	sub, sup []node
	body     []node
}

func (n *naryNode) write(b *strings.Builder) {
	b.WriteString("<m:nary><m:naryPr>")
	b.WriteString(`<m:chr m:val="`)
	escape(b, n.chr)
	b.WriteString(`"/>`)
	if n.subSup {
		b.WriteString(`<m:limLoc m:val="subSup"/>`)
	} else {
		b.WriteString(`<m:limLoc m:val="undOvr"/>`)
	}
	if n.sub == nil {
		b.WriteString(`<m:subHide m:val="1"/>`)
	}
	if n.sup == nil {
		b.WriteString(`<m:supHide m:val="1"/>`)
	}
	b.WriteString("</m:naryPr>")
	wrap(b, "m:sub", n.sub)
	wrap(b, "m:sup", n.sup)
	wrap(b, "m:e", n.body)
	b.WriteString("</m:nary>")
}

type funcNode struct {
	name  node
	arg   []node
	limit bool
}

func (n *funcNode) write(b *strings.Builder) {
	b.WriteString("<m:func><m:fName>")
	n.name.write(b)
	b.WriteString("</m:fName>")
	wrap(b, "m:e", n.arg)
	b.WriteString("</m:func>")
}

type limLowNode struct {
	base node
	lim  []node
}

func (n *limLowNode) write(b *strings.Builder) {
	b.WriteString("<m:limLow><m:e>")
	n.base.write(b)
	b.WriteString("</m:e>")
	wrap(b, "m:lim", n.lim)
	b.WriteString("</m:limLow>")
}

type accNode struct {
	chr  string
	body []node
}

func (n *accNode) write(b *strings.Builder) {
	b.WriteString(`<m:acc><m:accPr><m:chr m:val="`)
	escape(b, n.chr)
	b.WriteString(`"/></m:accPr>`)
	wrap(b, "m:e", n.body)
	b.WriteString("</m:acc>")
}

type barNode struct {
	top  bool
	body []node
}

func (n *barNode) write(b *strings.Builder) {
	pos := "bot"
	if n.top {
		pos = "top"
	}
	b.WriteString(`<m:bar><m:barPr><m:pos m:val="` + pos + `"/></m:barPr>`)
	wrap(b, "m:e", n.body)
	b.WriteString("</m:bar>")
}

type delimNode struct {
	open, close string
	body        []node
}

func (n *delimNode) write(b *strings.Builder) {
	b.WriteString(`<m:d><m:dPr><m:begChr m:val="`)
	escape(b, n.open)
	b.WriteString(`"/><m:endChr m:val="`)
	escape(b, n.close)
	b.WriteString(`"/></m:dPr>`)
	wrap(b, "m:e", n.body)
	b.WriteString("</m:d>")
}

type matrixNode struct {
	rows [][][]node
}

func (n *matrixNode) write(b *strings.Builder) {
	b.WriteString("<m:m>")
	for _, row := range n.rows {
		b.WriteString("<m:mr>")
		for _, cell := range row {
			wrap(b, "m:e", cell)
		}
		b.WriteString("</m:mr>")
	}
	b.WriteString("</m:m>")
}

type eqArrNode struct {
	rows [][]node
}

func (n *eqArrNode) write(b *strings.Builder) {
	b.WriteString("<m:eqArr>")
	for _, row := range n.rows {
		wrap(b, "m:e", row)
	}
	b.WriteString("</m:eqArr>")
}

// appendNode adds n to row, merging adjacent text runs of the same style.
func appendNode(row []node, n node) []node {
	if n == nil {
		return row
	}
	if t, ok := n.(*textNode); ok && len(row) > 0 {
		if prev, ok := row[len(row)-1].(*textNode); ok && prev.style == t.style {
			prev.text += t.text
			return row
		}
	}
	return append(row, n)
}

func writeRow(b *strings.Builder, nodes []node) {
	for _, n := range nodes {
		n.write(b)
	}
}

func wrap(b *strings.Builder, tag string, nodes []node) {
	b.WriteString("<" + tag + ">")
	writeRow(b, nodes)
	b.WriteString("</" + tag + ">")
}

func escape(b *strings.Builder, s string) {
	_ = xml.EscapeText(b, []byte(s))
}
