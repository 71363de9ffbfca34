package formula

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for LaTeX translation.
var (
	ErrEmptyFormula    = errors.New("empty formula")
	ErrUnknownCommand  = errors.New("unknown LaTeX command")
	ErrUnbalanced      = errors.New("unbalanced LaTeX group")
	ErrMissingArgument = errors.New("missing LaTeX argument")
)

// ToOMML translates a LaTeX math expression into an <m:oMath> element.
func ToOMML(latex string) (string, error) {
	if strings.TrimSpace(latex) == "" {
		return "", ErrEmptyFormula
	}

	p := &parser{lex: newLexer(latex)}
	nodes, err := p.parseTop()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<m:oMath>")
	writeRow(&b, nodes)
	b.WriteString("</m:oMath>")
	return b.String(), nil
}

// Fallback renders latex as literal upright text inside <m:oMath>.
func Fallback(latex string) string {
	var b strings.Builder
	b.WriteString("<m:oMath>")
	(&textNode{text: latex, style: styleText}).write(&b)
	b.WriteString("</m:oMath>")
	return b.String()
}

type parser struct {
	lex *lexer
}

// parseTop parses the whole input. Top-level "&" and "\\" turn the formula
// into an equation array, one row per line.
func (p *parser) parseTop() ([]node, error) {
	var rows [][]node
	var current []node
	for {
		row, err := p.parseRow(stopAtSeparators)
		if err != nil {
			return nil, err
		}
		current = append(current, row...)

		t := p.lex.next()
		switch t.kind {
		case tokEOF:
			if rows == nil {
				return current, nil
			}
			if len(current) > 0 {
				rows = append(rows, current)
			}
			return []node{&eqArrNode{rows: rows}}, nil
		case tokAmp:
			// Alignment points have no OMML equivalent here.
		case tokRowSep:
			rows = append(rows, current)
			current = nil
		case tokClose:
			return nil, fmt.Errorf("%w: unexpected '}' at offset %d", ErrUnbalanced, t.start)
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrUnbalanced, t.text, t.start)
		}
	}
}

type stopFunc func(t token) bool

func stopAtSeparators(t token) bool {
	return t.kind == tokAmp || t.kind == tokRowSep || t.kind == tokClose
}

func stopAtClose(t token) bool {
	return t.kind == tokClose
}

func isRelation(t token) bool {
	switch t.kind {
	case tokChar:
		return t.text == "=" || t.text == "<" || t.text == ">"
	case tokCommand:
		_, ok := relations[t.text]
		return ok
	}
	return false
}

// parseRow parses atoms until EOF or stop reports true for the next token.
func (p *parser) parseRow(stop stopFunc) ([]node, error) {
	var row []node
	for {
		t := p.lex.peek()
		if t.kind == tokEOF || stop(t) {
			return row, nil
		}
		if t.kind == tokCommand && (t.text == "right" || t.text == "end") {
			return row, nil
		}

		n, err := p.parseScripted(stop)
		if err != nil {
			return nil, err
		}
		row = appendNode(row, n)
	}
}

// parseScripted parses one atom and any scripts attached to it. N-ary
// operators also swallow their operand up to the next relation.
func (p *parser) parseScripted(stop stopFunc) (node, error) {
	var base node
	t := p.lex.peek()
	if t.kind == tokSup || t.kind == tokSub {
		base = &groupNode{}
	} else {
		var err error
		base, err = p.parseAtom()
		if err != nil {
			return nil, err
		}
	}
	if base == nil {
		return nil, nil
	}

	sub, sup, err := p.parseScripts()
	if err != nil {
		return nil, err
	}

	switch n := base.(type) {
	case *naryNode:
		n.sub, n.sup = sub, sup
		body, err := p.parseRow(func(t token) bool { return stop(t) || isRelation(t) })
		if err != nil {
			return nil, err
		}
		n.body = body
		return n, nil
	case *funcNode:
		if n.limit && sub != nil {
			n.name = &limLowNode{base: n.name, lim: sub}
			sub = nil
		}
		if sub != nil || sup != nil {
			n.name = &scriptNode{base: []node{n.name}, sub: sub, sup: sup}
		}
		next := p.lex.peek()
		if next.kind != tokEOF && !stop(next) && !isRelation(next) &&
			!(next.kind == tokCommand && (next.text == "right" || next.text == "end")) {
			arg, err := p.parseScripted(stop)
			if err != nil {
				return nil, err
			}
			if arg != nil {
				n.arg = []node{arg}
			}
		}
		return n, nil
	}

	if sub == nil && sup == nil {
		return base, nil
	}
	return &scriptNode{base: []node{base}, sub: sub, sup: sup}, nil
}

// parseScripts reads any mix of ^, _ and primes following an atom.
func (p *parser) parseScripts() (sub, sup []node, err error) {
	for {
		t := p.lex.peek()
		switch {
		case t.kind == tokSub:
			p.lex.next()
			if sub, err = p.parseArgument(); err != nil {
				return nil, nil, err
			}
		case t.kind == tokSup:
			p.lex.next()
			arg, err := p.parseArgument()
			if err != nil {
				return nil, nil, err
			}
			sup = append(sup, arg...)
		case t.kind == tokChar && t.text == "'":
			p.lex.next()
			sup = appendNode(sup, &textNode{text: "′"})
		case t.kind == tokCommand && (t.text == "limits" || t.text == "nolimits"):
			p.lex.next()
		default:
			return sub, sup, nil
		}
	}
}

// parseArgument reads a brace group or a single atom.
func (p *parser) parseArgument() ([]node, error) {
	t := p.lex.peek()
	switch t.kind {
	case tokEOF, tokClose, tokAmp, tokRowSep, tokSup, tokSub:
		return nil, fmt.Errorf("%w: at offset %d", ErrMissingArgument, t.start)
	case tokOpen:
		p.lex.next()
		row, err := p.parseRow(stopAtClose)
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokClose); err != nil {
			return nil, err
		}
		return row, nil
	}

	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if n == nil {
		return []node{}, nil
	}
	return []node{n}, nil
}

func (p *parser) expect(kind tokenKind) error {
	t := p.lex.next()
	if t.kind != kind {
		if t.kind == tokEOF {
			return fmt.Errorf("%w: unexpected end of formula", ErrUnbalanced)
		}
		return fmt.Errorf("%w: unexpected %q at offset %d", ErrUnbalanced, t.text, t.start)
	}
	return nil
}

// parseAtom parses a single element without scripts. It may return nil for
// commands that produce no output.
func (p *parser) parseAtom() (node, error) {
	t := p.lex.next()
	switch t.kind {
	case tokOpen:
		row, err := p.parseRow(stopAtClose)
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokClose); err != nil {
			return nil, err
		}
		return &groupNode{children: row}, nil
	case tokChar:
		if r, ok := charReplacements[t.text]; ok {
			return &textNode{text: r}, nil
		}
		return &textNode{text: t.text}, nil
	case tokCommand:
		return p.parseCommand(t)
	case tokClose:
		return nil, fmt.Errorf("%w: unexpected '}' at offset %d", ErrUnbalanced, t.start)
	}
	return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrUnbalanced, t.text, t.start)
}

func (p *parser) parseCommand(t token) (node, error) {
	name := t.text

	if g, ok := greek[name]; ok {
		return &textNode{text: g}, nil
	}
	if r, ok := relations[name]; ok {
		return &textNode{text: r}, nil
	}
	if o, ok := operators[name]; ok {
		return &textNode{text: o}, nil
	}
	if s, ok := spacing[name]; ok {
		if s == "" {
			return nil, nil
		}
		return &textNode{text: s, style: styleText}, nil
	}
	if ignored[name] {
		return nil, nil
	}
	if chr, ok := naryOperators[name]; ok {
		return &naryNode{chr: chr, subSup: integrals[name]}, nil
	}
	if functions[name] {
		return &funcNode{name: &textNode{text: name, style: stylePlain}}, nil
	}
	if limitFunctions[name] {
		return &funcNode{name: &textNode{text: name, style: stylePlain}, limit: true}, nil
	}
	if chr, ok := accents[name]; ok {
		body, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		return &accNode{chr: chr, body: body}, nil
	}

	switch name {
	case "frac", "dfrac", "tfrac", "cfrac":
		num, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		den, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		return &fracNode{num: num, den: den}, nil

	case "binom", "dbinom", "tbinom":
		top, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		bottom, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		return &delimNode{open: "(", close: ")", body: []node{&fracNode{num: top, den: bottom, noBar: true}}}, nil

	case "sqrt":
		degree, ok, err := p.lex.optionalBracket()
		if err != nil {
			return nil, err
		}
		var deg []node
		if ok {
			if deg, err = parseFragment(degree); err != nil {
				return nil, err
			}
		}
		body, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		return &radNode{deg: deg, body: body}, nil

	case "overline", "underline":
		body, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		return &barNode{top: name == "overline", body: body}, nil

	case "text", "textrm", "textit", "textbf", "mbox", "textnormal":
		raw, err := p.lex.rawGroup()
		if err != nil {
			return nil, err
		}
		return &textNode{text: unescapeText(raw), style: styleText}, nil

	case "operatorname":
		raw, err := p.lex.rawGroup()
		if err != nil {
			return nil, err
		}
		return &funcNode{name: &textNode{text: strings.TrimSpace(raw), style: stylePlain}}, nil

	case "mathrm", "rm", "mathbf", "bf", "boldsymbol", "bm", "mathit", "mathbb",
		"mathcal", "mathscr", "mathfrak", "mathsf", "mathtt":
		body, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		restyle(body, fontStyles[name])
		return &groupNode{children: body}, nil

	case "left":
		return p.parseLeftRight()

	case "begin":
		return p.parseEnvironment()

	case "label", "tag":
		if _, err := p.lex.rawGroup(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return nil, fmt.Errorf("%w: \\%s", ErrUnknownCommand, name)
}

var fontStyles = map[string]runStyle{
	"mathrm": stylePlain, "rm": stylePlain,
	"mathbf": styleBold, "bf": styleBold, "boldsymbol": styleBoldItalic, "bm": styleBoldItalic,
	"mathit": styleItalic, "mathbb": styleDoubleStruck, "mathcal": styleScript,
	"mathscr": styleScript, "mathfrak": styleFraktur, "mathsf": styleSans, "mathtt": styleMono,
}

// parseLeftRight parses "\left<d> ... \right<d>".
func (p *parser) parseLeftRight() (node, error) {
	open, err := p.parseDelimiter()
	if err != nil {
		return nil, err
	}
	body, err := p.parseRow(func(t token) bool { return t.kind == tokClose || t.kind == tokAmp || t.kind == tokRowSep })
	if err != nil {
		return nil, err
	}
	t := p.lex.next()
	if t.kind != tokCommand || t.text != "right" {
		return nil, fmt.Errorf("%w: \\left without \\right", ErrUnbalanced)
	}
	closing, err := p.parseDelimiter()
	if err != nil {
		return nil, err
	}
	return &delimNode{open: open, close: closing, body: body}, nil
}

func (p *parser) parseDelimiter() (string, error) {
	t := p.lex.next()
	switch t.kind {
	case tokChar:
		if t.text == "." {
			return "", nil
		}
		return t.text, nil
	case tokCommand:
		if d, ok := delimiterCommands[t.text]; ok {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: invalid delimiter %q", ErrMissingArgument, t.text)
}

// parseEnvironment parses "\begin{env} ... \end{env}" into a matrix or an
// equation array.
func (p *parser) parseEnvironment() (node, error) {
	env, err := p.lex.rawGroup()
	if err != nil {
		return nil, err
	}
	env = strings.TrimSuffix(strings.TrimSpace(env), "*")

	fences, isMatrix := environments[env]
	if !isMatrix && !equationEnvironments[env] {
		return nil, fmt.Errorf("%w: environment %q", ErrUnknownCommand, env)
	}
	if env == "array" {
		// column spec
		if _, err := p.lex.rawGroup(); err != nil {
			return nil, err
		}
	}

	var rows [][][]node
	var cells [][]node
	for {
		cell, err := p.parseRow(stopAtSeparators)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)

		t := p.lex.next()
		switch {
		case t.kind == tokAmp:
			continue
		case t.kind == tokRowSep:
			rows = append(rows, cells)
			cells = nil
			continue
		case t.kind == tokCommand && t.text == "end":
			closing, err := p.lex.rawGroup()
			if err != nil {
				return nil, err
			}
			if strings.TrimSuffix(strings.TrimSpace(closing), "*") != env {
				return nil, fmt.Errorf("%w: \\begin{%s} closed by \\end{%s}", ErrUnbalanced, env, closing)
			}
			if !isEmptyRow(cells) {
				rows = append(rows, cells)
			}
		default:
			return nil, fmt.Errorf("%w: \\begin{%s} without \\end", ErrUnbalanced, env)
		}
		break
	}

	if isMatrix {
		m := &matrixNode{rows: rows}
		if fences[0] == "" && fences[1] == "" {
			return m, nil
		}
		return &delimNode{open: fences[0], close: fences[1], body: []node{m}}, nil
	}

	arr := &eqArrNode{}
	for _, cells := range rows {
		var line []node
		for _, c := range cells {
			line = append(line, c...)
		}
		arr.rows = append(arr.rows, line)
	}
	if env == "cases" {
		return &delimNode{open: "{", body: []node{arr}}, nil
	}
	return arr, nil
}

func isEmptyRow(cells [][]node) bool {
	for _, c := range cells {
		if len(c) > 0 {
			return false
		}
	}
	return true
}

// parseFragment parses a standalone piece of LaTeX such as a root degree.
func parseFragment(src string) ([]node, error) {
	p := &parser{lex: newLexer(src)}
	row, err := p.parseRow(stopAtClose)
	if err != nil {
		return nil, err
	}
	if t := p.lex.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q", ErrUnbalanced, t.text)
	}
	return row, nil
}

func unescapeText(s string) string {
	r := strings.NewReplacer(`\{`, "{", `\}`, "}", `\%`, "%", `\$`, "$", `\_`, "_", `\&`, "&", `\#`, "#", `\ `, " ", "~", " ")
	return r.Replace(s)
}

// restyle applies style to every text node below nodes that has no explicit style.
func restyle(nodes []node, style runStyle) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *textNode:
			if v.style == styleDefault {
				v.style = style
			}
		case *groupNode:
			restyle(v.children, style)
		case *scriptNode:
			restyle(v.base, style)
		}
	}
}
