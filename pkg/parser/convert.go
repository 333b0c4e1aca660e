package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/hoh/nix-manipulator/pkg/syntax"
)

// converter turns a concrete syntax tree over source bytes into the typed
// document model. All trivia attachment happens here; the model's rebuild
// code only emits what was attached.
type converter struct {
	src []byte
}

// text returns the exact source slice of a node as an owned string.
func (c *converter) text(n sitter.Node) string {
	return string(c.src[n.StartByte():n.EndByte()])
}

// children collects all children of a node, anonymous tokens included.
func (c *converter) children(n sitter.Node) []sitter.Node {
	count := n.ChildCount()
	out := make([]sitter.Node, 0, count)

	for i := uint32(0); i < count; i++ {
		out = append(out, n.Child(i))
	}

	return out
}

// sourceFile converts the root node. Comments above the expression attach
// to its Before and comments below it to its After; the whitespace after the
// last token becomes the file's Trailing.
func (c *converter) sourceFile(root sitter.Node) (*syntax.SourceFile, error) {
	children := c.children(root)

	var (
		expr     syntax.Expr
		before   []syntax.Trivia
		trailing []syntax.Trivia
		prev     *sitter.Node
	)

	if len(children) > 0 {
		c.appendGapTrivia(&before, root.StartByte(), children[0].StartByte())
	}

	for i := range children {
		child := children[i]

		if child.Type() == "comment" {
			if prev != nil && expr != nil && child.StartPoint().Row == prev.EndPoint().Row {
				item := c.comment(child)
				item.Inline = true

				syntax.AppendAfter(expr, item)
			} else {
				if prev != nil {
					c.appendGapTrivia(&before, prev.EndByte(), child.StartByte())
				}

				before = append(before, c.comment(child))
			}

			prev = &children[i]

			continue
		}

		if prev != nil {
			c.appendGapTrivia(&before, prev.EndByte(), child.StartByte())
		}

		converted, err := c.convert(child)
		if err != nil {
			return nil, err
		}

		if len(before) > 0 {
			syntax.PrependBefore(converted, before...)

			before = nil
		}

		if expr != nil {
			return nil, fmt.Errorf("%w: more than one top-level expression", ErrParse)
		}

		expr = converted
		prev = &children[i]
	}

	if len(before) > 0 {
		if expr != nil {
			syntax.AppendAfter(expr, before...)
		} else {
			trailing = before
		}
	}

	if len(children) > 0 {
		c.appendGapTrivia(&trailing, children[len(children)-1].EndByte(), root.EndByte())
	}

	return &syntax.SourceFile{Expr: expr, Trailing: trailing}, nil
}

// convert dispatches on the concrete node type.
func (c *converter) convert(n sitter.Node) (syntax.Expr, error) {
	switch n.Type() {
	case "attrset_expression", "rec_attrset_expression":
		return c.attrSet(n)
	case "let_expression":
		return c.letExpr(n)
	case "list_expression":
		return c.list(n)
	case "string_expression":
		return c.stringExpr(n), nil
	case "indented_string_expression":
		return &syntax.IndentedString{Raw: c.text(n)}, nil
	case "integer_expression":
		return c.integer(n), nil
	case "float_expression":
		return c.float(n), nil
	case "variable_expression", "identifier":
		return c.variable(n), nil
	case "path_expression", "hpath_expression", "spath_expression":
		return &syntax.Path{Raw: c.text(n)}, nil
	case "parenthesized_expression":
		return c.paren(n)
	case "unary_expression":
		return c.unary(n)
	case "binary_expression":
		return c.binary(n)
	case "select_expression":
		return c.selectExpr(n)
	case "has_attr_expression":
		return c.hasAttr(n)
	case "if_expression":
		return c.ifExpr(n)
	case "with_expression":
		return c.withExpr(n)
	case "assert_expression":
		return c.assertExpr(n)
	case "function_expression":
		return c.function(n)
	case "apply_expression":
		return c.apply(n)
	case "inherit", "inherit_from":
		return c.inherit(n)
	default:
		return nil, fmt.Errorf("%w: unsupported node type %q", ErrParse, n.Type())
	}
}

func (c *converter) stringExpr(n sitter.Node) *syntax.Primitive {
	text := c.text(n)

	inner := strings.TrimSuffix(strings.TrimPrefix(text, `"`), `"`)

	return &syntax.Primitive{Value: inner, RawString: true}
}

func (c *converter) integer(n sitter.Node) *syntax.Primitive {
	raw := c.text(n)
	value, _ := strconv.ParseInt(raw, 10, 64)

	return &syntax.Primitive{Value: value, Raw: raw}
}

func (c *converter) float(n sitter.Node) *syntax.Primitive {
	raw := c.text(n)
	value, _ := strconv.ParseFloat(raw, 64)

	return &syntax.Primitive{Value: value, Raw: raw}
}

func (c *converter) variable(n sitter.Node) syntax.Expr {
	switch text := c.text(n); text {
	case "true":
		return syntax.NewBool(true)
	case "false":
		return syntax.NewBool(false)
	case "null":
		return syntax.NewNull()
	default:
		return syntax.NewIdentifier(text)
	}
}

// seqItemParser converts one content node of a delimited sequence.
type seqItemParser func(n sitter.Node) (syntax.Expr, error)

// delimited walks the content of a bracketed container, classifying gaps
// into blank-line and line-break markers, attaching comments inline or as
// leading trivia of the following item, and handing leftover trivia to the
// last item or the container itself. Attribute sets, lists, and let binding
// sets share it; the source file, bindings, and formals walk their own
// children.
func (c *converter) delimited(content []sitter.Node, open, closing *sitter.Node, parse seqItemParser) ([]syntax.Expr, []syntax.Trivia, error) {
	var (
		items  []syntax.Expr
		before []syntax.Trivia
		inner  []syntax.Trivia
		prev   *sitter.Node
	)

	if open != nil && closing != nil && len(content) == 0 {
		if hasBlankLine(c.gapText(open.EndByte(), closing.StartByte())) {
			inner = append(inner, syntax.BlankLine())
		}

		return nil, inner, nil
	}

	if open != nil && len(content) > 0 {
		if hasBlankLine(c.gapText(open.EndByte(), content[0].StartByte())) {
			before = append(before, syntax.BlankLine())
		}
	}

	for i := range content {
		child := content[i]

		if child.Type() == "comment" {
			if prev != nil && prev.Type() != "comment" && len(items) > 0 &&
				child.StartPoint().Row == prev.EndPoint().Row {
				item := c.comment(child)
				item.Inline = true

				syntax.AppendAfter(items[len(items)-1], item)
			} else {
				if prev != nil {
					c.appendGapTrivia(&before, prev.EndByte(), child.StartByte())
				}

				before = append(before, c.comment(child))
			}

			prev = &content[i]

			continue
		}

		if prev != nil {
			c.appendGapTrivia(&before, prev.EndByte(), child.StartByte())
		}

		item, err := parse(child)
		if err != nil {
			return nil, nil, err
		}

		if len(before) > 0 {
			syntax.PrependBefore(item, before...)

			before = nil
		}

		items = append(items, item)
		prev = &content[i]
	}

	if len(before) > 0 {
		if len(items) > 0 {
			syntax.AppendAfter(items[len(items)-1], before...)
		} else {
			inner = before
		}
	}

	if closing != nil && len(content) > 0 {
		if hasBlankLine(c.gapText(content[len(content)-1].EndByte(), closing.StartByte())) {
			if len(items) > 0 {
				syntax.AppendAfter(items[len(items)-1], syntax.BlankLine())
			} else {
				inner = append(inner, syntax.BlankLine())
			}
		}
	}

	return items, inner, nil
}

// bindingItem parses binding-set members: bindings and inherits.
func (c *converter) bindingItem(n sitter.Node) (syntax.Expr, error) {
	switch n.Type() {
	case "binding":
		return c.binding(n)
	case "inherit", "inherit_from":
		return c.inherit(n)
	default:
		return nil, fmt.Errorf("%w: unsupported binding member %q", ErrParse, n.Type())
	}
}

func (c *converter) attrSet(n sitter.Node) (syntax.Expr, error) {
	children := c.children(n)

	layout := syntax.LayoutInline
	if hasNewline(c.text(n)) {
		layout = syntax.LayoutMultiline
	}

	var (
		content      []sitter.Node
		open, braces *sitter.Node
	)

	for i := range children {
		child := children[i]

		switch child.Type() {
		case "{":
			open = &children[i]
		case "}":
			braces = &children[i]
		case "rec":
		case "binding_set":
			content = append(content, c.children(child)...)
		default:
			content = append(content, child)
		}
	}

	items, inner, err := c.delimited(content, open, braces, c.bindingItem)
	if err != nil {
		return nil, err
	}

	return &syntax.AttrSet{
		Values:      items,
		Recursive:   n.Type() == "rec_attrset_expression",
		Layout:      layout,
		InnerTrivia: inner,
	}, nil
}

func (c *converter) list(n sitter.Node) (syntax.Expr, error) {
	children := c.children(n)

	layout := syntax.LayoutInline
	if hasNewline(c.text(n)) {
		layout = syntax.LayoutMultiline
	}

	var (
		content       []sitter.Node
		open, closing *sitter.Node
	)

	for i := range children {
		switch children[i].Type() {
		case "[":
			open = &children[i]
		case "]":
			closing = &children[i]
		default:
			content = append(content, children[i])
		}
	}

	items, inner, err := c.delimited(content, open, closing, c.convert)
	if err != nil {
		return nil, err
	}

	return &syntax.List{Elements: items, Layout: layout, InnerTrivia: inner}, nil
}

func (c *converter) binding(n sitter.Node) (syntax.Expr, error) {
	children := c.children(n)

	var (
		name        string
		value       syntax.Expr
		valueNode   *sitter.Node
		equalsNode  *sitter.Node
		beforeValue []syntax.Trivia
		prev        *sitter.Node
	)

	for i := range children {
		child := children[i]

		switch child.Type() {
		case "=":
			equalsNode = &children[i]
			prev = &children[i]
		case ";":
			prev = &children[i]
		case "attrpath":
			name = c.text(child)

			if hasNewline(name) {
				// RFC-0166 has no stable layout for comments between attrpath
				// segments; the path is normalized onto one line and inner
				// comments are dropped.
				slog.Warn("normalizing multi-line attrpath", "attrpath", name)

				var joined strings.Builder
				for _, part := range c.nonComment(child) {
					joined.WriteString(c.text(part))
				}

				name = joined.String()
			}

			prev = &children[i]
		case "comment":
			item := c.comment(child)

			if value != nil && valueNode != nil && child.StartPoint().Row == valueNode.EndPoint().Row {
				item.Inline = true

				syntax.AppendAfter(value, item)
			} else {
				if prev != nil {
					c.appendGapTrivia(&beforeValue, prev.EndByte(), child.StartByte())
				}

				beforeValue = append(beforeValue, item)
			}

			prev = &children[i]
		default:
			if prev != nil {
				c.appendGapTrivia(&beforeValue, prev.EndByte(), child.StartByte())
			}

			converted, err := c.convert(child)
			if err != nil {
				return nil, err
			}

			value = converted
			valueNode = &children[i]

			if len(beforeValue) > 0 {
				syntax.PrependBefore(value, beforeValue...)

				beforeValue = nil
			}
		}
	}

	if name == "" || value == nil {
		return nil, fmt.Errorf("%w: incomplete binding", ErrParse)
	}

	if len(beforeValue) > 0 {
		syntax.AppendAfter(value, beforeValue...)
	}

	onNewline := equalsNode != nil && valueNode != nil &&
		hasNewline(c.gapText(equalsNode.EndByte(), valueNode.StartByte()))

	segments, err := syntax.SplitAttrPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if len(segments) > 1 {
		chain := syntax.NewAttrpathBinding(segments, value)

		c.setChainLeafLayout(chain, onNewline)

		return chain, nil
	}

	return &syntax.Binding{Name: name, Value: value, ValueOnNewline: onNewline}, nil
}

// setChainLeafLayout pushes the `=`-gap layout down to the chain's leaf,
// which is the binding that actually renders the value.
func (c *converter) setChainLeafLayout(root *syntax.Binding, onNewline bool) {
	current := root

	for {
		set, ok := current.Value.(*syntax.AttrSet)
		if !ok || len(set.Values) != 1 {
			current.ValueOnNewline = onNewline

			return
		}

		child, ok := set.Values[0].(*syntax.Binding)
		if !ok {
			current.ValueOnNewline = onNewline

			return
		}

		current = child
	}
}

func (c *converter) inherit(n sitter.Node) (syntax.Expr, error) {
	item := &syntax.Inherit{}

	for _, child := range c.children(n) {
		switch child.Type() {
		case "inherit", "(", ")", ";", "comment":
		case "inherited_attrs", "attrs_inherited", "attrs_inherited_from":
			for _, grand := range c.children(child) {
				switch grand.Type() {
				case ",", "comment":
				default:
					item.Names = append(item.Names, syntax.NewIdentifier(c.text(grand)))
				}
			}
		default:
			expr, err := c.convert(child)
			if err != nil {
				return nil, err
			}

			// The rebuilder adds the parentheses around the source itself.
			if paren, ok := expr.(*syntax.Paren); ok {
				expr = paren.Inner
			}

			item.From = expr
		}
	}

	return item, nil
}

func (c *converter) letExpr(n sitter.Node) (syntax.Expr, error) {
	children := c.children(n)

	var (
		bindings []syntax.Expr
		body     syntax.Expr
		inIndex  = -1
	)

	for i := range children {
		child := children[i]

		switch child.Type() {
		case "let", "comment":
		case "binding_set":
			items, _, err := c.delimited(c.children(child), nil, nil, c.bindingItem)
			if err != nil {
				return nil, err
			}

			bindings = items
		case "in":
			inIndex = i
		default:
			if inIndex < 0 {
				continue
			}

			converted, err := c.convert(child)
			if err != nil {
				return nil, err
			}

			body = converted
		}
	}

	if body == nil {
		return nil, fmt.Errorf("%w: let expression without body", ErrParse)
	}

	multiline := hasNewline(c.text(n))

	if set, ok := body.(*syntax.AttrSet); ok {
		layer := &syntax.ScopeLayer{Bindings: bindings, Multiline: multiline}
		set.ScopeStack = append([]*syntax.ScopeLayer{layer}, set.ScopeStack...)

		return set, nil
	}

	return &syntax.Let{Bindings: bindings, Body: body, Multiline: multiline}, nil
}

func (c *converter) paren(n sitter.Node) (syntax.Expr, error) {
	for _, child := range c.children(n) {
		switch child.Type() {
		case "(", ")", "comment":
		default:
			inner, err := c.convert(child)
			if err != nil {
				return nil, err
			}

			return &syntax.Paren{Inner: inner}, nil
		}
	}

	return nil, fmt.Errorf("%w: empty parenthesized expression", ErrParse)
}

func (c *converter) unary(n sitter.Node) (syntax.Expr, error) {
	nodes := c.nonComment(n)
	if len(nodes) < 2 {
		return nil, fmt.Errorf("%w: incomplete unary expression", ErrParse)
	}

	operand, err := c.convert(nodes[1])
	if err != nil {
		return nil, err
	}

	return &syntax.Unary{Operator: c.text(nodes[0]), Operand: operand}, nil
}

func (c *converter) binary(n sitter.Node) (syntax.Expr, error) {
	nodes := c.nonComment(n)
	if len(nodes) < 3 {
		return nil, fmt.Errorf("%w: incomplete binary expression", ErrParse)
	}

	left, err := c.convert(nodes[0])
	if err != nil {
		return nil, err
	}

	right, err := c.convert(nodes[2])
	if err != nil {
		return nil, err
	}

	return &syntax.Binary{Left: left, Operator: c.text(nodes[1]), Right: right}, nil
}

func (c *converter) selectExpr(n sitter.Node) (syntax.Expr, error) {
	nodes := c.nonComment(n)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: empty select expression", ErrParse)
	}

	expr, err := c.convert(nodes[0])
	if err != nil {
		return nil, err
	}

	sel := &syntax.Select{Expression: expr}

	for i := 1; i < len(nodes); i++ {
		switch nodes[i].Type() {
		case ".":
		case "attrpath":
			sel.Attribute = c.text(nodes[i])
		case "or":
			if i+1 < len(nodes) {
				dflt, err := c.convert(nodes[i+1])
				if err != nil {
					return nil, err
				}

				sel.Default = dflt
				i++
			}
		}
	}

	return sel, nil
}

func (c *converter) hasAttr(n sitter.Node) (syntax.Expr, error) {
	nodes := c.nonComment(n)
	if len(nodes) < 3 {
		return nil, fmt.Errorf("%w: incomplete has-attr expression", ErrParse)
	}

	expr, err := c.convert(nodes[0])
	if err != nil {
		return nil, err
	}

	return &syntax.HasAttr{Expression: expr, Attribute: c.text(nodes[2])}, nil
}

func (c *converter) ifExpr(n sitter.Node) (syntax.Expr, error) {
	nodes := c.nonComment(n)

	out := &syntax.If{Multiline: hasNewline(c.text(n))}

	for i := 0; i < len(nodes)-1; i++ {
		switch nodes[i].Type() {
		case "if":
			cond, err := c.convert(nodes[i+1])
			if err != nil {
				return nil, err
			}

			out.Condition = cond
		case "then":
			cons, err := c.convert(nodes[i+1])
			if err != nil {
				return nil, err
			}

			out.Consequence = cons
		case "else":
			alt, err := c.convert(nodes[i+1])
			if err != nil {
				return nil, err
			}

			out.Alternative = alt
		}
	}

	if out.Condition == nil || out.Consequence == nil || out.Alternative == nil {
		return nil, fmt.Errorf("%w: incomplete if expression", ErrParse)
	}

	return out, nil
}

func (c *converter) withExpr(n sitter.Node) (syntax.Expr, error) {
	env, body, onNewline, err := c.keywordBody(n, "with")
	if err != nil {
		return nil, err
	}

	return &syntax.With{Environment: env, Body: body, BodyOnNewline: onNewline}, nil
}

func (c *converter) assertExpr(n sitter.Node) (syntax.Expr, error) {
	cond, body, onNewline, err := c.keywordBody(n, "assert")
	if err != nil {
		return nil, err
	}

	return &syntax.Assert{Condition: cond, Body: body, BodyOnNewline: onNewline}, nil
}

// keywordBody parses `keyword head; body` shapes shared by with and assert.
func (c *converter) keywordBody(n sitter.Node, keyword string) (head, body syntax.Expr, onNewline bool, err error) {
	nodes := c.nonComment(n)

	var semi *sitter.Node

	for i := range nodes {
		switch nodes[i].Type() {
		case keyword:
		case ";":
			semi = &nodes[i]
		default:
			converted, cerr := c.convert(nodes[i])
			if cerr != nil {
				return nil, nil, false, cerr
			}

			if head == nil {
				head = converted

				continue
			}

			body = converted

			if semi != nil {
				onNewline = hasNewline(c.gapText(semi.EndByte(), nodes[i].StartByte()))
			}
		}
	}

	if head == nil || body == nil {
		return nil, nil, false, fmt.Errorf("%w: incomplete %s expression", ErrParse, keyword)
	}

	return head, body, onNewline, nil
}

func (c *converter) apply(n sitter.Node) (syntax.Expr, error) {
	nodes := c.nonComment(n)
	if len(nodes) < 2 {
		return nil, fmt.Errorf("%w: incomplete function call", ErrParse)
	}

	fn, err := c.convert(nodes[0])
	if err != nil {
		return nil, err
	}

	arg, err := c.convert(nodes[1])
	if err != nil {
		return nil, err
	}

	onNewline := hasNewline(c.gapText(nodes[0].EndByte(), nodes[1].StartByte()))

	return &syntax.Apply{Fn: fn, Argument: arg, ArgOnNewline: onNewline}, nil
}

func (c *converter) function(n sitter.Node) (syntax.Expr, error) {
	nodes := c.nonComment(n)

	fn := &syntax.Function{}

	var (
		identifier *syntax.Identifier
		formals    *syntax.Formals
		atSeen     bool
		idFirst    bool
		colon      *sitter.Node
	)

	for i := range nodes {
		if colon != nil {
			body, err := c.convert(nodes[i])
			if err != nil {
				return nil, err
			}

			fn.Output = body
			fn.BodyOnNewline = hasNewline(c.gapText(colon.EndByte(), nodes[i].StartByte()))

			break
		}

		switch nodes[i].Type() {
		case "identifier", "variable_expression":
			identifier = syntax.NewIdentifier(c.text(nodes[i]))
			idFirst = formals == nil
		case "@":
			atSeen = true
		case "formals":
			parsed, err := c.formals(nodes[i])
			if err != nil {
				return nil, err
			}

			formals = parsed
		case ":":
			colon = &nodes[i]
		}
	}

	if fn.Output == nil {
		return nil, fmt.Errorf("%w: function definition without body", ErrParse)
	}

	switch {
	case formals != nil && atSeen:
		formals.At = identifier
		formals.AtBeforeFormals = idFirst
		fn.Param = formals
	case formals != nil:
		fn.Param = formals
	case identifier != nil:
		fn.Param = identifier
	default:
		return nil, fmt.Errorf("%w: function definition without parameters", ErrParse)
	}

	return fn, nil
}

func (c *converter) formals(n sitter.Node) (*syntax.Formals, error) {
	out := &syntax.Formals{Multiline: hasNewline(c.text(n))}

	var (
		pending    []syntax.Trivia
		lastEndRow uint
		haveLast   bool
	)

	for _, child := range c.children(n) {
		switch child.Type() {
		case "{", "}", ",":
		case "ellipses":
			out.Ellipsis = true
		case "comment":
			item := c.comment(child)

			if haveLast && child.StartPoint().Row == lastEndRow {
				item.Inline = true

				last := out.Params[len(out.Params)-1]
				last.After = append(last.After, item)

				continue
			}

			pending = append(pending, item)
		case "formal":
			formal, err := c.formal(child)
			if err != nil {
				return nil, err
			}

			formal.Before = append(pending, formal.Before...)
			pending = nil

			out.Params = append(out.Params, formal)

			lastEndRow = child.EndPoint().Row
			haveLast = true
		}
	}

	return out, nil
}

func (c *converter) formal(n sitter.Node) (*syntax.Formal, error) {
	formal := &syntax.Formal{}

	var question bool

	for _, child := range c.children(n) {
		switch child.Type() {
		case "identifier", "variable_expression":
			if formal.Name == "" {
				formal.Name = c.text(child)
			}
		case "?":
			question = true
		case "comment":
		default:
			if !question {
				continue
			}

			dflt, err := c.convert(child)
			if err != nil {
				return nil, err
			}

			formal.Default = dflt
		}
	}

	if formal.Name == "" {
		return nil, fmt.Errorf("%w: formal parameter without identifier", ErrParse)
	}

	return formal, nil
}

// nonComment returns the node's children with comments filtered out.
func (c *converter) nonComment(n sitter.Node) []sitter.Node {
	children := c.children(n)
	out := make([]sitter.Node, 0, len(children))

	for _, child := range children {
		if child.Type() != "comment" {
			out = append(out, child)
		}
	}

	return out
}
