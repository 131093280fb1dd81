// Package calc implements the scientific expression evaluator behind the
// calculator tool. Expressions are tokenized and parsed with a small
// recursive-descent grammar over a fixed function/constant table. There is
// no name resolution beyond that table and no statement support.
//
// Failures never escape as errors: every failure mode is encoded into the
// returned string as "Calculation error: <cause>", which is the contract the
// orchestrator and the tool layer rely on.
package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Evaluate evaluates an arithmetic expression and returns the stringified
// numeric result, or a "Calculation error: <cause>" string on any failure.
//
// Supported: + - * / ** % ^, parentheses, ² and ³ as postfix powers, the
// constants pi and e, and the functions sqrt, sin, cos, tan, log (base 10),
// ln, exp, abs, round, min, max, sum, pow.
func Evaluate(expression string) string {
	n, err := evaluate(expression)
	if err != nil {
		return "Calculation error: " + err.Error()
	}
	return n.format()
}

func evaluate(expression string) (number, error) {
	toks, err := lex(expression)
	if err != nil {
		return number{}, err
	}
	if len(toks) == 0 {
		return number{}, fmt.Errorf("empty expression")
	}

	p := &parser{toks: toks}
	n, err := p.parseExpr()
	if err != nil {
		return number{}, err
	}
	if p.pos != len(p.toks) {
		return number{}, fmt.Errorf("unexpected %q", p.toks[p.pos].text)
	}
	return n, nil
}

// ─── numbers ─────────────────────────────────────────────────────────────────

// number keeps integer and float arithmetic apart so that "2 + 2" prints as
// "4" while "sqrt(16)" prints as "4.0".
type number struct {
	i       int64
	f       float64
	isFloat bool
}

func intNum(i int64) number     { return number{i: i} }
func floatNum(f float64) number { return number{f: f, isFloat: true} }

func (n number) float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n number) format() string {
	if !n.isFloat {
		return strconv.FormatInt(n.i, 10)
	}
	if n.f == math.Trunc(n.f) && math.Abs(n.f) < 1e16 {
		return strconv.FormatFloat(n.f, 'f', 1, 64)
	}
	return strconv.FormatFloat(n.f, 'g', -1, 64)
}

// ─── lexer ───────────────────────────────────────────────────────────────────

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	num  number
}

// Constants resolve to numbers; Functions lists the callable names.
// An alphabetic run outside both tables is an evaluation error, never a
// substring to rewrite.
var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Functions is the fixed allow-list of callable names, exported so the
// intent router can share the same arithmetic vocabulary.
var Functions = []string{
	"sqrt", "sin", "cos", "tan", "log", "ln", "exp",
	"abs", "round", "min", "max", "sum", "pow",
}

// Constants lists the named constants, same purpose as Functions.
var Constants = []string{"pi", "e"}

func isFunction(name string) bool {
	for _, f := range Functions {
		if f == name {
			return true
		}
	}
	return false
}

func lex(input string) ([]token, error) {
	var toks []token
	runes := []rune(input)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			n, err := parseNumber(text)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: n})
		case unicode.IsLetter(r):
			start := i
			for i < len(runes) && unicode.IsLetter(runes[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: strings.ToLower(string(runes[start:i]))})
		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "**"})
			i += 2
		case strings.ContainsRune("+-*/%^(),²³", r):
			toks = append(toks, token{kind: tokOp, text: string(r)})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q", string(r))
		}
	}
	return toks, nil
}

func parseNumber(text string) (number, error) {
	if !strings.Contains(text, ".") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return intNum(i), nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return number{}, fmt.Errorf("invalid number %q", text)
	}
	return floatNum(f), nil
}

// ─── parser ──────────────────────────────────────────────────────────────────

// Grammar:
//
//	expr    := term (('+'|'-') term)*
//	term    := factor (('*'|'/'|'%') factor)*
//	factor  := ('+'|'-') factor | power
//	power   := postfix (('**'|'^') factor)?
//	postfix := primary ('²'|'³')*
//	primary := NUMBER | IDENT | IDENT '(' expr (',' expr)* ')' | '(' expr ')'
type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) acceptOp(ops ...string) (string, bool) {
	t, ok := p.peek()
	if !ok || t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) parseExpr() (number, error) {
	left, err := p.parseTerm()
	if err != nil {
		return number{}, err
	}
	for {
		op, ok := p.acceptOp("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseTerm()
		if err != nil {
			return number{}, err
		}
		left = addSub(left, right, op)
	}
}

func (p *parser) parseTerm() (number, error) {
	left, err := p.parseFactor()
	if err != nil {
		return number{}, err
	}
	for {
		op, ok := p.acceptOp("*", "/", "%")
		if !ok {
			return left, nil
		}
		right, err := p.parseFactor()
		if err != nil {
			return number{}, err
		}
		left, err = mulDivMod(left, right, op)
		if err != nil {
			return number{}, err
		}
	}
}

func (p *parser) parseFactor() (number, error) {
	if op, ok := p.acceptOp("+", "-"); ok {
		n, err := p.parseFactor()
		if err != nil {
			return number{}, err
		}
		if op == "-" {
			return negate(n), nil
		}
		return n, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (number, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return number{}, err
	}
	if _, ok := p.acceptOp("**", "^"); ok {
		// exponent parsed as factor: right-associative, binds unary minus.
		exp, err := p.parseFactor()
		if err != nil {
			return number{}, err
		}
		return power(base, exp)
	}
	return base, nil
}

func (p *parser) parsePostfix() (number, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return number{}, err
	}
	for {
		op, ok := p.acceptOp("²", "³")
		if !ok {
			return n, nil
		}
		exp := intNum(2)
		if op == "³" {
			exp = intNum(3)
		}
		n, err = power(n, exp)
		if err != nil {
			return number{}, err
		}
	}
}

func (p *parser) parsePrimary() (number, error) {
	t, ok := p.peek()
	if !ok {
		return number{}, fmt.Errorf("unexpected end of expression")
	}

	switch {
	case t.kind == tokNumber:
		p.pos++
		return t.num, nil
	case t.kind == tokIdent:
		p.pos++
		return p.parseNameOrCall(t.text)
	case t.kind == tokOp && t.text == "(":
		p.pos++
		n, err := p.parseExpr()
		if err != nil {
			return number{}, err
		}
		if _, ok := p.acceptOp(")"); !ok {
			return number{}, fmt.Errorf("missing closing parenthesis")
		}
		return n, nil
	default:
		return number{}, fmt.Errorf("unexpected %q", t.text)
	}
}

func (p *parser) parseNameOrCall(name string) (number, error) {
	if _, ok := p.acceptOp("("); ok {
		if !isFunction(name) {
			return number{}, fmt.Errorf("name %q is not defined", name)
		}
		args, err := p.parseArgs()
		if err != nil {
			return number{}, err
		}
		return applyFunction(name, args)
	}
	if c, ok := constants[name]; ok {
		return floatNum(c), nil
	}
	if isFunction(name) {
		return number{}, fmt.Errorf("function %q requires arguments", name)
	}
	return number{}, fmt.Errorf("name %q is not defined", name)
}

func (p *parser) parseArgs() ([]number, error) {
	if _, ok := p.acceptOp(")"); ok {
		return nil, nil
	}

	var args []number
	for {
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, n)
		if _, ok := p.acceptOp(","); ok {
			continue
		}
		if _, ok := p.acceptOp(")"); ok {
			return args, nil
		}
		return nil, fmt.Errorf("missing closing parenthesis")
	}
}

// ─── arithmetic ──────────────────────────────────────────────────────────────

func negate(n number) number {
	if n.isFloat {
		return floatNum(-n.f)
	}
	return intNum(-n.i)
}

func addSub(a, b number, op string) number {
	if !a.isFloat && !b.isFloat {
		if op == "+" {
			if sum := a.i + b.i; (sum > a.i) == (b.i > 0) || b.i == 0 {
				return intNum(sum)
			}
		} else {
			if diff := a.i - b.i; (diff < a.i) == (b.i > 0) || b.i == 0 {
				return intNum(diff)
			}
		}
		// int64 overflow: fall through to the float path.
	}
	if op == "+" {
		return floatNum(a.float() + b.float())
	}
	return floatNum(a.float() - b.float())
}

// mulInt multiplies two int64 values, reporting whether the result fits.
func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/a != b || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return r, true
}

func mulDivMod(a, b number, op string) (number, error) {
	switch op {
	case "*":
		if !a.isFloat && !b.isFloat {
			if r, ok := mulInt(a.i, b.i); ok {
				return intNum(r), nil
			}
			// int64 overflow: promote to float.
		}
		return floatNum(a.float() * b.float()), nil
	case "/":
		// true division: always a float, like the expression language this
		// evaluator mirrors.
		if b.float() == 0 {
			return number{}, fmt.Errorf("division by zero")
		}
		return floatNum(a.float() / b.float()), nil
	default: // %
		if b.float() == 0 {
			return number{}, fmt.Errorf("modulo by zero")
		}
		if !a.isFloat && !b.isFloat {
			m := a.i % b.i
			if m != 0 && (m < 0) != (b.i < 0) {
				m += b.i
			}
			return intNum(m), nil
		}
		m := math.Mod(a.float(), b.float())
		if m != 0 && (m < 0) != (b.float() < 0) {
			m += b.float()
		}
		return floatNum(m), nil
	}
}

func power(base, exp number) (number, error) {
	if !base.isFloat && !exp.isFloat {
		if exp.i >= 0 {
			if r, ok := intPow(base.i, exp.i); ok {
				return intNum(r), nil
			}
			// int64 overflow: promote to float.
		} else if base.i == 0 {
			return number{}, fmt.Errorf("zero cannot be raised to a negative power")
		}
	}
	if base.float() == 0 && exp.float() < 0 {
		return number{}, fmt.Errorf("zero cannot be raised to a negative power")
	}
	r := math.Pow(base.float(), exp.float())
	if math.IsNaN(r) {
		return number{}, fmt.Errorf("math domain error")
	}
	return floatNum(r), nil
}

// intPow raises base to a non-negative exponent, reporting whether every
// intermediate product fit in int64.
func intPow(base, exp int64) (int64, bool) {
	result := int64(1)
	for ; exp > 0; exp-- {
		var ok bool
		if result, ok = mulInt(result, base); !ok {
			return 0, false
		}
	}
	return result, true
}

// ─── function table ──────────────────────────────────────────────────────────

func applyFunction(name string, args []number) (number, error) {
	switch name {
	case "sqrt", "sin", "cos", "tan", "log", "ln", "exp":
		if len(args) != 1 {
			return number{}, fmt.Errorf("%s expects exactly 1 argument", name)
		}
		return applyUnaryFloat(name, args[0])
	case "abs":
		if len(args) != 1 {
			return number{}, fmt.Errorf("abs expects exactly 1 argument")
		}
		if args[0].isFloat {
			return floatNum(math.Abs(args[0].f)), nil
		}
		if args[0].i < 0 {
			return intNum(-args[0].i), nil
		}
		return args[0], nil
	case "round":
		if len(args) != 1 {
			return number{}, fmt.Errorf("round expects exactly 1 argument")
		}
		// banker's rounding, and the result is always integral.
		return intNum(int64(math.RoundToEven(args[0].float()))), nil
	case "min", "max", "sum":
		if len(args) == 0 {
			return number{}, fmt.Errorf("%s expects at least 1 argument", name)
		}
		return applyAggregate(name, args), nil
	case "pow":
		if len(args) != 2 {
			return number{}, fmt.Errorf("pow expects exactly 2 arguments")
		}
		return power(args[0], args[1])
	default:
		return number{}, fmt.Errorf("name %q is not defined", name)
	}
}

func applyUnaryFloat(name string, arg number) (number, error) {
	x := arg.float()
	switch name {
	case "sqrt":
		if x < 0 {
			return number{}, fmt.Errorf("math domain error")
		}
		return floatNum(math.Sqrt(x)), nil
	case "sin":
		return floatNum(math.Sin(x)), nil
	case "cos":
		return floatNum(math.Cos(x)), nil
	case "tan":
		return floatNum(math.Tan(x)), nil
	case "log":
		if x <= 0 {
			return number{}, fmt.Errorf("math domain error")
		}
		return floatNum(math.Log10(x)), nil
	case "ln":
		if x <= 0 {
			return number{}, fmt.Errorf("math domain error")
		}
		return floatNum(math.Log(x)), nil
	default: // exp
		return floatNum(math.Exp(x)), nil
	}
}

func applyAggregate(name string, args []number) number {
	allInt := true
	for _, a := range args {
		if a.isFloat {
			allInt = false
			break
		}
	}

	switch name {
	case "sum":
		if allInt {
			s := intNum(0)
			for _, a := range args {
				s = addSub(s, a, "+")
			}
			return s
		}
		var s float64
		for _, a := range args {
			s += a.float()
		}
		return floatNum(s)
	case "min":
		best := args[0]
		for _, a := range args[1:] {
			if a.float() < best.float() {
				best = a
			}
		}
		return best
	default: // max
		best := args[0]
		for _, a := range args[1:] {
			if a.float() > best.float() {
				best = a
			}
		}
		return best
	}
}
