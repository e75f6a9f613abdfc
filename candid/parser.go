package candid

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/scanner"
)

// Parser turns interface-description text into a Service.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: malformed text returns an error matching ErrParse.
// - Ownership: the returned Service is caller-owned.
type Parser interface {
	ParseService(text string) (Service, error)
}

// DefaultParser is the built-in Parser. The zero value is ready to use.
type DefaultParser struct{}

// ParseService implements Parser. Text that the agent-go Candid grammar also
// accepts must yield the same type definitions and methods under both readings.
func (DefaultParser) ParseService(text string) (Service, error) {
	svc, err := ParseService(text)
	if err != nil {
		return Service{}, err
	}
	if err := crossCheck(text, svc); err != nil {
		return Service{}, err
	}
	return svc, nil
}

// funcTemplate is the synthetic service used for function-only fragments.
const funcTemplate = "service : {\n    #func#\n}"

// WrapFuncs embeds a function-only fragment such as "f : () -> ()" into a
// minimal service description. The fragment is substituted verbatim.
func WrapFuncs(fragment string) string {
	return strings.Replace(funcTemplate, "#func#", fragment, 1)
}

// ParseFuncs parses a function-only fragment as a service.
func ParseFuncs(fragment string) (Service, error) {
	return ParseService(WrapFuncs(fragment))
}

// ParseService parses a complete service description.
func ParseService(text string) (svc Service, err error) {
	tokens, err := lex(text)
	if err != nil {
		return Service{}, err
	}

	p := &parser{tokens: tokens, defs: make(map[string]Type)}
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*ParseError)
			if !ok {
				panic(r)
			}
			svc, err = Service{}, perr
		}
	}()

	return p.parseProgram(), nil
}

type parser struct {
	tokens []token
	i      int

	defs  map[string]Type
	order []string
}

func (p *parser) tok() token {
	return p.tokens[p.i]
}

func (p *parser) peek() token {
	if p.i+1 < len(p.tokens) {
		return p.tokens[p.i+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) next() token {
	t := p.tokens[p.i]
	if t.kind != scanner.EOF {
		p.i++
	}
	return t
}

func (p *parser) failAt(t token, format string, args ...any) {
	panic(&ParseError{Line: t.pos.Line, Column: t.pos.Column, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) fail(format string, args ...any) {
	p.failAt(p.tok(), format, args...)
}

func (p *parser) is(kind rune) bool {
	return p.tok().kind == kind
}

func (p *parser) isKeyword(word string) bool {
	t := p.tok()
	return t.kind == scanner.Ident && t.text == word
}

func (p *parser) accept(kind rune) bool {
	if p.is(kind) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(kind rune) token {
	if !p.is(kind) {
		p.fail("expected %s, found %s", scanner.TokenString(kind), describe(p.tok()))
	}
	return p.next()
}

func (p *parser) expectArrow() {
	p.expect('-')
	p.expect('>')
}

// name := id | text
func (p *parser) parseName() string {
	switch p.tok().kind {
	case scanner.Ident, scanner.String:
		return p.next().text
	default:
		p.fail("expected a name, found %s", describe(p.tok()))
		return ""
	}
}

// prog := (def ;)* actor?
func (p *parser) parseProgram() Service {
	for {
		switch {
		case p.isKeyword("type"):
			p.parseTypeDef()
		case p.isKeyword("import"):
			p.next()
			p.expect(scanner.String)
			p.accept(';')
		default:
			svc := p.parseActor()
			p.resolveService(&svc)
			return svc
		}
	}
}

// def := type id = datatype
func (p *parser) parseTypeDef() {
	p.next()
	nameTok := p.expect(scanner.Ident)
	if _, exists := p.defs[nameTok.text]; exists {
		p.failAt(nameTok, "duplicate type definition %q", nameTok.text)
	}
	p.expect('=')
	p.defs[nameTok.text] = p.parseDataType()
	p.order = append(p.order, nameTok.text)
	p.accept(';')
}

// actor := service id? : (tuple ->)? (actortype | id) ;?
func (p *parser) parseActor() Service {
	if !p.isKeyword("service") {
		p.fail("expected service declaration, found %s", describe(p.tok()))
	}
	p.next()

	svc := Service{Init: []Arg{}}
	if p.is(scanner.Ident) {
		svc.Name = p.next().text
	}
	p.expect(':')

	if p.is('(') {
		svc.Init = p.parseTuple()
		p.expectArrow()
	}

	switch {
	case p.is('{'):
		svc.Methods = p.parseActorType()
	case p.is(scanner.Ident):
		refTok := p.next()
		def, ok := p.defs[refTok.text]
		if !ok {
			p.failAt(refTok, "unbound type identifier %q", refTok.text)
		}
		if def.Kind != KindService {
			p.failAt(refTok, "%q is a %s, not a service", refTok.text, def.Kind)
		}
		svc.Methods = def.Methods
	default:
		p.fail("expected service body, found %s", describe(p.tok()))
	}

	p.accept(';')
	if !p.is(scanner.EOF) {
		p.fail("unexpected %s after service declaration", describe(p.tok()))
	}

	svc.Types = make([]TypeDef, 0, len(p.order))
	for _, name := range p.order {
		svc.Types = append(svc.Types, TypeDef{Name: name, Type: p.defs[name]})
	}
	return svc
}

// actortype := { (name : (functype | id) ;)* }
func (p *parser) parseActorType() []Method {
	p.expect('{')
	methods := []Method{}
	seen := make(map[string]bool)

	for !p.is('}') {
		nameTok := p.tok()
		name := p.parseName()
		if seen[name] {
			p.failAt(nameTok, "duplicate method %q", name)
		}
		seen[name] = true
		p.expect(':')

		var fn FuncType
		if p.is(scanner.Ident) {
			fn = p.resolveFuncRef(p.next())
		} else {
			fn = p.parseFuncType()
		}
		methods = append(methods, Method{Name: name, FuncType: fn})

		if !p.accept(';') && !p.is('}') {
			p.fail("expected ; or }, found %s", describe(p.tok()))
		}
	}
	p.expect('}')
	return methods
}

func (p *parser) resolveFuncRef(ref token) FuncType {
	def, ok := p.defs[ref.text]
	if !ok {
		p.failAt(ref, "unbound type identifier %q", ref.text)
	}
	if def.Kind != KindFunc || def.Func == nil {
		p.failAt(ref, "%q is a %s, not a func", ref.text, def.Kind)
	}
	return *def.Func
}

// functype := tuple -> tuple funcann*
func (p *parser) parseFuncType() FuncType {
	fn := FuncType{Args: p.parseTuple(), Modes: []string{}}
	p.expectArrow()
	fn.Rets = p.parseTuple()
	for p.is(scanner.Ident) && modes[p.tok().text] {
		fn.Modes = append(fn.Modes, p.next().text)
	}
	return fn
}

// tuple := ( (argtype,)* )
func (p *parser) parseTuple() []Arg {
	p.expect('(')
	args := []Arg{}
	for !p.is(')') {
		var arg Arg
		if (p.is(scanner.Ident) || p.is(scanner.String)) && p.peek().kind == ':' {
			arg.Name = p.next().text
			p.next()
		}
		arg.Type = p.parseDataType()
		args = append(args, arg)
		if !p.accept(',') && !p.is(')') {
			p.fail("expected , or ), found %s", describe(p.tok()))
		}
	}
	p.expect(')')
	return args
}

func (p *parser) parseDataType() Type {
	t := p.tok()
	if t.kind != scanner.Ident {
		p.fail("expected a type, found %s", describe(t))
	}
	p.next()

	if kind, ok := primitives[t.text]; ok {
		return Type{Kind: kind}
	}

	switch t.text {
	case "blob":
		return Type{Kind: KindVec, Elem: &Type{Kind: KindNat8}}
	case "opt", "vec":
		elem := p.parseDataType()
		return Type{Kind: Kind(t.text), Elem: &elem}
	case "record":
		return Type{Kind: KindRecord, Fields: p.parseFields(false)}
	case "variant":
		return Type{Kind: KindVariant, Fields: p.parseFields(true)}
	case "func":
		fn := p.parseFuncType()
		return Type{Kind: KindFunc, Func: &fn}
	case "service":
		return Type{Kind: KindService, Methods: p.parseActorType()}
	default:
		return Type{Kind: KindRef, Name: t.text}
	}
}

// fieldtype := (nat | name) : datatype | datatype | name | nat
func (p *parser) parseFields(variant bool) []Field {
	p.expect('{')
	var fields []Field
	var position uint32
	ids := make(map[uint32]bool)

	for !p.is('}') {
		start := p.tok()
		var f Field
		labeled := p.peek().kind == ':'

		switch {
		case start.kind == scanner.Int && labeled:
			f.ID = p.parseID()
			p.next()
			f.Type = p.parseDataType()
		case (start.kind == scanner.Ident || start.kind == scanner.String) && labeled:
			f.Name = p.next().text
			f.ID = LabelHash(f.Name)
			p.next()
			f.Type = p.parseDataType()
		case variant && start.kind == scanner.Int:
			f.ID = p.parseID()
			f.Type = Type{Kind: KindNull}
		case variant && (start.kind == scanner.Ident || start.kind == scanner.String):
			f.Name = p.next().text
			f.ID = LabelHash(f.Name)
			f.Type = Type{Kind: KindNull}
		case !variant:
			f.ID = position
			f.Type = p.parseDataType()
		default:
			p.fail("expected a field, found %s", describe(start))
		}
		position = f.ID + 1

		if ids[f.ID] {
			p.failAt(start, "duplicate field id %d", f.ID)
		}
		ids[f.ID] = true
		fields = append(fields, f)

		if !p.accept(';') && !p.is('}') {
			p.fail("expected ; or }, found %s", describe(p.tok()))
		}
	}
	p.expect('}')

	sort.Slice(fields, func(i, j int) bool { return fields[i].ID < fields[j].ID })
	return fields
}

func (p *parser) parseID() uint32 {
	t := p.next()
	id, err := strconv.ParseUint(t.text, 0, 32)
	if err != nil {
		p.failAt(t, "field id %s is out of range", t.text)
	}
	return uint32(id)
}

// resolveService checks that every type reference is bound.
func (p *parser) resolveService(svc *Service) {
	for _, name := range p.order {
		def := p.defs[name]
		p.checkRefs(&def)
	}
	for i := range svc.Init {
		p.checkRefs(&svc.Init[i].Type)
	}
	for i := range svc.Methods {
		p.checkFuncRefs(&svc.Methods[i].FuncType)
	}
}

func (p *parser) checkFuncRefs(fn *FuncType) {
	for i := range fn.Args {
		p.checkRefs(&fn.Args[i].Type)
	}
	for i := range fn.Rets {
		p.checkRefs(&fn.Rets[i].Type)
	}
}

func (p *parser) checkRefs(t *Type) {
	switch t.Kind {
	case KindRef:
		if _, ok := p.defs[t.Name]; !ok {
			panic(&ParseError{Message: fmt.Sprintf("unbound type identifier %q", t.Name)})
		}
	case KindOpt, KindVec:
		p.checkRefs(t.Elem)
	case KindRecord, KindVariant:
		for i := range t.Fields {
			p.checkRefs(&t.Fields[i].Type)
		}
	case KindFunc:
		p.checkFuncRefs(t.Func)
	case KindService:
		for i := range t.Methods {
			p.checkFuncRefs(&t.Methods[i].FuncType)
		}
	}
}
