package code

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

const (
	resultVar   = "result"
	valueVar    = "value"
	hostPackage = "jelly"
)

// DefaultAllowedPackages lists the standard library packages snippets may
// import. Packages reaching the filesystem, network, processes or unsafe
// memory are left out.
var DefaultAllowedPackages = []string{
	"bytes",
	"encoding/base64",
	"encoding/hex",
	"encoding/json",
	"errors",
	"fmt",
	"math",
	"regexp",
	"sort",
	"strconv",
	"strings",
	"time",
	"unicode",
	"unicode/utf8",
}

var positionRE = regexp.MustCompile(`(?:^|:)(\d+):(\d+): `)

// YaegiEngine interprets Go snippets with the Yaegi interpreter. Every call
// uses a fresh interpreter, so no state leaks between executions.
type YaegiEngine struct {
	allowed map[string]bool
	symbols interp.Exports
}

// NewYaegiEngine creates an engine that only lets snippets import the given
// standard library packages. With no packages, DefaultAllowedPackages is used.
func NewYaegiEngine(allowedPackages ...string) *YaegiEngine {
	if len(allowedPackages) == 0 {
		allowedPackages = DefaultAllowedPackages
	}
	allowed := make(map[string]bool, len(allowedPackages))
	for _, pkg := range allowedPackages {
		allowed[pkg] = true
	}

	symbols := make(interp.Exports)
	for key, syms := range stdlib.Symbols {
		slash := strings.LastIndex(key, "/")
		if slash < 0 {
			continue
		}
		if allowed[key[:slash]] {
			symbols[key] = syms
		}
	}

	return &YaegiEngine{allowed: allowed, symbols: symbols}
}

// AllowedPackages returns the importable packages, sorted.
func (e *YaegiEngine) AllowedPackages() []string {
	out := make([]string, 0, len(e.allowed))
	for pkg := range e.allowed {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

// Execute runs params.Code with params.Bindings predeclared.
func (e *YaegiEngine) Execute(ctx context.Context, params ExecuteParams) (result ExecuteResult, err error) {
	start := time.Now()
	var stdout bytes.Buffer

	defer func() {
		if r := recover(); r != nil {
			err = newExecuteError(KindExecuteError, nil, "snippet panicked: %v", r)
		}
		result.Stdout = stdout.String()
		result.DurationMs = time.Since(start).Milliseconds()
	}()

	imports, body, err := e.splitImports(params.Code)
	if err != nil {
		return ExecuteResult{}, err
	}

	args := make(map[string]any, len(params.Bindings))
	for _, b := range params.Bindings {
		args[b.Name] = b.Value
	}
	var out any
	host := interp.Exports{
		hostPackage + "/" + hostPackage: {
			"Arg":    reflect.ValueOf(func(name string) any { return args[name] }),
			"Return": reflect.ValueOf(func(v any) { out = v }),
		},
	}

	i := interp.New(interp.Options{Stdout: &stdout, Stderr: &stdout})
	if err := i.Use(e.symbols); err != nil {
		return ExecuteResult{}, newExecuteError(KindExecuteError, err, "failed to load stdlib")
	}
	if err := i.Use(host); err != nil {
		return ExecuteResult{}, newExecuteError(KindExecuteError, err, "failed to load host package")
	}

	if _, err := i.Eval(prelude(imports, params.Bindings)); err != nil {
		return ExecuteResult{}, newExecuteError(KindInvalidArgs, err, "failed to bind arguments")
	}

	if _, err := i.EvalWithContext(ctx, body); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ExecuteResult{}, ctxErr
		}
		return ExecuteResult{}, evalError(err)
	}

	if _, err := i.Eval(hostPackage + ".Return(" + resultVar + ")"); err != nil {
		return ExecuteResult{}, newExecuteError(KindExecuteError, err, "failed to read %s", resultVar)
	}

	result.Value = out
	return result, nil
}

// prelude imports the host package and the snippet's own imports, then
// declares the bindings and the result variable.
func prelude(imports []string, bindings []Binding) string {
	var b strings.Builder
	b.WriteString("import " + strconv.Quote(hostPackage) + "\n")
	for _, pkg := range imports {
		b.WriteString("import " + strconv.Quote(pkg) + "\n")
	}
	for _, bnd := range bindings {
		fmt.Fprintf(&b, "var %s = %s.Arg(%q)\n", bnd.Name, hostPackage, bnd.Name)
	}
	b.WriteString("var " + resultVar + " interface{}\n")
	return b.String()
}

// splitImports removes leading import declarations from code and checks them
// against the allow-list. Removed lines are blanked so reported positions
// still match the caller's source.
func (e *YaegiEngine) splitImports(code string) ([]string, string, error) {
	lines := strings.Split(code, "\n")
	var imports []string
	inBlock := false

	for idx, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case inBlock && strings.HasPrefix(trimmed, ")"):
			inBlock = false
		case inBlock:
			if trimmed != "" {
				imports = append(imports, strings.Trim(trimmed, `"`))
			}
		case trimmed == "" || strings.HasPrefix(trimmed, "//"):
			continue
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		case strings.HasPrefix(trimmed, "import "):
			imports = append(imports, strings.Trim(strings.TrimSpace(strings.TrimPrefix(trimmed, "import ")), `"`))
		default:
			return e.checkImports(imports, lines)
		}
		lines[idx] = ""
	}
	return e.checkImports(imports, lines)
}

func (e *YaegiEngine) checkImports(imports, lines []string) ([]string, string, error) {
	var forbidden []string
	for _, pkg := range imports {
		if !e.allowed[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		return nil, "", newExecuteError(KindExecuteError, nil,
			"forbidden imports detected: %v (allowed: %v)", forbidden, e.AllowedPackages())
	}
	return imports, strings.Join(lines, "\n"), nil
}

// evalError converts an interpreter error into an ExecuteError, extracting
// the source position when the message carries one.
func evalError(err error) error {
	execErr := &ExecuteError{Kind: KindExecuteError, Message: err.Error(), Err: err}

	var p interp.Panic
	if errors.As(err, &p) {
		execErr.Message = fmt.Sprintf("snippet panicked: %v", p.Value)
	}

	if m := positionRE.FindStringSubmatch(err.Error()); m != nil {
		execErr.Line, _ = strconv.Atoi(m[1])
		execErr.Column, _ = strconv.Atoi(m[2])
	}
	return execErr
}
