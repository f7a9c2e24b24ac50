package interpreter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"egg/interpreter-go/pkg/ast"
	"egg/interpreter-go/pkg/parser"
	"egg/interpreter-go/pkg/runtime"
)

// ErrSpecialFormsSealed is returned when a special form is registered after
// the interpreter has started evaluating.
var ErrSpecialFormsSealed = errors.New("interpreter: special forms are sealed once evaluation starts")

// SpecialForm receives the unevaluated argument nodes of an application and
// decides itself which of them to evaluate.
type SpecialForm func(i *Interpreter, args []ast.Node, env *runtime.Environment) (runtime.Value, error)

// PrintFunc is the host sink behind the print builtin.
type PrintFunc func(runtime.Value) error

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithPrinter routes print to fn.
func WithPrinter(fn PrintFunc) Option {
	return func(i *Interpreter) {
		if fn != nil {
			i.printer = fn
		}
	}
}

// WithOutput routes print to w, one formatted value per line.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.printer = writerPrinter(w)
		}
	}
}

// WithMaxCallDepth bounds how deeply Egg functions may nest before a call
// fails with a RangeError. Values below 1 keep the default.
func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxCallDepth = int32(n)
		}
	}
}

func writerPrinter(w io.Writer) PrintFunc {
	return func(val runtime.Value) error {
		_, err := fmt.Fprintln(w, runtime.FormatValue(val))
		return err
	}
}

// DefaultMaxCallDepth is the Egg call nesting allowed unless
// WithMaxCallDepth says otherwise.
const DefaultMaxCallDepth = 10000

// Interpreter drives evaluation of Egg syntax trees.
type Interpreter struct {
	global  *runtime.Environment
	printer PrintFunc

	maxCallDepth int32
	callDepth    atomic.Int32

	formsMu      sync.Mutex
	specialForms map[string]SpecialForm
	sealed       bool
	sealOnce     sync.Once
}

// New constructs an interpreter with the standard special forms and the root
// environment of builtins.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global:       runtime.NewEnvironment(nil),
		printer:      writerPrinter(os.Stdout),
		maxCallDepth: DefaultMaxCallDepth,
		specialForms: make(map[string]SpecialForm),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.initSpecialForms()
	i.initBuiltins()
	return i
}

// GlobalEnvironment returns the root environment shared by every run.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// NewRunEnvironment creates the per-run child of the root environment so
// programs do not leak bindings into each other.
func (i *Interpreter) NewRunEnvironment() *runtime.Environment {
	return i.global.Extend()
}

// RegisterSpecialForm adds or replaces a special form. It fails once the
// interpreter has evaluated anything.
func (i *Interpreter) RegisterSpecialForm(name string, form SpecialForm) error {
	if name == "" || form == nil {
		return fmt.Errorf("interpreter: special form requires a name and a handler")
	}
	i.formsMu.Lock()
	defer i.formsMu.Unlock()
	if i.sealed {
		return ErrSpecialFormsSealed
	}
	i.specialForms[name] = form
	return nil
}

// SpecialFormNames lists the registered special forms.
func (i *Interpreter) SpecialFormNames() []string {
	i.formsMu.Lock()
	names := make([]string, 0, len(i.specialForms))
	for name := range i.specialForms {
		names = append(names, name)
	}
	i.formsMu.Unlock()
	sort.Strings(names)
	return names
}

// seal freezes the special-form table; after it the map is only read.
func (i *Interpreter) seal() {
	i.sealOnce.Do(func() {
		i.formsMu.Lock()
		i.sealed = true
		i.formsMu.Unlock()
	})
}

// Run parses source and evaluates it in a fresh run environment.
func (i *Interpreter) Run(source string) (runtime.Value, error) {
	node, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return i.RunNode(node)
}

// RunNode evaluates an already parsed program in a fresh run environment.
func (i *Interpreter) RunNode(node ast.Node) (runtime.Value, error) {
	return i.Evaluate(node, i.NewRunEnvironment())
}

// EvaluateSource parses source and evaluates it in env, which lets a host
// such as a REPL keep bindings between inputs.
func (i *Interpreter) EvaluateSource(source string, env *runtime.Environment) (runtime.Value, error) {
	node, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return i.Evaluate(node, env)
}
