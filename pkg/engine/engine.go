// Package engine runs measurement scripts and schedules regeneration.
//
// A script is a small zygomys Lisp program that edits a method's input
// record: measurements, eases, dart overrides and fit profiles. Evaluating
// it yields a Patch, which is applied to an input separately so the same
// script can be replayed against any draft.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/patternhub/pkg/logging"
)

// EvalError is a non-fatal error in user code, such as a parse error or a
// bad builtin argument.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine runs scripts in a fresh zygomys sandbox per call. It is safe for
// concurrent use; only the latest evaluation's result is kept.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// NewEngine returns an engine with the default EvalTimeout.
func NewEngine() *Engine {
	return &Engine{timeout: EvalTimeout}
}

// Evaluate runs a measurement script and returns the edits it made.
//
//   - success: patch, nil, nil
//   - parse or builtin failure: nil, eval errors, nil
//   - timeout, panic or a newer Evaluate: nil, nil, error
func (e *Engine) Evaluate(source string) (*Patch, []EvalError, error) {
	gen := e.begin()
	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		p, evalErrs, err := e.evaluate(source)
		ch <- evalResult{patch: p, errors: evalErrs, err: err}
	}()

	p, evalErrs, err := e.await(ch, gen)
	if len(evalErrs) > 0 {
		logging.Logger().Warn("script failed", "error", evalErrs[0].Error(), "count", len(evalErrs))
	}
	return p, evalErrs, err
}

func (e *Engine) evaluate(source string) (*Patch, []EvalError, error) {
	p := &Patch{}
	if strings.TrimSpace(source) == "" {
		return p, nil, nil
	}

	// Sandbox mode keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, p)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return p, nil, nil
}

// zygomys reports positions as "Error on line N: ..." or "line N: ...".
var (
	errorOnLine = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)
	lineColon   = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)
)

// parseZygomysError turns an interpreter error into one EvalError, with a
// line number when the message has one.
func parseZygomysError(err error) []EvalError {
	msg := strings.TrimSpace(err.Error())
	for _, re := range []*regexp.Regexp{errorOnLine, lineColon} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: msg}}
}
