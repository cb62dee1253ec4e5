package engine

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEvaluateWithoutEdits(t *testing.T) {
	eng := NewEngine()
	for _, src := range []string{
		"",
		"   \n\t  \n  ",
		"; only a comment\n;; and another\n",
		"(+ 1 2)",
		"(def x 10)\n(def y 20)\n(+ x y)",
	} {
		p, evalErrs, err := eng.Evaluate(src)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("%q: err=%v evalErrs=%v", src, err, evalErrs)
		}
		if p == nil || p.Len() != 0 {
			t.Errorf("%q: want an empty patch, got %v", src, p)
		}
	}
}

func TestEvaluateScriptErrors(t *testing.T) {
	for _, src := range []string{
		"(+ 1 2",
		"(+ 1 undefined-symbol)",
		"(value :bust 92)\n(ease :BrC",
	} {
		p, evalErrs, err := NewEngine().Evaluate(src)
		if err != nil {
			t.Fatalf("%q: script errors must not be fatal, got %v", src, err)
		}
		if p != nil {
			t.Errorf("%q: a failed script must not return a patch", src)
		}
		if len(evalErrs) == 0 || evalErrs[0].Message == "" {
			t.Fatalf("%q: want a described eval error, got %v", src, evalErrs)
		}
		// zygomys does not always report a line.
		if evalErrs[0].Line < 0 {
			t.Errorf("%q: negative line %d", src, evalErrs[0].Line)
		}
	}
}

func TestEvalErrorString(t *testing.T) {
	if s := (EvalError{Line: 5, Message: "bad dart"}).Error(); s != "line 5: bad dart" {
		t.Errorf("with line: %q", s)
	}
	if s := (EvalError{Message: "no location"}).Error(); s != "no location" {
		t.Errorf("without line: %q", s)
	}
}

func TestEvaluateRepeatable(t *testing.T) {
	eng := NewEngine()
	for i := 0; i < 5; i++ {
		p, evalErrs, err := eng.Evaluate("(value :bust (+ 90 2))")
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("run %d: err=%v evalErrs=%v", i, err, evalErrs)
		}
		if p.Len() != 1 || p.Edits[0].Path != "bust" || p.Edits[0].Value != 92.0 {
			t.Errorf("run %d: edits %v", i, p.Edits)
		}
	}
}

func TestAwaitTimeout(t *testing.T) {
	eng := &Engine{timeout: 20 * time.Millisecond}
	gen := eng.begin()
	start := time.Now()
	_, _, err := eng.await(make(chan evalResult), gen)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("want ErrTimeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "20ms") {
		t.Errorf("error should name the limit: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("await ignored the engine timeout")
	}
}

func TestAwaitDropsStaleResult(t *testing.T) {
	eng := NewEngine()
	old := eng.begin()
	eng.begin()

	ch := make(chan evalResult, 1)
	ch <- evalResult{patch: &Patch{}}
	if _, _, err := eng.await(ch, old); !errors.Is(err, ErrSuperseded) {
		t.Errorf("want ErrSuperseded, got %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"error on line 12: missing paren", 12, "missing paren"},
		{"line 3: bad keyword", 3, "bad keyword"},
		{"  some generic error ", 0, "some generic error"},
	}
	for _, tt := range tests {
		errs := parseZygomysError(errors.New(tt.msg))
		if len(errs) != 1 {
			t.Fatalf("%q: got %d errors", tt.msg, len(errs))
		}
		if errs[0].Line != tt.wantLine || errs[0].Message != tt.wantMsg {
			t.Errorf("%q: got line %d %q, want line %d %q", tt.msg, errs[0].Line, errs[0].Message, tt.wantLine, tt.wantMsg)
		}
	}
}
