package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
)

// kwPrefix is the marker preprocessSource puts in front of keyword names.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source for zygomys:
//
//  1. :keyword becomes the string "__kw_keyword", so keywords need no
//     global symbols. Measurement keys keep their case (:BrC, :upAC).
//  2. kebab-case identifiers become snake_case, since zygomys reads a
//     hyphen as subtraction. Keywords keep their hyphens.
//  3. ; comments become // comments.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' && j+1 < len(b) {
					j++
				}
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j
		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j
		case c == ';':
			for i < len(b) && b[i] == ';' {
				i++
			}
			j := i
			for j < len(b) && b[j] != '\n' {
				j++
			}
			out = append(out, '/', '/')
			out = append(out, b[i:j]...)
			i = j
		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2
		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKey extracts a field name from a keyword or a plain string.
func toKey(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	key := strings.TrimPrefix(str.S, kwPrefix)
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty field name")
	}
	return key, nil
}

// toValue converts a script value to the Go value written into the input.
func toValue(s zygo.Sexp) (any, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpStr:
		return strings.TrimPrefix(v.S, kwPrefix), nil
	}
	return nil, fmt.Errorf("expected number, boolean or string, got %T (%s)", s, s.SexpString(nil))
}

// keyNumber reads the (key number) argument pair shared by several builtins.
func keyNumber(fn string, args []zygo.Sexp) (string, float64, error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("%s requires a field and a number, got %d arguments", fn, len(args))
	}
	key, err := toKey(args[0])
	if err != nil {
		return "", 0, fmt.Errorf("%s: field: %w", fn, err)
	}
	v, err := toFloat64(args[1])
	if err != nil {
		return "", 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return key, v, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the measurement builtins. Each call appends an
// edit to p; nothing touches an input until the patch is applied.
func registerBuiltins(env *zygo.Zlisp, p *Patch) {

	// (value :bust 92) (value "upAC.ease" 7) (value :showGuides false)
	// zygomys reserves set for assignment.
	env.AddFunction("value", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("value requires a field and a value, got %d arguments", len(args))
		}
		key, err := toKey(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("value: field: %w", err)
		}
		v, err := toValue(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("value: %s: %w", key, err)
		}
		p.add(Edit{Kind: EditSet, Path: key, Value: v})
		return args[1], nil
	})

	// (measurement :BrC 88)
	env.AddFunction("measurement", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		key, v, err := keyNumber("measurement", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		p.add(Edit{Kind: EditSet, Path: key + ".measurement", Value: v})
		return args[1], nil
	})

	// (ease :BrC 6)
	env.AddFunction("ease", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		key, v, err := keyNumber("ease", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		p.add(Edit{Kind: EditSet, Path: key + ".ease", Value: v})
		return args[1], nil
	})

	// (override :frontDart 1.5) fixes a dart width against automatic
	// distribution.
	env.AddFunction("override", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		key, v, err := keyNumber("override", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if v < 0 {
			return zygo.SexpNull, fmt.Errorf("override: %s: width %g is negative", key, v)
		}
		p.add(Edit{Kind: EditSet, Path: key + ".width", Value: v})
		p.add(Edit{Kind: EditSet, Path: key + ".override", Value: true})
		return args[1], nil
	})

	// (auto :frontDart) returns a dart to automatic distribution.
	env.AddFunction("auto", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("auto requires a dart field, got %d arguments", len(args))
		}
		key, err := toKey(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("auto: %w", err)
		}
		p.add(Edit{Kind: EditSet, Path: key + ".override", Value: false})
		return zygo.SexpNull, nil
	})

	// (profile "Fit 2") or (profile 2)
	env.AddFunction("profile", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("profile requires a name or index, got %d arguments", len(args))
		}
		var ref string
		switch v := args[0].(type) {
		case *zygo.SexpInt:
			ref = fmt.Sprint(v.Val)
		case *zygo.SexpStr:
			ref = strings.TrimPrefix(v.S, kwPrefix)
		default:
			return zygo.SexpNull, fmt.Errorf("profile: expected name or index, got %T (%s)", args[0], args[0].SexpString(nil))
		}
		p.add(Edit{Kind: EditProfile, Path: ref})
		return args[0], nil
	})
}
