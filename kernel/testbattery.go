package kernel

import (
	"fmt"

	"github.com/organix/kernel-abe64/heap"
	"github.com/organix/kernel-abe64/reader"
)

// battery is the set of concrete scenarios enumerated in SPEC_FULL.md
// §8: literal forms evaluated in a fresh ground-derived environment,
// each checked against its expected external representation.
var battery = []struct {
	form     string
	expected string
}{
	{"#inert", "#inert"},
	{"(boolean? #t #f)", "#t"},
	{"(number? 0 1 -1)", "#t"},
	{"($sequence ($define! y #t) (($lambda (x) x) y))", "#t"},
	{"($if #t ($if #f 0 42) 314)", "42"},
	{"(equal? (cons 0 (cons 1 ())) (list 0 1))", "#t"},
	{"(eq? (cons 0 (cons 1 ())) (list 0 1))", "#f"},
	{"(+ 2 3 4)", "9"},
	{"(* 2 3 4)", "24"},
	{
		"($sequence ($define! (seal sealed? unseal) (make-encapsulation-type)) " +
			"($define! x (seal 42)) ($if (sealed? x) (unseal x) #f))",
		"42",
	},
}

// RunTestBattery evaluates every scenario in battery inside its own
// child of env and returns the first mismatch as an error; this is
// what the CLI's `-t` flag runs (§6).
func RunTestBattery(r *REPL, env heap.Value) error {
	k := r.K
	for i, tc := range battery {
		rd := reader.New(k.H, reader.NewStringSource("battery", tc.form))
		expr, err := rd.Read()
		if err != nil {
			return fmt.Errorf("scenario %d: parse error: %w", i+1, err)
		}
		childEnv := k.MakeEnvironment(env)
		got, err := r.EvalTopLevel(childEnv, expr)
		if err != nil {
			return fmt.Errorf("scenario %d (%s): %w", i+1, tc.form, err)
		}
		if k.writeString(got) != tc.expected {
			return fmt.Errorf("scenario %d (%s): got %s, want %s", i+1, tc.form, k.writeString(got), tc.expected)
		}
	}
	return nil
}
