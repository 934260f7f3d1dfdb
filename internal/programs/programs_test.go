package programs_test

import (
	"strings"
	"testing"

	"luast/internal/runtest"
)

type programCase struct {
	name     string
	source   string
	entry    string
	maxSteps int64
	expect   map[runtest.Mode]runtest.Expectation
}

func TestProgramBaseline(t *testing.T) {
	cases := []programCase{
		{
			name:   "hello_world",
			source: `print "hello, world!"`,
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "hello, world!\n",
			}),
		},
		{
			name: "unsupported_unicode_escape",
			source: "print(\"line\\nbreak\")\n" +
				"print('tab\\there')\n" +
				"print(\"\\65\\x42\\u{43}\")\n",
			expect: runtest.ExpectBoth(runtest.Expectation{
				ErrCode: "LX0004",
				ErrAt:   "3:15",
			}),
		},
		{
			name: "decimal_and_hex_escapes",
			source: "print(\"line\\nbreak\")\n" +
				"print('tab\\there')\n" +
				"print(\"\\65\\x42\")\n",
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "line\nbreak\ntab\there\nAB\n",
			}),
		},
		{
			name: "literals",
			source: "print(nil)\n" +
				"print(true)\n" +
				"print(false)\n" +
				"print(2.5)\n" +
				"print(0xff)\n" +
				"print(9223372036854775807)\n",
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "Nil\ntrue\nfalse\n2.5\n255\n9223372036854775807\n",
			}),
		},
		{
			name: "float_rendering",
			source: "print(1.5e6)\n" +
				"print(1e15)\n" +
				"print(1e16)\n" +
				"print(3.)\n" +
				"print(.0001)\n" +
				"print(1e-5)\n",
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "1500000.0\n1000000000000000.0\n1e16\n3.0\n0.0001\n1e-5\n",
			}),
		},
		{
			name: "globals_and_locals",
			source: "greeting = \"hi\"\n" +
				"local g = greeting\n" +
				"greeting = \"bye\"\n" +
				"print(g)\n" +
				"print(greeting)\n",
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "hi\nbye\n",
			}),
		},
		{
			name: "shadowed_local_reads_outer",
			source: "local x = 1\n" +
				"local x = x\n" +
				"print(x)\n",
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "1\n",
			}),
		},
		{
			name: "overwritten_global",
			source: "a = 1\n" +
				"a = 2\n" +
				"b = a\n" +
				"print(b)\n",
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "2\n",
			}),
		},
		{
			name: "print_is_a_value",
			source: "local say = print\n" +
				"echo = say\n" +
				"echo \"through a global\"\n" +
				"print(echo)\n",
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "through a global\nFunction\n",
			}),
		},
		{
			name:   "undefined_global_is_nil",
			source: `print(missing)`,
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "Nil\n",
			}),
		},
		{
			name: "call_non_function",
			source: "print \"before\"\n" +
				"n = 3\n" +
				"n(1)\n" +
				"print \"after\"\n",
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout:      "before\n",
				ErrCode:     "RT0002",
				ErrContains: "attempt to call a number value",
				ErrAt:       "3:1",
			}),
		},
		{
			name:   "two_arguments",
			source: "print(1, 2)",
			expect: runtest.ExpectBoth(runtest.Expectation{
				ErrCode: "CP0004",
				ErrAt:   "1:8",
			}),
		},
		{
			name:   "unfinished_string",
			source: "print \"oops\nprint \"never\"",
			expect: runtest.ExpectBoth(runtest.Expectation{
				ErrCode: "LX0002",
				ErrAt:   "1:7",
			}),
		},
		{
			name:   "statement_separators",
			source: "; local a = 1; print(a);; print \"x\"",
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "1\nx\n",
			}),
		},
		{
			name:     "step_limit",
			source:   "print \"a\" print \"b\" print \"c\"",
			maxSteps: 7,
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout:  "a\nb\n",
				ErrCode: "RT0006",
			}),
		},
		{
			name:   "nested_entry_path",
			entry:  "src/app/main.lua",
			source: `print 'nested'`,
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "nested\n",
			}),
		},
		{
			name: "optimizer_keeps_behavior",
			source: "x = 1\nx = x\nx = 2\n" +
				"local a = 5\nlocal b = a\nprint(b)\nprint(x)\n",
			expect: runtest.ExpectBoth(runtest.Expectation{
				Stdout: "5\n2\n",
			}),
		},
	}

	for _, tc := range cases {
		for mode, exp := range tc.expect {
			t.Run(tc.name+"_"+string(mode), func(t *testing.T) {
				res := runtest.Run(t, runtest.Options{
					Mode:     mode,
					Source:   tc.source,
					Entry:    tc.entry,
					MaxSteps: tc.maxSteps,
				})
				runtest.Assert(t, res, exp)
			})
		}
	}
}

func TestLongProgram(t *testing.T) {
	var src, want strings.Builder
	for i := 0; i < 200; i++ {
		src.WriteString("local v = \"line\"\nprint(v)\n")
		want.WriteString("line\n")
	}

	res := runtest.Run(t, runtest.Options{Mode: runtest.ModePlain, Source: src.String()})
	runtest.Assert(t, res, runtest.Expectation{Stdout: want.String()})
}
