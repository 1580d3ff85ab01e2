// Package help holds the rlisp language reference shown by "rlisp ref".
package help

import "strings"

// QUICKREF is the overview printed when no topic is given.
const QUICKREF = `rlisp v0.1 quick reference

  print "Hello, world!" * 3;       # statements end with ;
  let x = 1; const y = 2;          # variables and constants
  fn add(a, b) { return a + b; }   # functions are closures
  for (let i = 0; i < 3; i += 1) { print add(i, y); }

Topics (rlisp ref <topic>):
  syntax       statements and declarations
  types        values, truthiness and display
  operators    arithmetic, comparison, logic and bitwise
  flow         if, while, for, break, continue, return
  functions    declarations, closures and calls
  stdlib       host functions
  diagnostics  error kinds and the report format
  config       configuration files
  examples     short complete programs
`

// TopicList is the display order of the topics.
var TopicList = []string{
	"syntax", "types", "operators", "flow", "functions", "stdlib", "diagnostics", "config", "examples",
}

// Topics maps each topic to its text.
var Topics = map[string]string{
	"syntax": `Syntax

A program is a sequence of declarations and statements. Comments run from #
to the end of the line.

  let name = expr;       mutable variable (nil when the value is omitted)
  const name = expr;     constant, must have a non-nil value
  fn name(a, b) { ... }  function declaration
  class Name < Base { method() { ... } }
                         parsed, but evaluating it is an error
  print expr;            writes the display form of expr and a newline
  expr;                  expression statement
  { ... }                block with its own scope

Assignment is an expression: a = b = 3. Compound forms += -= *= /= %= ^= &= |=
rewrite to a = a op value.
`,
	"types": `Types

  nil        the absent value
  boolean    true, false
  number     64-bit float; integral values print without a decimal point
  string     "text" with escapes \n \t \r \" \\
  function   user functions print as <fn name>, host functions as <native fn>

Truthiness: nil, false, 0 and "" are false, everything else is true. Equality (==, !=) compares by value; functions compare by identity.
`,
	"operators": `Operators, lowest to highest precedence

  = += -= ...          assignment (right associative)
  ||                   both sides must be booleans, both are evaluated
  &&                   both sides must be booleans, both are evaluated
  == !=                any values
  < <= > >=            numbers
  + - & | ^ << >>      + also joins two strings; bitwise operators work on
                       the integer part of numbers
  * / %                / and % by zero are ZeroDivisionError
  ! - +                unary; ! works on any value by truthiness
  call()               function call

Overloads: string * number (either order) repeats the string, truncating the
count; number * boolean is the number when true and 0 when false.
`,
	"flow": `Control flow

  if (cond) stmt else stmt
  while (cond) stmt
  for (init; cond; step) stmt    any part may be empty
  break;  continue;              innermost loop only
  return expr;                   leaves the innermost function

The step of a for loop runs after continue. return outside a function and
break or continue outside a loop are errors.
`,
	"functions": `Functions

  fn make(n) {
    fn inc() { return n + 1; }
    return inc;
  }
  let f = make(5);
  print f();   # 6

Functions capture the scope they are declared in. Calls check the argument
count. At most 255 parameters or arguments are allowed by default, and the
call depth is limited to 2048 (see config).
`,
	"stdlib": `Host functions

  clock()          nanoseconds from a monotonic clock
  str(v)           display form of v
  num(s)           number parsed from s, nil if s is not a number
  type(v)          "nil", "boolean", "number", "string" or "function"
  len(s)           length of s in bytes
  contains(s, t)   whether t occurs in s
  upper(s)         s in upper case
  lower(s)         s in lower case
  max(a, b)        the larger number
  min(a, b)        the smaller number
  floor(n)         n rounded down
`,
	"diagnostics": `Diagnostics

Every error is reported as

  <Kind>: <message>, line <L>, pos <P>

where P is the byte offset within the line. Kinds: SyntaxError, ValueError,
ParseError, RuntimeError, NameError, ZeroDivisionError, TypeError,
TooManyParameters. --pretty adds the source line with a caret.

A lexical or parse error stops the program before it runs (exit code 2). A
runtime error stops only the current top-level statement; the rest still run
and the exit code is 3.
`,
	"config": `Configuration

rlisp reads the first of --config <file>, ./.rlisp.yaml and
~/.rlisp/config.yaml:

  interpreter:
    max_call_depth: 2048   # 0 = unlimited
    max_steps: 0           # statement budget, 0 = unlimited
    max_parameters: 255
  diagnostics:
    pretty: false
  repl:
    prompt: ">> "
    continuation: ".. "
    history: ".rlisp_history"
  log:
    verbosity: 0
    file: ""
`,
	"examples": `Examples

  # countdown
  for (let i = 3; i > 0; i -= 1) print i;
  print "liftoff";

  # fizzbuzz
  for (let i = 1; i <= 15; i += 1) {
    if (i % 15 == 0) print "FizzBuzz";
    else if (i % 3 == 0) print "Fizz";
    else if (i % 5 == 0) print "Buzz";
    else print i;
  }
`,
}

// Lookup returns the text for topic, ignoring case and surrounding space.
func Lookup(topic string) (string, bool) {
	text, ok := Topics[strings.ToLower(strings.TrimSpace(topic))]
	return text, ok
}
