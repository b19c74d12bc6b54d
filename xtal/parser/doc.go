// Package parser turns XTAL source text into an abstract syntax tree.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│  Tokenizer  │────▶│   Parser    │
//	│  (bytes)    │     │ (ring buf)  │     │   (AST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	       │                                       │
//	       ▼                                       ▼
//	┌─────────────┐                         ┌─────────────┐
//	│  ErrorList  │◀────────────────────────│ checkpoints │
//	└─────────────┘                         └─────────────┘
//
// The Source hands bytes to the Tokenizer and collects diagnostics. The
// Tokenizer produces tokens lazily into a ring buffer; each token records
// whether whitespace precedes and follows it. The Parser reads tokens,
// saving and restoring checkpoints where the grammar is ambiguous.
//
// # Whitespace and priority
//
// Operators are grouped into priority bands (see Priority). When an
// operator follows an operand, the parser compares the band being parsed
// with the operator's band twice: once by priority alone, and once with
// the surrounding spacing taken into account. Spacing that makes an
// expression look grouped differently from how it parses is an error:
//
//	1 + 2*3    // ok
//	1+2 * 3    // XCE1028: reads as (1+2) * 3
//	a -1       // XCE1028: reads as a prefix minus
//
// # Errors
//
// By default parsing stops at the first diagnostic. WithErrorLimit raises
// the limit; the parser then keeps going and fills the gaps with KindError
// nodes. Diagnostics are returned as an ErrorList of *Error values, each
// with a stable code such as XCE1002.
//
// # Entry points
//
//	tree, err := parser.ParseFile(src, parser.WithFile("main.xtal"))
//	stmt, err := parser.ParseStatement(line)
//	expr, err := parser.ParseExpr([]byte("1 + 2 * 3"))
//	toks, err := parser.Tokenize(src)
//
// A Parser created with New can be asked for statements one at a time
// with ParseStatement, which is how the REPL consumes its input.
//
// # Thread Safety
//
// A Parser is not safe for concurrent use. Create one per input.
package parser
