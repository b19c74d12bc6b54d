package parser

import (
	"errors"
	"testing"
)

func TestParseStatements(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x: 1", "Toplevel(Define(Ident(x), Number(1)))"},
		{"x = 1; y = 2", "Toplevel(Assign(Ident(x), Number(1)), Assign(Ident(y), Number(2)))"},
		{"a.b = c", "Toplevel(Assign(Send(Ident(a), Name(b), _), Ident(c)))"},
		{"xs[0] = 1", "Toplevel(Assign(Index(Ident(xs), Number(0)), Number(1)))"},
		{"_n: 0", "Toplevel(Define(IVar(n), Number(0)))"},
		{"a, b = b, a", "Toplevel(MultiAssign(List(Ident(a), Ident(b)), List(Ident(b), Ident(a))))"},
		{"a, b: 1, 2", "Toplevel(MultiDefine(List(Ident(a), Ident(b)), List(Number(1), Number(2))))"},
		{"x += 1", "Toplevel(AddAssign(Ident(x), Number(1)))"},
		{"s ~= t", "Toplevel(CatAssign(Ident(s), Ident(t)))"},
		{"m >>>= 2", "Toplevel(UShrAssign(Ident(m), Number(2)))"},
		{"i++", "Toplevel(Inc(Ident(i)))"},
		{"--i", "Toplevel(Dec(Ident(i)))"},
		{"f(1)", "Toplevel(Call(Ident(f), List(Number(1)), List(), _))"},
		{"a\n(b)", "Toplevel(Ident(a), Ident(b))"},
		{"a\n[b]", "Toplevel(Ident(a), Array(Ident(b)))"},
		{"a +\nb", "Toplevel(Add(Ident(a), Ident(b)))"},
		{"x: 1\n-y", "Toplevel(Define(Ident(x), Number(1)), Neg(Ident(y)))"},
		{"a\n+b", "Toplevel(Ident(a), Pos(Ident(b)))"},
		{"a\n~b", "Toplevel(Ident(a), Com(Ident(b)))"},
		{";;x;", "Toplevel(Ident(x))"},
		{"{ x }", "Toplevel(Scope(Ident(x)))"},
		{"if (a) b else c", "Toplevel(If(Ident(a), Ident(b), Ident(c)))"},
		{"if (a) { b }", "Toplevel(If(Ident(a), Scope(Ident(b)), _))"},
		{"if (a) b else if (c) d", "Toplevel(If(Ident(a), Ident(b), If(Ident(c), Ident(d), _)))"},
		{"while (a) b", "Toplevel(For(_, Ident(a), _, Ident(b), _, _, _))"},
		{"while (a) {} else {} nobreak {}", "Toplevel(For(_, Ident(a), _, Scope(), Scope(), Scope(), _))"},
		{"for (;;) {}", "Toplevel(For(_, _, _, Scope(), _, _, _))"},
		{"try { a } catch (e) { b } finally { c }", "Toplevel(Try(Scope(Ident(a)), Ident(e), Scope(Ident(b)), Scope(Ident(c))))"},
		{"try a finally c", "Toplevel(Try(Ident(a), _, _, Ident(c)))"},
		{"try {} finally {}", "Toplevel(Try(Scope(), _, _, Scope()))"},
		{"throw e", "Toplevel(Throw(Ident(e)))"},
		{"assert a, \"msg\"", `Toplevel(Assert(Ident(a), String("msg")))`},
		{"assert a", "Toplevel(Assert(Ident(a), _))"},
		{"return", "Toplevel(Return(List()))"},
		{"return 1, 2", "Toplevel(Return(List(Number(1), Number(2))))"},
		{"fun f(a) a", "Toplevel(Define(Ident(f), Fun(f, List(Param(a, _)), Return(List(Ident(a))))))"},
		{"class C {}", "Toplevel(Define(Ident(C), Class(C, List(), List(), List())))"},
		{"f: fiber { yield 1, 2 }", "Toplevel(Define(Ident(f), Fun(List(), Scope(Yield(List(Number(1), Number(2)))))))"},
		{"switch (x) { case (1, 2) a default b }", "Toplevel(Switch(Ident(x), List(Case(List(Number(1), Number(2)), Ident(a))), Ident(b)))"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n := mustParseFile(t, tt.src)
			if got := n.Compact(); got != tt.want {
				t.Errorf("Compact() = %s\n                 want %s", got, tt.want)
			}
		})
	}
}

func TestParseForLoop(t *testing.T) {
	n := mustParseFile(t, "for (i: 0; i < 10; ++i) { }")
	if len(n.Children) != 1 {
		t.Fatalf("got %d statements, want 1", len(n.Children))
	}
	loop := n.Children[0]
	if loop.Kind != KindFor || len(loop.Children) != 7 {
		t.Fatalf("got %s, want a For node with 7 slots", loop.Compact())
	}
	want := "For(Define(Ident(i), Number(0)), Lt(Ident(i), Number(10)), Inc(Ident(i)), Scope(), _, _, _)"
	if got := loop.Compact(); got != want {
		t.Errorf("Compact() = %s, want %s", got, want)
	}
}

// Each statement shares the "ident :" prefix; the parser must pick the right
// reading without the abandoned attempt consuming anything.
func TestParseLabelPrefix(t *testing.T) {
	tests := []struct {
		src   string
		kind  NodeKind
		label string
	}{
		{"outer: for (;;) { break outer }", KindFor, "outer"},
		{"outer: while (true) { continue outer }", KindFor, "outer"},
		{"name: 1 + 2", KindDefine, ""},
		{"name: items { it }", KindScope, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n := mustParseFile(t, tt.src)
			if len(n.Children) != 1 {
				t.Fatalf("got %s, want one statement", n.Compact())
			}
			stmt := n.Children[0]
			if stmt.Kind != tt.kind {
				t.Fatalf("got %s, want %v", stmt.Compact(), tt.kind)
			}

			var loop *Node
			switch stmt.Kind {
			case KindFor:
				loop = stmt
			case KindScope:
				loop = stmt.Child(1).Child(0)
			}
			if loop != nil {
				if label := loop.Child(6); label == nil || label.Name != tt.label {
					t.Errorf("label = %v, want %s", label, tt.label)
				}
			}
			if stmt.Kind == KindDefine {
				if got := stmt.Compact(); got != "Define(Ident(name), Add(Number(1), Number(2)))" {
					t.Errorf("got %s", got)
				}
			}
		})
	}
}

func TestParseForEachDesugar(t *testing.T) {
	n := mustParseFile(t, "items { |k, v| use(k, v) } nobreak done()")
	each := n.Children[0]
	if each.Kind != KindScope || len(each.Children) != 2 {
		t.Fatalf("got %s, want Scope with init and try", each.Compact())
	}

	init := each.Children[0]
	wantInit := "MultiDefine(List(Ident(#iter), Ident(k), Ident(v)), List(Call(Send(Ident(items), Name(block_first), _), List(), List(), _)))"
	if got := init.Compact(); got != wantInit {
		t.Errorf("init = %s\n  want %s", got, wantInit)
	}

	guard := each.Children[1]
	if guard.Kind != KindTry || guard.Child(1) != nil || guard.Child(2) != nil {
		t.Fatalf("guard = %s, want try/finally", guard.Compact())
	}
	loop := guard.Child(0)
	if loop.Kind != KindFor || loop.Child(0) != nil {
		t.Fatalf("loop = %s", loop.Compact())
	}
	if cond := loop.Child(1); cond.Name != "#iter" {
		t.Errorf("cond = %s, want the iterator", cond.Compact())
	}
	wantStep := "MultiAssign(List(Ident(#iter), Ident(k), Ident(v)), List(Call(Send(Ident(#iter), Name(block_next), _), List(), List(), _)))"
	if got := loop.Child(2).Compact(); got != wantStep {
		t.Errorf("step = %s\n  want %s", got, wantStep)
	}
	if body := loop.Child(3); body.Compact() != "Scope(Call(Ident(use), List(Ident(k), Ident(v)), List(), _))" {
		t.Errorf("body = %s", body.Compact())
	}
	if nobreak := loop.Child(5); nobreak == nil || nobreak.Kind != KindCall {
		t.Errorf("nobreak = %v", nobreak)
	}

	cleanup := guard.Child(3)
	if cleanup.Kind != KindIf {
		t.Fatalf("finally = %s, want If", cleanup.Compact())
	}
	send := cleanup.Child(1).Child(0)
	if send.Kind != KindSend || send.Flags&FlagSafe == 0 || send.Child(1).Name != "block_break" {
		t.Errorf("cleanup call = %s, want safe block_break", send.Compact())
	}
}

func TestParseForEachDefaultVariable(t *testing.T) {
	n := mustParseFile(t, "xs { print(it) }")
	targets := n.Children[0].Child(0).Child(0)
	if len(targets.Children) != 2 || targets.Children[1].Name != "it" {
		t.Errorf("targets = %s, want #iter and it", targets.Compact())
	}
}

func TestParseForEachNeedsSameLine(t *testing.T) {
	n := mustParseFile(t, "x: xs\n{ y }")
	if len(n.Children) != 2 || n.Children[0].Kind != KindDefine || n.Children[1].Kind != KindScope {
		t.Errorf("got %s, want a definition then a block", n.Compact())
	}
}

func TestParseStatementIncremental(t *testing.T) {
	p := New([]byte("x: 1\ny = x; f(y)\n"))
	want := []string{
		"Toplevel(Define(Ident(x), Number(1)))",
		"Toplevel(Assign(Ident(y), Ident(x)))",
		"Toplevel(Call(Ident(f), List(Ident(y)), List(), _))",
		"Toplevel()",
		"Toplevel()",
	}
	for i, w := range want {
		n, err := p.ParseStatement()
		if err != nil {
			t.Fatalf("statement %d: %v", i, err)
		}
		if got := n.Compact(); got != w {
			t.Errorf("statement %d = %s, want %s", i, got, w)
		}
	}
}

func TestParseStatementIncomplete(t *testing.T) {
	tests := []struct {
		src        string
		incomplete bool
	}{
		{"if (x) {", true},
		{"f(1,", true},
		{"x: [1, 2", true},
		{`s: "open`, true},
		{"x = )", false},
		{"a b", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseStatement([]byte(tt.src))
			var list ErrorList
			if !errors.As(err, &list) {
				t.Fatalf("err = %v, want ErrorList", err)
			}
			if got := list.Incomplete(); got != tt.incomplete {
				t.Errorf("Incomplete() = %v, want %v (%v)", got, tt.incomplete, list)
			}
		})
	}
}

func TestParseStatementErrors(t *testing.T) {
	tests := []struct {
		src  string
		code Code
	}{
		{"break", CodeBreakOutsideLoop},
		{"continue", CodeBreakOutsideLoop},
		{"for (;;) { break nope }", CodeBreakOutsideLoop},
		{"while (true) { f: fun() { break } }", CodeBreakOutsideLoop},
		{"1 = 2", CodeAssignTarget},
		{"f() += 1", CodeAssignTarget},
		{"a, b", CodeMultipleAssign},
		{"switch (x) { default a default b }", CodeDuplicateDefault},
		{"switch (x) { a }", CodeExpected},
		{"try {}", CodeExpected},
		{"if x {}", CodeExpected},
		{"xs { |1| }", CodeInvalidParam},
		{"a b", CodeExpected},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseFile([]byte(tt.src))
			if got := firstCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestBreakMessageNamesKeyword(t *testing.T) {
	_, err := ParseFile([]byte("continue"))
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("err = %v", err)
	}
	if want := "invalid continue statement"; list[0].Message != want {
		t.Errorf("Message = %q, want %q", list[0].Message, want)
	}
}

func TestParseStartLine(t *testing.T) {
	_, err := ParseFile([]byte("\n)"), WithStartLine(10))
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("err = %v", err)
	}
	if list[0].Pos.Line != 11 {
		t.Errorf("Line = %d, want 11", list[0].Pos.Line)
	}
}
