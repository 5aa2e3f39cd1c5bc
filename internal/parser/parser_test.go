package parser

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/kite/internal/ast"
	"github.com/orizon-lang/kite/internal/lexer"
	"github.com/orizon-lang/kite/internal/position"
)

func parseSource(t *testing.T, source string) (*ast.Program, error) {
	t.Helper()
	tokens, lexErrs := lexer.Lex(source)
	require.Empty(t, lexErrs, "lexing %q", source)
	return Parse(tokens)
}

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, err := parseSource(t, source)
	require.NoError(t, err)
	require.NotNil(t, program)
	return program
}

// parseErrors parses source expecting recoverable syntax errors.
func parseErrors(t *testing.T, source string) (*ast.Program, Errors) {
	t.Helper()
	program, err := parseSource(t, source)
	var errs Errors
	require.ErrorAs(t, err, &errs)
	require.NotNil(t, program)
	return program, errs
}

func statements(p *ast.Program) []string {
	out := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		out[i] = s.String()
	}
	return out
}

func TestParsePrograms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty",
			input:    "",
			expected: []string{},
		},
		{
			name:     "only blank lines",
			input:    "\n\n# nothing here\n",
			expected: []string{},
		},
		{
			name:     "simple name",
			input:    "a",
			expected: []string{"Expr(Var(a))"},
		},
		{
			name:     "qualified name",
			input:    "a::b::c",
			expected: []string{"Expr(Var(a::b::c))"},
		},
		{
			name:     "import",
			input:    "import io::print",
			expected: []string{"Import(io::print)"},
		},
		{
			name:     "application",
			input:    `io::print "hello" 5`,
			expected: []string{`Expr(Apply(Var(io::print), [Literal(Str("hello")), Literal(I32(5))]))`},
		},
		{
			name:     "literal argument then name",
			input:    "x 5",
			expected: []string{"Expr(Apply(Var(x), [Literal(I32(5))]))"},
		},
		{
			name:     "parenthesized application",
			input:    "f (g 1) x",
			expected: []string{"Expr(Apply(Var(f), [Apply(Var(g), [Literal(I32(1))]), Var(x)]))"},
		},
		{
			name:     "declaration",
			input:    "x : Int = f 1",
			expected: []string{"VarDecl(x, Var(Int), Apply(Var(f), [Literal(I32(1))]))"},
		},
		{
			name:     "qualified declaration keeps the first segment",
			input:    "x::y : Int = 5",
			expected: []string{"VarDecl(x, Var(Int), Literal(I32(5)))"},
		},
		{
			name:     "inline empty block",
			input:    "if x do { }",
			expected: []string{"If(Var(x), [], None)"},
		},
		{
			name:     "empty block closed on the next line",
			input:    "if x do {\n}",
			expected: []string{"If(Var(x), [], None)"},
		},
		{
			name:  "if block",
			input: "if ready do {\n    io::print \"go\"\n    x : Int = 1\n}",
			expected: []string{
				`If(Var(ready), [Expr(Apply(Var(io::print), [Literal(Str("go"))])), VarDecl(x, Var(Int), Literal(I32(1)))], None)`,
			},
		},
		{
			name:     "for loop",
			input:    "for i in 0 .. 3 do {\n    f i\n}",
			expected: []string{"For(i, Literal(I32(0)), Literal(I32(3)), [Expr(Apply(Var(f), [Var(i)]))])"},
		},
		{
			name:     "for loop with the brace on its own line",
			input:    "for i in 0 .. 3 do\n{\n    f\n}",
			expected: []string{"For(i, Literal(I32(0)), Literal(I32(3)), [Expr(Var(f))])"},
		},
		{
			name:  "nested blocks",
			input: "if a do {\n    for i in 0 .. 2 do {\n        f i\n    }\n    g\n}\nh",
			expected: []string{
				"If(Var(a), [For(i, Literal(I32(0)), Literal(I32(2)), [Expr(Apply(Var(f), [Var(i)]))]), Expr(Var(g))], None)",
				"Expr(Var(h))",
			},
		},
		{
			name:  "several statements",
			input: "import io\n\nname : Str = \"kite\"\nio::print name\n",
			expected: []string{
				"Import(io)",
				`VarDecl(name, Var(Str), Literal(Str("kite")))`,
				"Expr(Apply(Var(io::print), [Var(name)]))",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := mustParse(t, tt.input)
			assert.Equal(t, tt.expected, statements(program))
		})
	}
}

func TestParseDeclarationTree(t *testing.T) {
	program := mustParse(t, "x : Int = 5")

	expected := &ast.Program{Statements: []ast.Statement{
		&ast.VarDeclStmt{
			Name:  "x",
			Type:  &ast.TypeVar{Name: "Int", Span: position.New(4, 7)},
			Value: &ast.LiteralExpr{Value: ast.I32Literal{Value: 5}, Span: position.New(10, 11)},
		},
	}}
	if diff := cmp.Diff(expected, program); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseQualifiedNameRange(t *testing.T) {
	program := mustParse(t, "a::b::c")
	require.Len(t, program.Statements, 1)

	stmt, ok := program.Statements[0].(*ast.ExprStmt)
	require.True(t, ok)
	v, ok := stmt.Expr.(*ast.VarExpr)
	require.True(t, ok)
	assert.Equal(t, ast.QualifiedName{"a", "b", "c"}, v.Name)
	assert.Equal(t, position.New(0, 7), v.Range())
}

func TestParseEqualsWithoutColonIsNotADeclaration(t *testing.T) {
	program, errs := parseErrors(t, "x = 5")

	require.Len(t, program.Statements, 1)
	_, isDecl := program.Statements[0].(*ast.VarDeclStmt)
	assert.False(t, isDecl)
	assert.Equal(t, "Expr(Var(x))", program.Statements[0].String())
	assert.Equal(t, Errors{ExpectedExpression{Span: position.New(2, 3)}}, errs)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		errors     Errors
		statements []string
	}{
		{
			name:       "trailing double colon",
			input:      "a::",
			errors:     Errors{NoIdentifierAfterDoubleColon{Span: position.At(3)}},
			statements: []string{},
		},
		{
			name:       "missing equals recovers at the next line",
			input:      "x : Int 5\ny : Int = 6",
			errors:     Errors{NoEqualsInVariableDeclaration{Span: position.New(8, 9)}},
			statements: []string{"VarDecl(y, Var(Int), Literal(I32(6)))"},
		},
		{
			name:  "one error per statement across statements",
			input: "import\nx : = 1\ny",
			errors: Errors{
				BadNameAfterImport{Span: position.New(6, 7)},
				NoTypeExpressionAfterColonInVariableDeclaration{Span: position.New(11, 12)},
			},
			statements: []string{"Expr(Var(y))"},
		},
		{
			name:       "error inside a block skips the whole block",
			input:      "if x do {\n    f ::\n}\nb",
			errors:     Errors{NoIdentifierAfterDoubleColon{Span: position.New(18, 19)}},
			statements: []string{"Expr(Var(b))"},
		},
		{
			name:       "misaligned block statement",
			input:      "if x do {\n    a\n  b\n}\nc",
			errors:     Errors{ExpectedExpression{Span: position.New(15, 16)}},
			statements: []string{"Expr(Var(c))"},
		},
		{
			name:       "for without a name",
			input:      "for in 0 .. 3 do {\n    f\n}",
			errors:     Errors{NoNameAfterFor{Span: position.New(0, 6)}},
			statements: []string{},
		},
		{
			name:       "junk after the if condition",
			input:      "if x y ) do {\n    f\n}",
			errors:     Errors{IfConditionDidNotEnd{Span: position.New(7, 13)}},
			statements: []string{"If(Apply(Var(x), [Var(y)]), [Expr(Var(f))], None)"},
		},
		{
			name:       "if without do",
			input:      "if x {\n    f\n}",
			errors:     Errors{NoDoAfterIf{Span: position.New(5, 6)}},
			statements: []string{},
		},
		{
			name:       "later failures in the same statement are not reported",
			input:      "if x y ) do {\n    f ::\n}",
			errors:     Errors{IfConditionDidNotEnd{Span: position.New(7, 13)}},
			statements: []string{},
		},
		{
			name:       "missing if condition",
			input:      "if do { }\nz",
			errors:     Errors{ExpectedExpression{Span: position.New(3, 5)}},
			statements: []string{"Expr(Var(z))"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, errs := parseErrors(t, tt.input)
			assert.Equal(t, tt.errors, errs)
			assert.Equal(t, tt.statements, statements(program))
		})
	}
}

func TestParseCouldNotAssignTo(t *testing.T) {
	_, errs := parseErrors(t, "f 1 : Int = 2")
	require.Len(t, errs, 1)

	e, ok := errs[0].(CouldNotAssignTo)
	require.True(t, ok, "got %T", errs[0])
	assert.Equal(t, position.New(0, 3), e.Range())

	report := Report(e)
	assert.Equal(t, "The expression 'Apply(Var(f), [Literal(I32(1))])' cannot be assigned to", report.Message)
	assert.Equal(t, "Currently, only variables can be assigned to", report.Hint)
	assert.Equal(t, report.Message, e.Error())
}

func TestParseUnsupported(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		construct string
		earlier   int
	}{
		{
			name:      "for without in",
			input:     "for i 0 .. 3 do { }",
			construct: "for loop without 'in'",
		},
		{
			name:      "for without range operator",
			input:     "for i in 0 3 do { }",
			construct: "for loop range without '..'",
		},
		{
			name:      "for without do",
			input:     "for i in 0 .. 3 { }",
			construct: "for loop without 'do'",
		},
		{
			name:      "for without body",
			input:     "for i in 0 .. 3 do\nf",
			construct: "for loop without a '{' body",
		},
		{
			name:      "unclosed parenthesis",
			input:     "(a b",
			construct: "parenthesized expression without a closing ')'",
		},
		{
			name:      "block on the same line",
			input:     "if x do { f }",
			construct: "block contents must start on a new, indented line",
		},
		{
			name:      "keeps earlier errors",
			input:     "import\n(a",
			construct: "parenthesized expression without a closing ')'",
			earlier:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := parseSource(t, tt.input)
			assert.Nil(t, program)

			var unsupported *UnsupportedError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, tt.construct, unsupported.Construct)
			assert.Len(t, unsupported.Errors, tt.earlier)

			reports, ok := AsReports(err)
			require.True(t, ok)
			require.Len(t, reports, tt.earlier+1)
			assert.Equal(t, "Unsupported syntax: "+tt.construct, reports[len(reports)-1].Message)
		})
	}
}

func TestParseRangesCoverSourceText(t *testing.T) {
	source := "import io\nx : Int = f a::b \"s\" 5\nif x do {\n    io::print x\n}"
	program := mustParse(t, source)

	var texts []string
	ast.Walk(program, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.VarExpr:
			assert.Equal(t, n.Name.String(), source[n.Span.Start:n.Span.End])
			texts = append(texts, source[n.Span.Start:n.Span.End])
		case *ast.LiteralExpr:
			texts = append(texts, source[n.Span.Start:n.Span.End])
		case ast.Expr:
			r := n.Range()
			assert.False(t, r.IsEmpty(), "%s has an empty range", n)
		}
		return true
	})
	assert.Equal(t, []string{"f", "a::b", `"s"`, "5", "x", "io::print", "x"}, texts)
}

func TestErrorsMessage(t *testing.T) {
	one := Errors{ExpectedExpression{Span: position.New(0, 1)}}
	assert.Equal(t, "This is not the start of an expression", one.Error())

	two := Errors{
		ExpectedExpression{Span: position.New(0, 1)},
		NoDoAfterIf{Span: position.New(2, 3)},
	}
	assert.Equal(t,
		"2 syntax errors: This is not the start of an expression; This if statement is missing a 'do' keyword",
		two.Error())

	reports := two.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, position.New(2, 3), reports[1].Range)
}

func TestReportCoversEveryVariant(t *testing.T) {
	span := position.New(1, 2)
	variants := []Error{
		BadNameAfterImport{Span: span},
		NoIdentifierAfterDoubleColon{Span: span},
		ExpectedExpression{Span: span},
		NoTypeExpressionAfterColonInVariableDeclaration{Span: span},
		NoEqualsInVariableDeclaration{Span: span},
		CouldNotAssignTo{Expr: &ast.VarExpr{Name: ast.QualifiedName{"v"}, Span: span}},
		NoNameAfterFor{Span: span},
		IfConditionDidNotEnd{Span: span},
		NoDoAfterIf{Span: span},
	}

	seen := make(map[string]bool)
	for _, e := range variants {
		t.Run(fmt.Sprintf("%T", e), func(t *testing.T) {
			var report = Report(e)
			assert.NotEmpty(t, report.Message)
			assert.Equal(t, span, report.Range)
			assert.Equal(t, e.Range(), report.Range)
			assert.False(t, seen[report.Message], "duplicate message %q", report.Message)
			seen[report.Message] = true
		})
	}

	assert.True(t, strings.HasPrefix(Report(variants[0]).Hint, "Import statements"))
	assert.False(t, Report(variants[2]).HasHint())
}

func TestAsReportsIgnoresOtherErrors(t *testing.T) {
	_, ok := AsReports(fmt.Errorf("read failed"))
	assert.False(t, ok)

	wrapped := fmt.Errorf("main.kite: %w", Errors{NoDoAfterIf{Span: position.New(0, 1)}})
	reports, ok := AsReports(wrapped)
	require.True(t, ok)
	assert.Len(t, reports, 1)
}

func TestParseConcurrent(t *testing.T) {
	sources := []string{
		"import io\nio::print 1",
		"x : Int 5\ny : Int = 6",
		"for i in 0 .. 10 do {\n    f i\n}",
		"if x do {\n    a\n  b\n}\nc",
	}

	var wg sync.WaitGroup
	results := make([]string, len(sources)*8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens, _ := lexer.Lex(sources[i%len(sources)])
			program, err := Parse(tokens)
			results[i] = fmt.Sprint(program, err)
		}(i)
	}
	wg.Wait()

	for i := len(sources); i < len(results); i++ {
		assert.Equal(t, results[i%len(sources)], results[i])
	}
}
