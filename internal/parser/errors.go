package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/orizon-lang/kite/internal/ast"
	"github.com/orizon-lang/kite/internal/diagnostics"
	"github.com/orizon-lang/kite/internal/position"
)

// Error is a recoverable syntax error. The variants are the concrete types
// below; each one carries the range of source text it refers to.
type Error interface {
	error
	Range() position.Range
	parseError()
}

// BadNameAfterImport: `import` not followed by a name.
type BadNameAfterImport struct{ Span position.Range }

// NoIdentifierAfterDoubleColon: a qualified name ending in `::`.
type NoIdentifierAfterDoubleColon struct{ Span position.Range }

// ExpectedExpression: no expression where one must start.
type ExpectedExpression struct{ Span position.Range }

// NoTypeExpressionAfterColonInVariableDeclaration: `x : = 1`.
type NoTypeExpressionAfterColonInVariableDeclaration struct{ Span position.Range }

// NoEqualsInVariableDeclaration: `x : Int 1`.
type NoEqualsInVariableDeclaration struct{ Span position.Range }

// CouldNotAssignTo: the left side of a declaration is not a plain variable.
type CouldNotAssignTo struct{ Expr ast.Expr }

// NoNameAfterFor: `for in ...`.
type NoNameAfterFor struct{ Span position.Range }

// IfConditionDidNotEnd: junk between an if condition and its `do`.
type IfConditionDidNotEnd struct{ Span position.Range }

// NoDoAfterIf: an if condition never reached `do`.
type NoDoAfterIf struct{ Span position.Range }

func (e BadNameAfterImport) Range() position.Range                              { return e.Span }
func (e NoIdentifierAfterDoubleColon) Range() position.Range                    { return e.Span }
func (e ExpectedExpression) Range() position.Range                              { return e.Span }
func (e NoTypeExpressionAfterColonInVariableDeclaration) Range() position.Range { return e.Span }
func (e NoEqualsInVariableDeclaration) Range() position.Range                   { return e.Span }
func (e CouldNotAssignTo) Range() position.Range                                { return e.Expr.Range() }
func (e NoNameAfterFor) Range() position.Range                                  { return e.Span }
func (e IfConditionDidNotEnd) Range() position.Range                            { return e.Span }
func (e NoDoAfterIf) Range() position.Range                                     { return e.Span }

func (e BadNameAfterImport) Error() string                              { return Report(e).Message }
func (e NoIdentifierAfterDoubleColon) Error() string                    { return Report(e).Message }
func (e ExpectedExpression) Error() string                              { return Report(e).Message }
func (e NoTypeExpressionAfterColonInVariableDeclaration) Error() string { return Report(e).Message }
func (e NoEqualsInVariableDeclaration) Error() string                   { return Report(e).Message }
func (e CouldNotAssignTo) Error() string                                { return Report(e).Message }
func (e NoNameAfterFor) Error() string                                  { return Report(e).Message }
func (e IfConditionDidNotEnd) Error() string                            { return Report(e).Message }
func (e NoDoAfterIf) Error() string                                     { return Report(e).Message }

func (BadNameAfterImport) parseError()                              {}
func (NoIdentifierAfterDoubleColon) parseError()                    {}
func (ExpectedExpression) parseError()                              {}
func (NoTypeExpressionAfterColonInVariableDeclaration) parseError() {}
func (NoEqualsInVariableDeclaration) parseError()                   {}
func (CouldNotAssignTo) parseError()                                {}
func (NoNameAfterFor) parseError()                                  {}
func (IfConditionDidNotEnd) parseError()                            {}
func (NoDoAfterIf) parseError()                                     {}

const declarationForm = "Variable declarations are of the form `<name> : <type> = <expression>`"

// Report converts a syntax error into its user facing diagnostic.
func Report(e Error) diagnostics.Report {
	switch e := e.(type) {
	case BadNameAfterImport:
		return diagnostics.Report{
			Message: "This import statement is missing what to import",
			Range:   e.Span,
			Hint:    "Import statements are of the form `import <module>::<sub-module>::<name>`",
		}
	case NoIdentifierAfterDoubleColon:
		return diagnostics.Report{
			Message: "This module access is missing what to access",
			Range:   e.Span,
			Hint:    "Module access is of the form `<module>::<sub-module>::<name>`",
		}
	case ExpectedExpression:
		return diagnostics.Report{
			Message: "This is not the start of an expression",
			Range:   e.Span,
		}
	case NoTypeExpressionAfterColonInVariableDeclaration:
		return diagnostics.Report{
			Message: "This variable declaration is missing a type after the colon",
			Range:   e.Span,
			Hint:    declarationForm,
		}
	case NoEqualsInVariableDeclaration:
		return diagnostics.Report{
			Message: "This variable declaration is missing an equals sign",
			Range:   e.Span,
			Hint:    declarationForm,
		}
	case CouldNotAssignTo:
		return diagnostics.Report{
			Message: fmt.Sprintf("The expression '%s' cannot be assigned to", e.Expr),
			Range:   e.Expr.Range(),
			Hint:    "Currently, only variables can be assigned to",
		}
	case NoNameAfterFor:
		return diagnostics.Report{
			Message: "This for loop is missing a name after the 'for' keyword",
			Range:   e.Span,
		}
	case IfConditionDidNotEnd:
		return diagnostics.Report{
			Message: "This if condition did not end",
			Range:   e.Span,
		}
	case NoDoAfterIf:
		return diagnostics.Report{
			Message: "This if statement is missing a 'do' keyword",
			Range:   e.Span,
			Hint:    "If statements are of the form 'if <condition> do { <body> }'",
		}
	default:
		panic(fmt.Sprintf("parser: no report for %T", e))
	}
}

// Errors is the ordered, non-empty list of syntax errors from one parse.
type Errors []Error

func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d syntax errors: %s", len(errs), strings.Join(msgs, "; "))
}

// Reports converts every error in order.
func (errs Errors) Reports() []diagnostics.Report {
	out := make([]diagnostics.Report, len(errs))
	for i, e := range errs {
		out[i] = Report(e)
	}
	return out
}

// UnsupportedError is returned when the input uses a construct the grammar
// has no handling for yet. Parsing stops at that point; Errors holds the
// syntax errors collected before it.
type UnsupportedError struct {
	Construct string
	Range     position.Range
	Errors    Errors
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported syntax at %s: %s", e.Range, e.Construct)
}

// Report converts the failure into a diagnostic.
func (e *UnsupportedError) Report() diagnostics.Report {
	return diagnostics.Report{
		Message: "Unsupported syntax: " + e.Construct,
		Range:   e.Range,
	}
}

// Reports returns the collected syntax errors followed by the unsupported
// construct itself.
func (e *UnsupportedError) Reports() []diagnostics.Report {
	return append(e.Errors.Reports(), e.Report())
}

// AsReports extracts the diagnostics from an error returned by Parse.
// ok is false for any other error.
func AsReports(err error) (reports []diagnostics.Report, ok bool) {
	var unsupported *UnsupportedError
	if errors.As(err, &unsupported) {
		return unsupported.Reports(), true
	}
	var errs Errors
	if errors.As(err, &errs) {
		return errs.Reports(), true
	}
	return nil, false
}

var (
	// errAbandon unwinds a failed rule. It is only ever created by
	// parser.fail, after the matching Error has been recorded.
	errAbandon = errors.New("parser: rule abandoned")

	// errUnsupported unwinds the whole parse after parser.abort.
	errUnsupported = errors.New("parser: unsupported construct")
)
