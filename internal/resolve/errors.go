package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelectorForPosition indicates a group, range or "a" where only
	// a single body index is allowed.
	ErrInvalidSelectorForPosition = errors.New("resolve: position directives take a single body index")

	// ErrInvalidDirectiveArity indicates a value count other than 1 or 3.
	ErrInvalidDirectiveArity = errors.New("resolve: expected 1 or 3 values")

	// ErrMalformedDirective indicates directive text that cannot be parsed.
	ErrMalformedDirective = errors.New("resolve: malformed directive")

	// ErrIncompleteTemplate indicates a template converted with fields unset.
	ErrIncompleteTemplate = errors.New("resolve: template has unset fields")
)

// DirectiveError ties a failure to the directive that caused it.
type DirectiveError struct {
	Directive string
	Bodies    int
	Wrapped   error
}

func (e *DirectiveError) Error() string {
	if e.Bodies > 0 {
		return fmt.Sprintf("%s (%d bodies): %s", e.Directive, e.Bodies, e.Wrapped.Error())
	}
	return fmt.Sprintf("%s: %s", e.Directive, e.Wrapped.Error())
}

func (e *DirectiveError) Unwrap() error {
	return e.Wrapped
}
