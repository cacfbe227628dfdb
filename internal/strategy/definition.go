package strategy

import (
	dErrors "caguard/pkg/domain-errors"
)

// Definition is how strategies appear in configuration and API payloads:
// either the text form or an explicit node tree, never both.
type Definition struct {
	Expr string `json:"expr,omitempty" yaml:"expr,omitempty"`
	Tree *Node  `json:"tree,omitempty" yaml:"tree,omitempty"`
}

// IsZero reports whether neither form is set.
func (d Definition) IsZero() bool {
	return d.Expr == "" && d.Tree == nil
}

// Compile builds the definition. A zero definition compiles to nil so callers
// can fall back to their default.
func (d Definition) Compile() (*Tree, error) {
	switch {
	case d.Expr != "" && d.Tree != nil:
		return nil, dErrors.New(dErrors.CodeValidation, "strategy: set either expr or tree, not both")
	case d.Expr != "":
		return ParseAndCompile(d.Expr)
	case d.Tree != nil:
		return Compile(*d.Tree)
	default:
		return nil, nil
	}
}
