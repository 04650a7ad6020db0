package rule

import (
	"context"
	"slices"

	"github.com/menezmethod/handlerchain/internal/chain"
)

// Validator runs an order through a fixed chain of rules.
type Validator struct {
	names  []string
	handle chain.Handler[Order, bool]
}

// NewValidator builds the rule chain once. Rules run in the order given;
// decorators wrap each rule with the first one outermost.
func NewValidator(rules []Rule, decorators ...Decorator) *Validator {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return &Validator{
		names:  names,
		handle: chain.Assemble(chain.Accept[Order](), rules, decorators...),
	}
}

// Validate reports whether o passes every rule. Evaluation stops at the
// first failing rule.
func (v *Validator) Validate(ctx context.Context, o Order) bool {
	return v.handle(ctx, o)
}

// Rules returns the rule names in evaluation order.
func (v *Validator) Rules() []string {
	return slices.Clone(v.names)
}
