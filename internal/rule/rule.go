// Package rule validates orders against a chain of business rules.
//
// Every rule is a guard: it checks one condition and only hands the order to
// the next rule when the condition holds. An order is valid when it reaches
// the end of the chain.
package rule

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/menezmethod/handlerchain/internal/chain"
)

// Order is the value under validation.
type Order struct {
	Amount    float64
	ItemCount int
	Priority  string
}

// Rule is a named guard over an Order.
type Rule = chain.Unit[Order, bool]

// Decorator wraps a rule for logging, metrics, or tracing.
type Decorator = chain.Decorator[Order, bool]

// AmountAbove requires the order amount to be strictly greater than limit.
func AmountAbove(limit float64) Rule {
	return Rule{
		Name: fmt.Sprintf("amount_above_%g", limit),
		Link: chain.Guard(func(_ context.Context, o Order) bool {
			return o.Amount > limit
		}),
	}
}

// MaxItems requires the order to contain at most limit items.
func MaxItems(limit int) Rule {
	return Rule{
		Name: fmt.Sprintf("max_items_%d", limit),
		Link: chain.Guard(func(_ context.Context, o Order) bool {
			return o.ItemCount <= limit
		}),
	}
}

// PriorityIn requires the order priority to equal one of allowed exactly.
func PriorityIn(allowed ...string) Rule {
	set := slices.Clone(allowed)
	return Rule{
		Name: "priority_in_" + strings.ToLower(strings.Join(set, "_")),
		Link: chain.Guard(func(_ context.Context, o Order) bool {
			return slices.Contains(set, o.Priority)
		}),
	}
}

// DefaultRules returns the order rules in evaluation order:
// amount above 100, at most 10 items, priority HIGH or LOW.
func DefaultRules() []Rule {
	return []Rule{
		AmountAbove(100),
		MaxItems(10),
		PriorityIn("HIGH", "LOW"),
	}
}
