package responder

import (
	"context"

	"github.com/menezmethod/handlerchain/internal/chain"
)

// Responder runs requests through a fixed chain of units.
type Responder struct {
	handle chain.Handler[Request, Result]
}

// NewResponder builds the unit chain once. Units run in the order given;
// decorators wrap each unit with the first one outermost.
func NewResponder(units []Unit, decorators ...Decorator) *Responder {
	return &Responder{
		handle: chain.Assemble(chain.Unhandled[Request, Response](), units, decorators...),
	}
}

// Handle returns the response of the first unit that produces one, or an
// empty result when every unit defers.
func (r *Responder) Handle(ctx context.Context, req Request) Result {
	return r.handle(ctx, req)
}
