// Package responder answers requests with the first unit that produces a
// response. Units that have nothing to say hand the request to the next unit;
// a request that reaches the end of the chain is left unhandled.
package responder

import (
	"context"
	"fmt"
	"io"

	"github.com/menezmethod/handlerchain/internal/chain"
)

// Request is the value handed down the chain.
type Request struct {
	User string
	Data string
}

// Response is the answer of the unit that handled a request.
type Response struct {
	Message string
}

// Result is a response that may be absent.
type Result = chain.Maybe[Response]

// Unit is a named step of the responder chain.
type Unit = chain.Unit[Request, Result]

// Decorator wraps a unit for logging, metrics, or tracing.
type Decorator = chain.Decorator[Request, Result]

// Unauthorized is the message returned to users other than the admin.
const Unauthorized = "Unauthorized!"

// Logger writes a line for every request to w and always defers.
func Logger(w io.Writer) Unit {
	return Unit{
		Name: "logger",
		Link: chain.Attempt(func(_ context.Context, r Request) Result {
			fmt.Fprintf(w, "Logging request: %s\n", r.Data)
			return chain.None[Response]()
		}),
	}
}

// Auth rejects every user other than admin and defers for admin.
func Auth(admin string) Unit {
	return Unit{
		Name: "auth",
		Link: chain.Attempt(func(_ context.Context, r Request) Result {
			if r.User != admin {
				return chain.Some(Response{Message: Unauthorized})
			}
			return chain.None[Response]()
		}),
	}
}

// BusinessLogic processes the request data. It never defers.
func BusinessLogic() Unit {
	return Unit{
		Name: "business_logic",
		Link: chain.Attempt(func(_ context.Context, r Request) Result {
			return chain.Some(Response{Message: "Processed: " + r.Data})
		}),
	}
}

// DefaultUnits returns logger, auth for user "admin", and business logic,
// in that order. The logger writes to w.
func DefaultUnits(w io.Writer) []Unit {
	return []Unit{
		Logger(w),
		Auth("admin"),
		BusinessLogic(),
	}
}
