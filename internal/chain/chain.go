// Package chain composes handler units into a single handler.
//
// A unit is a Link: it receives "the rest of the chain" and returns a handler
// that may answer on its own or delegate to that rest. Build folds a list of
// links right to left onto a terminal handler, so the first link in the list
// runs first.
package chain

import "context"

// Handler is one composed step of a chain.
type Handler[In, Out any] func(ctx context.Context, in In) Out

// Link is a handler-transform unit. It is given the already built suffix of
// the chain as next.
type Link[In, Out any] func(next Handler[In, Out]) Handler[In, Out]

// Middleware decorates a Link without changing its body.
type Middleware[In, Out any] func(Link[In, Out]) Link[In, Out]

// Build composes links in the order given, terminated by terminal.
//
//	Build(t, a, b, c)
//	// Evaluation order: a → b → c → t
//
// With no links the result is terminal itself.
func Build[In, Out any](terminal Handler[In, Out], links ...Link[In, Out]) Handler[In, Out] {
	h := terminal
	for i := len(links) - 1; i >= 0; i-- {
		h = links[i](h)
	}
	return h
}

// Wrap applies middleware to a link. The first middleware is the outermost.
func Wrap[In, Out any](link Link[In, Out], mw ...Middleware[In, Out]) Link[In, Out] {
	for i := len(mw) - 1; i >= 0; i-- {
		link = mw[i](link)
	}
	return link
}

// Guard returns a link that evaluates cond and only delegates to next when
// cond holds. A failing guard never invokes the rest of the chain.
func Guard[In any](cond func(ctx context.Context, in In) bool) Link[In, bool] {
	return func(next Handler[In, bool]) Handler[In, bool] {
		return func(ctx context.Context, in In) bool {
			return cond(ctx, in) && next(ctx, in)
		}
	}
}

// Attempt returns a link that answers with try's result when present and
// otherwise delegates to next.
func Attempt[In, Out any](try func(ctx context.Context, in In) Maybe[Out]) Link[In, Maybe[Out]] {
	return func(next Handler[In, Maybe[Out]]) Handler[In, Maybe[Out]] {
		return func(ctx context.Context, in In) Maybe[Out] {
			return try(ctx, in).OrElse(func() Maybe[Out] {
				return next(ctx, in)
			})
		}
	}
}

// Accept is the terminal of an all-must-pass chain. It ignores its input.
func Accept[In any]() Handler[In, bool] {
	return func(context.Context, In) bool { return true }
}

// Unhandled is the terminal of a first-match chain. It never produces a result.
func Unhandled[In, Out any]() Handler[In, Maybe[Out]] {
	return func(context.Context, In) Maybe[Out] { return None[Out]() }
}

// Unit is a link with a name, used by decorators for logs, metrics and spans.
type Unit[In, Out any] struct {
	Name string
	Link Link[In, Out]
}

// Decorator returns the middleware to apply to the named unit.
type Decorator[In, Out any] func(unit string) Middleware[In, Out]

// Assemble decorates every unit and builds the chain in unit order.
// Decorators are applied with the first one outermost.
func Assemble[In, Out any](terminal Handler[In, Out], units []Unit[In, Out], decorators ...Decorator[In, Out]) Handler[In, Out] {
	links := make([]Link[In, Out], len(units))
	for i, u := range units {
		mw := make([]Middleware[In, Out], len(decorators))
		for j, d := range decorators {
			mw[j] = d(u.Name)
		}
		links[i] = Wrap(u.Link, mw...)
	}
	return Build(terminal, links...)
}
