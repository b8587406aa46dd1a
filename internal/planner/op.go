package planner

import "context"

// Op is the settle handle of a mutation. The local effect is visible as soon
// as the mutation method returns; Done closes once the remote mirror has
// confirmed or the change has been rolled back.
type Op struct {
	done chan struct{}
	err  error
}

func newOp() *Op {
	return &Op{done: make(chan struct{})}
}

func settledOp(err error) *Op {
	op := newOp()
	op.finish(err)
	return op
}

func (o *Op) finish(err error) {
	o.err = err
	close(o.done)
}

func (o *Op) Done() <-chan struct{} {
	return o.done
}

// Err reports the outcome. It is nil while the op is still in flight.
func (o *Op) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

// Wait blocks until the op settles or ctx ends.
func (o *Op) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
