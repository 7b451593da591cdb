package ndops

import "golang.org/x/sync/errgroup"

//Option configures the batched kernels.
type Option func(*options)

type options struct {
	threadsNum int
}

//WithThreadsNum bounds the number of goroutines a kernel splits its rows over.
//Values below 2 keep the kernel on the calling goroutine.
func WithThreadsNum(threadsNum int) Option {
	return func(o *options) {
		o.threadsNum = threadsNum
	}
}

func collectOptions(opts []Option) options {
	o := options{threadsNum: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

//parallelRows runs fn over [0, rows) split into contiguous chunks, one chunk per worker.
func parallelRows(rows int, o options, fn func(lo, hi int) error) error {
	if o.threadsNum <= 1 || rows < 2 {
		return fn(0, rows)
	}

	chunks := o.threadsNum
	if chunks > rows {
		chunks = rows
	}
	step := (rows + chunks - 1) / chunks

	var g errgroup.Group
	g.SetLimit(o.threadsNum)
	for lo := 0; lo < rows; lo += step {
		lo, hi := lo, lo+step
		if hi > rows {
			hi = rows
		}
		g.Go(func() error {
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
