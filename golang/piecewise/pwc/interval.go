package pwc

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/tarstars/piecewise_constant/golang/piecewise/ndops"
)

//FindIntervalIndex finds the index of the interval each query point lies in.
//
//Boundaries [x_0, ..., x_{n-1}] describe the half-open intervals [x_0, x_1), ..., [x_{n-1}, inf).
//The result is -1 for points below x_0 and n-1 for points at or beyond x_{n-1}.
//When lastIntervalIsClosed is set, the last interval is [x_{n-2}, x_{n-1}] and n-1 marks
//points strictly to the right of all intervals.
//
//intervalLowerXs has shape batch + [n] and queryXs shape batch' + [m], where batch' has to be
//broadcastable to batch. The result is an int array of shape batch + [m].
func FindIntervalIndex(queryXs, intervalLowerXs interface{}, lastIntervalIsClosed bool, opts ...ndops.Option) (*tensor.Dense, error) {
	query, err := ndops.Convert(queryXs)
	if err != nil {
		return nil, errors.Wrap(err, "find interval index: query_xs")
	}
	boundaries, err := ndops.Convert(intervalLowerXs)
	if err != nil {
		return nil, errors.Wrap(err, "find interval index: interval_lower_xs")
	}

	boundaryShape := ndops.Shape(boundaries)
	rank := len(boundaryShape)
	n := boundaryShape[rank-1]
	if lastIntervalIsClosed && n < 2 {
		return nil, &ValueError{Op: "find interval index", Msg: "a closed last interval needs at least two boundaries"}
	}

	query, err = tryBroadcastTo(query, boundaryShape[:rank-1], "query_xs")
	if err != nil {
		return nil, err
	}

	insertion, err := ndops.SearchSorted(boundaries, query, ndops.Right, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "find interval index")
	}
	indices := ndops.AddScalarInt(insertion, -1)
	if !lastIntervalIsClosed {
		return indices, nil
	}

	// points at x_{n-1} belong to the closed interval n-2, points beyond it keep n-1
	lastX, err := ndops.SliceAxis(boundaries, rank-1, n-1, n)
	if err != nil {
		return nil, err
	}
	beyond, err := ndops.Greater(query, lastX)
	if err != nil {
		return nil, err
	}
	return ndops.MinimumInts(indices, ndops.AddScalarInt(beyond, n-2))
}
