package pwc

import (
	"gorgonia.org/tensor"

	"github.com/tarstars/piecewise_constant/golang/piecewise/ndops"
)

//rankNormalizer promotes arrays of a function without batch shape to a batch of size one
//and squeezes results back.
type rankNormalizer struct {
	promoted bool
}

//normalizeRank expands every array at axis 0 when batchRank is 0.
//It returns the arrays to compute with and the effective batch rank.
func normalizeRank(batchRank int, arrays ...*tensor.Dense) (rankNormalizer, []*tensor.Dense, int, error) {
	if batchRank > 0 {
		return rankNormalizer{}, arrays, batchRank, nil
	}
	out := make([]*tensor.Dense, len(arrays))
	for i, a := range arrays {
		expanded, err := ndops.ExpandDims(a, 0)
		if err != nil {
			return rankNormalizer{}, nil, 0, err
		}
		out[i] = expanded
	}
	return rankNormalizer{promoted: true}, out, 1, nil
}

func (r rankNormalizer) restore(res *tensor.Dense) (*tensor.Dense, error) {
	if !r.promoted {
		return res, nil
	}
	return ndops.Squeeze(res, 0)
}
