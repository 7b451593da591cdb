package ndops

import "gorgonia.org/tensor"

//GatherND gathers slices of params addressed by coordinate tuples.
//indices is an int array of shape outer + [r] with r <= rank(params); the result has
//shape outer + shape(params)[r:], in the manner of tf.gather_nd.
func GatherND(params, indices *tensor.Dense, opts ...Option) (*tensor.Dense, error) {
	paramsShape, indexShape := Shape(params), Shape(indices)
	if indices.Dtype() != tensor.Int {
		return nil, valueErrorf("gather_nd", "indices should be of dtype int but are %v", indices.Dtype())
	}
	if len(indexShape) == 0 {
		return nil, shapeErrorf("gather_nd", nil, indexShape, "indices should have a trailing coordinate axis")
	}
	r := indexShape[len(indexShape)-1]
	if r > len(paramsShape) {
		return nil, shapeErrorf("gather_nd", paramsShape, indexShape, "coordinate length %d exceeds the rank of params", r)
	}

	outer := indexShape[:len(indexShape)-1]
	inner := paramsShape[r:]
	chunk := Size(inner)
	paramStrides := strides(paramsShape)
	paramData, indexData := Float64s(params), Ints(indices)
	points := Size(outer)
	out := make([]float64, points*chunk)

	err := parallelRows(points, collectOptions(opts), func(lo, hi int) error {
		for p := lo; p < hi; p++ {
			coord := indexData[p*r : (p+1)*r]
			off := 0
			for d, c := range coord {
				if c < 0 || c >= paramsShape[d] {
					return shapeErrorf("gather_nd", nil, nil, "coordinate %v is out of range for params of shape %v", coord, paramsShape)
				}
				off += c * paramStrides[d]
			}
			copy(out[p*chunk:(p+1)*chunk], paramData[off:off+chunk])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromFloat64s(out, concatShapes(outer, inner)...), nil
}
