package pwc

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/tarstars/piecewise_constant/golang/piecewise/ndops"
)

//Integrate returns the integral of the function over [x1, x2] for every pair of end points.
//x1 and x2 have the same shape batch' + [m], batch' broadcastable to the batch shape, and the
//result has shape batch + [m] + event. End points need not be ordered: swapping them flips the
//sign of the result.
func (f *PiecewiseConstantFunc) Integrate(x1, x2 interface{}) (*tensor.Dense, error) {
	op := f.name + "_integrate"
	lower, err := ndops.Convert(x1)
	if err != nil {
		return nil, errors.Wrap(err, op+": x1")
	}
	upper, err := ndops.Convert(x2)
	if err != nil {
		return nil, errors.Wrap(err, op+": x2")
	}
	batchShape := f.BatchShape()
	if lower, err = tryBroadcastTo(lower, batchShape, "x1"); err != nil {
		return nil, err
	}
	if upper, err = tryBroadcastTo(upper, batchShape, "x2"); err != nil {
		return nil, err
	}
	if !ndops.EqualShapes(lower.Shape(), upper.Shape()) {
		return nil, &ShapeError{Op: op, Expected: ndops.Shape(lower), Actual: ndops.Shape(upper), Msg: "`x1` and `x2` should have the same shape"}
	}

	res, err := piecewiseConstantIntegrate(lower, upper, f.jumpLocations, f.values, f.batchRank, f.kernelOptions())
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return ndops.CastTo(res, f.dtype)
}

func piecewiseConstantIntegrate(x1, x2, jumpLocations, values *tensor.Dense, batchRank int, opts []ndops.Option) (*tensor.Dense, error) {
	normalizer, arrays, batchRank, err := normalizeRank(batchRank, x1, x2, jumpLocations, values)
	if err != nil {
		return nil, err
	}
	x1, x2, jumpLocations, values = arrays[0], arrays[1], arrays[2], arrays[3]

	shapeX := ndops.Shape(x1)
	indexMatrix, err := PrepareIndexMatrix(shapeX[:len(shapeX)-1], shapeX[len(shapeX)-1])
	if err != nil {
		return nil, err
	}

	integrals, err := cumulativeIntegrals(jumpLocations, values, batchRank)
	if err != nil {
		return nil, err
	}

	value1, jumpLocation1, coords1, err := indicesAndValues(x1, indexMatrix, jumpLocations, values, ndops.Left, batchRank, opts)
	if err != nil {
		return nil, err
	}
	value2, jumpLocation2, coords2, err := indicesAndValues(x2, indexMatrix, jumpLocations, values, ndops.Right, batchRank, opts)
	if err != nil {
		return nil, err
	}
	integrals1, err := ndops.GatherND(integrals, coords1, opts...)
	if err != nil {
		return nil, err
	}
	integrals2, err := ndops.GatherND(integrals, coords2, opts...)
	if err != nil {
		return nil, err
	}

	// end points and anchors to batch + [m] + [1] * event rank
	eventRank := len(values.Shape()) - batchRank - 1
	points := []*tensor.Dense{x1, x2, jumpLocation1, jumpLocation2}
	for i := range points {
		for e := 0; e < eventRank; e++ {
			if points[i], err = ndops.ExpandDims(points[i], -1); err != nil {
				return nil, err
			}
		}
	}
	x1, x2, jumpLocation1, jumpLocation2 = points[0], points[1], points[2], points[3]

	// (b1 - x1) * v1 + (x2 - b2) * v2 + I(b2) - I(b1)
	head, err := ndops.Sub(jumpLocation1, x1)
	if err != nil {
		return nil, err
	}
	if head, err = ndops.Mul(head, value1); err != nil {
		return nil, err
	}
	tail, err := ndops.Sub(x2, jumpLocation2)
	if err != nil {
		return nil, err
	}
	if tail, err = ndops.Mul(tail, value2); err != nil {
		return nil, err
	}
	middle, err := ndops.Sub(integrals2, integrals1)
	if err != nil {
		return nil, err
	}
	res, err := ndops.Add(head, tail)
	if err != nil {
		return nil, err
	}
	if res, err = ndops.Add(res, middle); err != nil {
		return nil, err
	}
	return normalizer.restore(res)
}

//cumulativeIntegrals returns an array of shape batch + [n+1] + event whose entry k is the
//integral from the first jump location to jump location k; the last entry is zero padding.
func cumulativeIntegrals(jumpLocations, values *tensor.Dense, batchRank int) (*tensor.Dense, error) {
	shapeValues := ndops.Shape(values)
	batchShape := shapeValues[:batchRank]
	eventShape := shapeValues[batchRank+1:]
	numDataPoints := shapeValues[batchRank]

	if numDataPoints < 3 {
		shape := append(append(append([]int{}, batchShape...), numDataPoints), eventShape...)
		return ndops.Zeros(shape...), nil
	}

	upper, err := ndops.SliceAxis(jumpLocations, batchRank, 1, numDataPoints-1)
	if err != nil {
		return nil, err
	}
	lower, err := ndops.SliceAxis(jumpLocations, batchRank, 0, numDataPoints-2)
	if err != nil {
		return nil, err
	}
	diff, err := ndops.Sub(upper, lower)
	if err != nil {
		return nil, err
	}
	for range eventShape {
		if diff, err = ndops.ExpandDims(diff, -1); err != nil {
			return nil, err
		}
	}

	interior, err := ndops.SliceAxis(values, batchRank, 1, numDataPoints-1)
	if err != nil {
		return nil, err
	}
	masses, err := ndops.Mul(interior, diff)
	if err != nil {
		return nil, err
	}
	integrals, err := ndops.CumSum(masses, batchRank)
	if err != nil {
		return nil, err
	}

	zeros := ndops.Zeros(append(append(append([]int{}, batchShape...), 1), eventShape...)...)
	return ndops.Concat(batchRank, zeros, integrals, zeros)
}

//indicesAndValues locates x among the jump locations. It returns the value of the function at x,
//the nearest jump location on the side chosen by side and the gather coordinates of that jump.
//Left is used for lower end points (anchor to the right of x), Right for upper end points
//(anchor to the left of x).
func indicesAndValues(x, indexMatrix, jumpLocations, values *tensor.Dense, side ndops.Side, batchRank int, opts []ndops.Option) (value, jumpLocation, jumpCoords *tensor.Dense, err error) {
	indices, err := ndops.SearchSorted(jumpLocations, x, side, opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	lastJump := values.Shape()[batchRank] - 2

	var jumpIndices *tensor.Dense
	if side == ndops.Right {
		jumpIndices = ndops.MaximumScalarInt(ndops.AddScalarInt(indices, -1), 0)
	} else {
		jumpIndices = ndops.MinimumScalarInt(indices, lastJump)
	}

	coords, err := gatherCoordinates(indexMatrix, indices)
	if err != nil {
		return nil, nil, nil, err
	}
	if jumpCoords, err = gatherCoordinates(indexMatrix, jumpIndices); err != nil {
		return nil, nil, nil, err
	}
	if value, err = ndops.GatherND(values, coords, opts...); err != nil {
		return nil, nil, nil, err
	}
	if jumpLocation, err = ndops.GatherND(jumpLocations, jumpCoords, opts...); err != nil {
		return nil, nil, nil, err
	}
	return value, jumpLocation, jumpCoords, nil
}
