package ndops

import (
	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"
)

func normalizeAxis(op string, axis, rank int) (int, error) {
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return 0, valueErrorf(op, "axis %d is out of range for rank %d", axis, rank)
	}
	return axis, nil
}

//splitAt returns the number of outer rows, the axis length and the inner block size of shape around axis.
func splitAt(shape []int, axis int) (outer, length, inner int) {
	return Size(shape[:axis]), shape[axis], Size(shape[axis+1:])
}

//ExpandDims inserts a dimension of size 1 at axis; axis may be rank(t) or -1 to append.
func ExpandDims(t *tensor.Dense, axis int) (*tensor.Dense, error) {
	shape := Shape(t)
	if axis < 0 {
		axis += len(shape) + 1
	}
	if axis < 0 || axis > len(shape) {
		return nil, valueErrorf("expand_dims", "axis %d is out of range for rank %d", axis, len(shape))
	}
	return reshaped("expand_dims", t, concatShapes(shape[:axis], []int{1}, shape[axis:]))
}

//Squeeze removes the dimension at axis, which must have size 1.
func Squeeze(t *tensor.Dense, axis int) (*tensor.Dense, error) {
	shape := Shape(t)
	axis, err := normalizeAxis("squeeze", axis, len(shape))
	if err != nil {
		return nil, err
	}
	if shape[axis] != 1 {
		return nil, shapeErrorf("squeeze", nil, shape, "dimension %d should have size 1", axis)
	}
	if len(shape) == 1 {
		return nil, shapeErrorf("squeeze", nil, shape, "rank 0 arrays are not supported")
	}
	return reshaped("squeeze", t, concatShapes(shape[:axis], shape[axis+1:]))
}

//reshaped returns a copy of t under a new shape of the same size; t keeps its shape.
func reshaped(op string, t *tensor.Dense, shape []int) (*tensor.Dense, error) {
	var res *tensor.Dense
	if t.IsMaterializable() {
		res = t.Materialize().(*tensor.Dense)
	} else {
		res = t.Clone().(*tensor.Dense)
	}
	if err := res.Reshape(shape...); err != nil {
		return nil, shapeErrorf(op, shape, Shape(t), "cannot reshape")
	}
	return res, nil
}

//SliceAxis copies the range [start, end) of axis into a new array.
func SliceAxis(t *tensor.Dense, axis, start, end int) (*tensor.Dense, error) {
	shape := Shape(t)
	axis, err := normalizeAxis("slice", axis, len(shape))
	if err != nil {
		return nil, err
	}
	if start < 0 || end > shape[axis] || start >= end {
		return nil, shapeErrorf("slice", nil, shape, "range [%d, %d) is invalid for axis %d", start, end, axis)
	}

	slices := make([]tensor.Slice, axis+1)
	slices[axis] = tensor.S(start, end, 1)
	view, err := t.Slice(slices...)
	if err != nil {
		return nil, shapeErrorf("slice", nil, shape, "range [%d, %d) of axis %d: %v", start, end, axis, err)
	}
	// gorgonia drops sliced axes of size 1 and returns scalars for single elements
	res := view.Materialize().(*tensor.Dense)
	shape[axis] = end - start
	if err := res.Reshape(shape...); err != nil {
		return nil, shapeErrorf("slice", shape, Shape(res), "cannot restore the sliced shape")
	}
	return res, nil
}

//CumSum returns the running sum of a float64 array along axis.
func CumSum(t *tensor.Dense, axis int) (*tensor.Dense, error) {
	shape := Shape(t)
	axis, err := normalizeAxis("cumsum", axis, len(shape))
	if err != nil {
		return nil, err
	}
	outer, length, inner := splitAt(shape, axis)
	src := Float64s(t)
	out := make([]float64, len(src))
	if inner == 1 {
		for o := 0; o < outer; o++ {
			floats.CumSum(out[o*length:(o+1)*length], src[o*length:(o+1)*length])
		}
		return FromFloat64s(out, shape...), nil
	}
	for o := 0; o < outer; o++ {
		base := o * length * inner
		copy(out[base:base+inner], src[base:base+inner])
		for i := 1; i < length; i++ {
			row := base + i*inner
			floats.AddTo(out[row:row+inner], out[row-inner:row], src[row:row+inner])
		}
	}
	return FromFloat64s(out, shape...), nil
}

//Concat joins arrays of the same dtype along axis.
//All other dimensions of the inputs must agree.
func Concat(axis int, ts ...*tensor.Dense) (*tensor.Dense, error) {
	if len(ts) == 0 {
		return nil, valueErrorf("concat", "nothing to concatenate")
	}
	first := Shape(ts[0])
	axis, err := normalizeAxis("concat", axis, len(first))
	if err != nil {
		return nil, err
	}

	operands := make([]*tensor.Dense, len(ts))
	for i, t := range ts {
		shape := Shape(t)
		if t.Dtype() != ts[0].Dtype() {
			return nil, valueErrorf("concat", "dtypes %v and %v differ", ts[0].Dtype(), t.Dtype())
		}
		if len(shape) != len(first) {
			return nil, shapeErrorf("concat", first, shape, "ranks differ")
		}
		for d := range shape {
			if d != axis && shape[d] != first[d] {
				return nil, shapeErrorf("concat", first, shape, "dimension %d differs", d)
			}
		}
		operands[i] = t
		// gorgonia reshapes row vector operands in place when joining along axis 0
		if axis == 0 && t.IsRowVec() {
			operands[i] = t.Clone().(*tensor.Dense)
		}
	}

	res, err := operands[0].Concat(axis, operands[1:]...)
	if err != nil {
		return nil, shapeErrorf("concat", nil, first, "%v", err)
	}
	return res, nil
}
