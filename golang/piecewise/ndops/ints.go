package ndops

import "gorgonia.org/tensor"

func mapInts(t *tensor.Dense, fn func(v int) int) *tensor.Dense {
	src := Ints(t)
	out := make([]int, len(src))
	for i, v := range src {
		out[i] = fn(v)
	}
	return FromInts(out, Shape(t)...)
}

//AddScalarInt returns t + c for an int array.
func AddScalarInt(t *tensor.Dense, c int) *tensor.Dense {
	return mapInts(t, func(v int) int { return v + c })
}

//MinimumScalarInt returns min(t, c) elementwise for an int array.
func MinimumScalarInt(t *tensor.Dense, c int) *tensor.Dense {
	return mapInts(t, func(v int) int {
		if v < c {
			return v
		}
		return c
	})
}

//MaximumScalarInt returns max(t, c) elementwise for an int array.
func MaximumScalarInt(t *tensor.Dense, c int) *tensor.Dense {
	return mapInts(t, func(v int) int {
		if v > c {
			return v
		}
		return c
	})
}

//MinimumInts returns the elementwise minimum of two int arrays of the same shape.
func MinimumInts(a, b *tensor.Dense) (*tensor.Dense, error) {
	if !EqualShapes(a.Shape(), b.Shape()) {
		return nil, shapeErrorf("minimum", Shape(a), Shape(b), "operands must have the same shape")
	}
	aData, bData := Ints(a), Ints(b)
	out := make([]int, len(aData))
	for i := range out {
		out[i] = aData[i]
		if bData[i] < out[i] {
			out[i] = bData[i]
		}
	}
	return FromInts(out, Shape(a)...), nil
}
