package ndops

import "gorgonia.org/tensor"

//BroadcastShapes returns the NumPy broadcast of two shapes.
func BroadcastShapes(a, b []int) ([]int, error) {
	outRank := len(a)
	if len(b) > outRank {
		outRank = len(b)
	}

	out := make([]int, outRank)
	for i := 0; i < outRank; i++ {
		ad := 1
		if j := i - (outRank - len(a)); j >= 0 {
			ad = a[j]
		}
		bd := 1
		if j := i - (outRank - len(b)); j >= 0 {
			bd = b[j]
		}

		switch {
		case ad == bd || ad == 1:
			out[i] = bd
		case bd == 1:
			out[i] = ad
		default:
			return nil, shapeErrorf("broadcast", a, b, "cannot broadcast shapes")
		}
	}
	return out, nil
}

//CanBroadcastTo reports whether an array of shape src can be broadcast to exactly target.
func CanBroadcastTo(src, target []int) bool {
	if len(src) > len(target) {
		return false
	}
	pad := len(target) - len(src)
	for i, dim := range src {
		if dim != 1 && dim != target[pad+i] {
			return false
		}
	}
	return true
}

//broadcastOffsets maps every element of the target shape to the flat offset of the
//element of src it is broadcast from.
func broadcastOffsets(src, target []int) []int {
	pad := len(target) - len(src)
	srcStrides := strides(src)
	offsets := make([]int, Size(target))
	coord := make([]int, len(target))
	for flat := range offsets {
		off := 0
		for d := pad; d < len(target); d++ {
			if src[d-pad] != 1 {
				off += coord[d] * srcStrides[d-pad]
			}
		}
		offsets[flat] = off

		for d := len(target) - 1; d >= 0; d-- {
			coord[d]++
			if coord[d] < target[d] {
				break
			}
			coord[d] = 0
		}
	}
	return offsets
}

//BroadcastTo materializes t broadcast to shape.
func BroadcastTo(t *tensor.Dense, shape []int) (*tensor.Dense, error) {
	src := Shape(t)
	if !CanBroadcastTo(src, shape) {
		return nil, shapeErrorf("broadcast_to", shape, src, "cannot broadcast array")
	}
	offsets := broadcastOffsets(src, shape)
	if t.Dtype() == tensor.Int {
		data := Ints(t)
		out := make([]int, len(offsets))
		for i, off := range offsets {
			out[i] = data[off]
		}
		return FromInts(out, shape...), nil
	}
	data := Float64s(t)
	out := make([]float64, len(offsets))
	for i, off := range offsets {
		out[i] = data[off]
	}
	return FromFloat64s(out, shape...), nil
}

func broadcastBinary(op string, a, b *tensor.Dense, fn func(x, y float64) float64) (*tensor.Dense, error) {
	aShape, bShape := Shape(a), Shape(b)
	outShape, err := BroadcastShapes(aShape, bShape)
	if err != nil {
		return nil, shapeErrorf(op, aShape, bShape, "operands are not broadcastable")
	}
	aOff := broadcastOffsets(aShape, outShape)
	bOff := broadcastOffsets(bShape, outShape)
	aData, bData := Float64s(a), Float64s(b)
	out := make([]float64, Size(outShape))
	for i := range out {
		out[i] = fn(aData[aOff[i]], bData[bOff[i]])
	}
	return FromFloat64s(out, outShape...), nil
}

//sameShape applies a gorgonia elementwise op to operands of equal shapes; gorgonia does not broadcast.
func sameShape(op string, fn func(a, b interface{}, opts ...tensor.FuncOpt) (tensor.Tensor, error), a, b *tensor.Dense) (*tensor.Dense, error) {
	res, err := fn(a, b)
	if err != nil {
		return nil, shapeErrorf(op, Shape(a), Shape(b), "%v", err)
	}
	return res.(*tensor.Dense), nil
}

//Add returns a + b with broadcasting.
func Add(a, b *tensor.Dense) (*tensor.Dense, error) {
	if EqualShapes(a.Shape(), b.Shape()) {
		return sameShape("add", tensor.Add, a, b)
	}
	return broadcastBinary("add", a, b, func(x, y float64) float64 { return x + y })
}

//Sub returns a - b with broadcasting.
func Sub(a, b *tensor.Dense) (*tensor.Dense, error) {
	if EqualShapes(a.Shape(), b.Shape()) {
		return sameShape("sub", tensor.Sub, a, b)
	}
	return broadcastBinary("sub", a, b, func(x, y float64) float64 { return x - y })
}

//Mul returns the elementwise product a * b with broadcasting.
func Mul(a, b *tensor.Dense) (*tensor.Dense, error) {
	if EqualShapes(a.Shape(), b.Shape()) {
		return sameShape("mul", tensor.Mul, a, b)
	}
	return broadcastBinary("mul", a, b, func(x, y float64) float64 { return x * y })
}

//Greater returns an int array holding 1 where a > b and 0 elsewhere, with broadcasting.
func Greater(a, b *tensor.Dense) (*tensor.Dense, error) {
	res, err := broadcastBinary("greater", a, b, func(x, y float64) float64 {
		if x > y {
			return 1
		}
		return 0
	})
	if err != nil {
		return nil, err
	}
	src := Float64s(res)
	out := make([]int, len(src))
	for i, v := range src {
		out[i] = int(v)
	}
	return FromInts(out, Shape(res)...), nil
}
