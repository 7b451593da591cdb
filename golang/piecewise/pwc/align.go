package pwc

import (
	"gorgonia.org/tensor"

	"github.com/tarstars/piecewise_constant/golang/piecewise/ndops"
)

//tryBroadcastTo broadcasts the batch shape of x (all axes but the last) to batchShape.
func tryBroadcastTo(x *tensor.Dense, batchShape []int, name string) (*tensor.Dense, error) {
	shapeX := ndops.Shape(x)
	batchShapeX := shapeX[:len(shapeX)-1]
	if ndops.EqualShapes(batchShapeX, batchShape) {
		return x, nil
	}
	if !ndops.CanBroadcastTo(batchShapeX, batchShape) {
		return nil, &ShapeError{
			Op:       "broadcast " + name,
			Expected: append([]int{}, batchShape...),
			Actual:   append([]int{}, batchShapeX...),
			Msg:      "batch shape of `" + name + "` should be broadcastable with the batch shape of the function",
		}
	}
	target := append(append([]int{}, batchShape...), shapeX[len(shapeX)-1])
	return ndops.BroadcastTo(x, target)
}
