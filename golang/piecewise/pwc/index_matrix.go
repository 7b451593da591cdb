package pwc

import (
	"gorgonia.org/tensor"

	"github.com/tarstars/piecewise_constant/golang/piecewise/ndops"
)

//PrepareIndexMatrix builds the int array of shape batchShape + [numPoints] + [len(batchShape)]
//whose entry at [j1, ..., jk, l] is the coordinate vector [j1, ..., jk].
//Concatenated with interval indices it forms the coordinates for ndops.GatherND.
//An empty batch shape has to be promoted to [1] by the caller.
func PrepareIndexMatrix(batchShape []int, numPoints int) (*tensor.Dense, error) {
	batchRank := len(batchShape)
	if batchRank == 0 {
		return nil, &ShapeError{Op: "index matrix", Msg: "batch shape should have at least one dimension"}
	}
	if numPoints <= 0 {
		return nil, &ShapeError{Op: "index matrix", Msg: "the number of points should be positive"}
	}

	rows := ndops.Size(batchShape)
	data := make([]int, rows*numPoints*batchRank)
	coord := make([]int, batchRank)
	pos := 0
	for row := 0; row < rows; row++ {
		for l := 0; l < numPoints; l++ {
			pos += copy(data[pos:pos+batchRank], coord)
		}
		for d := batchRank - 1; d >= 0; d-- {
			coord[d]++
			if coord[d] < batchShape[d] {
				break
			}
			coord[d] = 0
		}
	}

	shape := append(append([]int{}, batchShape...), numPoints, batchRank)
	return ndops.FromInts(data, shape...), nil
}

//gatherCoordinates joins the index matrix with interval indices of shape batch + [m]
//into gather coordinates of shape batch + [m] + [k+1].
func gatherCoordinates(indexMatrix, indices *tensor.Dense) (*tensor.Dense, error) {
	expanded, err := ndops.ExpandDims(indices, -1)
	if err != nil {
		return nil, err
	}
	return ndops.Concat(-1, indexMatrix, expanded)
}
