package ndops

import (
	"sort"

	"gorgonia.org/tensor"
)

//Side selects the tie-break of SearchSorted at exact matches.
type Side int

const (
	//Left returns the first insertion point, i.e. the number of boundaries < q.
	Left Side = iota
	//Right returns the last insertion point, i.e. the number of boundaries <= q.
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

//ParseSide converts "left" or "right" into a Side.
func ParseSide(side string) (Side, error) {
	switch side {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Left, valueErrorf("searchsorted", "side should be either 'left' or 'right' but is %q", side)
}

//SearchSorted finds insertion points of queries into sorted, row by row.
//sorted has shape batch + [n] and queries batch + [m] with the same batch; the
//result is an int array of the shape of queries with values in [0, n].
func SearchSorted(sorted, queries *tensor.Dense, side Side, opts ...Option) (*tensor.Dense, error) {
	if side != Left && side != Right {
		return nil, valueErrorf("searchsorted", "unsupported side %d", int(side))
	}
	sortedShape, queryShape := Shape(sorted), Shape(queries)
	if len(sortedShape) == 0 || len(queryShape) == 0 {
		return nil, shapeErrorf("searchsorted", sortedShape, queryShape, "arrays should have a trailing axis")
	}
	batch := sortedShape[:len(sortedShape)-1]
	if !EqualShapes(batch, queryShape[:len(queryShape)-1]) {
		return nil, shapeErrorf("searchsorted", batch, queryShape[:len(queryShape)-1], "batch shapes of sorted values and queries differ")
	}

	n := sortedShape[len(sortedShape)-1]
	m := queryShape[len(queryShape)-1]
	rows := Size(batch)
	sortedData, queryData := Float64s(sorted), Float64s(queries)
	out := make([]int, rows*m)

	err := parallelRows(rows, collectOptions(opts), func(lo, hi int) error {
		for row := lo; row < hi; row++ {
			boundaries := sortedData[row*n : (row+1)*n]
			for l := 0; l < m; l++ {
				q := queryData[row*m+l]
				if side == Left {
					out[row*m+l] = sort.Search(n, func(i int) bool { return boundaries[i] >= q })
				} else {
					out[row*m+l] = sort.Search(n, func(i int) bool { return boundaries[i] > q })
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromInts(out, queryShape...), nil
}
