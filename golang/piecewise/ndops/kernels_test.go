package ndops

import (
	"errors"
	"testing"

	"gorgonia.org/tensor"
)

func TestSearchSortedSides(t *testing.T) {
	sorted := FromFloat64s([]float64{0.25, 0.5, 1.0, 2.0, 3.0}, 5)
	queries := FromFloat64s([]float64{0.25, 3.0, 5.0, 0.0, 0.5, 0.8}, 6)

	left, err := SearchSorted(sorted, queries, Left)
	if err != nil {
		t.Fatalf("search left: %v", err)
	}
	if want := []int{0, 4, 5, 0, 1, 2}; !equalInts(Ints(left), want) {
		t.Fatalf("left = %v, want %v", Ints(left), want)
	}

	right, err := SearchSorted(sorted, queries, Right)
	if err != nil {
		t.Fatalf("search right: %v", err)
	}
	if want := []int{1, 5, 5, 0, 2, 2}; !equalInts(Ints(right), want) {
		t.Fatalf("right = %v, want %v", Ints(right), want)
	}
}

func TestParseSide(t *testing.T) {
	for name, want := range map[string]Side{"left": Left, "right": Right} {
		side, err := ParseSide(name)
		if err != nil || side != want || side.String() != name {
			t.Fatalf("ParseSide(%q) = %v, %v", name, side, err)
		}
	}
	var valueErr *ValueError
	if _, err := ParseSide("middle"); !errors.As(err, &valueErr) {
		t.Fatalf("expected ValueError, got %v", err)
	}
}

func TestSearchSortedBatchedParallel(t *testing.T) {
	rows, n, m := 7, 3, 2
	sortedData := make([]float64, 0, rows*n)
	queryData := make([]float64, 0, rows*m)
	for r := 0; r < rows; r++ {
		base := float64(r)
		sortedData = append(sortedData, base, base+1, base+2)
		queryData = append(queryData, base+0.5, base+2)
	}
	sorted := FromFloat64s(sortedData, rows, n)
	queries := FromFloat64s(queryData, rows, m)

	serial, err := SearchSorted(sorted, queries, Right)
	if err != nil {
		t.Fatalf("serial search: %v", err)
	}
	parallel, err := SearchSorted(sorted, queries, Right, WithThreadsNum(3))
	if err != nil {
		t.Fatalf("parallel search: %v", err)
	}
	if !equalInts(Ints(serial), Ints(parallel)) {
		t.Fatalf("serial %v differs from parallel %v", Ints(serial), Ints(parallel))
	}
	for r := 0; r < rows; r++ {
		if got := Ints(serial)[r*m : (r+1)*m]; !equalInts(got, []int{1, 3}) {
			t.Fatalf("row %d = %v, want [1 3]", r, got)
		}
	}
}

func TestSearchSortedRejectsMismatchedBatch(t *testing.T) {
	sorted := FromFloat64s([]float64{1, 2, 3, 4}, 2, 2)
	queries := FromFloat64s([]float64{1, 2, 3}, 3, 1)
	_, err := SearchSorted(sorted, queries, Left)
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}

	_, err = SearchSorted(sorted, FromFloat64s([]float64{1, 2}, 2, 1), Side(7))
	var valueErr *ValueError
	if !errors.As(err, &valueErr) {
		t.Fatalf("expected ValueError, got %v", err)
	}
}

func TestGatherND(t *testing.T) {
	params := FromFloat64s([]float64{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}, 2, 3, 2)
	indices := FromInts([]int{0, 2, 1, 0, 1, 1}, 3, 2)

	res, err := GatherND(params, indices, WithThreadsNum(2))
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if !equalInts(Shape(res), []int{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", Shape(res))
	}
	if want := []float64{5, 6, 7, 8, 9, 10}; !equalFloats(Float64s(res), want) {
		t.Fatalf("gather = %v, want %v", Float64s(res), want)
	}

	if _, err := GatherND(params, FromInts([]int{2, 0}, 1, 2)); err == nil {
		t.Fatalf("expected an out of range error")
	}
}

func TestCumSumAlongAxes(t *testing.T) {
	src := FromFloat64s([]float64{1, 2, 3, 4, 5, 6}, 2, 3)

	rows, err := CumSum(src, 1)
	if err != nil {
		t.Fatalf("cumsum axis 1: %v", err)
	}
	if want := []float64{1, 3, 6, 4, 9, 15}; !equalFloats(Float64s(rows), want) {
		t.Fatalf("cumsum axis 1 = %v, want %v", Float64s(rows), want)
	}

	cols, err := CumSum(src, 0)
	if err != nil {
		t.Fatalf("cumsum axis 0: %v", err)
	}
	if want := []float64{1, 2, 3, 5, 7, 9}; !equalFloats(Float64s(cols), want) {
		t.Fatalf("cumsum axis 0 = %v, want %v", Float64s(cols), want)
	}
}

func TestSliceConcatExpandSqueeze(t *testing.T) {
	src := FromFloat64s([]float64{1, 2, 3, 4, 5, 6}, 2, 3)

	mid, err := SliceAxis(src, 1, 1, 3)
	if err != nil {
		t.Fatalf("slice: %v", err)
	}
	if want := []float64{2, 3, 5, 6}; !equalFloats(Float64s(mid), want) {
		t.Fatalf("slice = %v, want %v", Float64s(mid), want)
	}

	joined, err := Concat(1, Zeros(2, 1), mid, Zeros(2, 1))
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	if want := []float64{0, 2, 3, 0, 0, 5, 6, 0}; !equalFloats(Float64s(joined), want) {
		t.Fatalf("concat = %v, want %v", Float64s(joined), want)
	}

	ints, err := Concat(-1, FromInts([]int{0, 1}, 2, 1), FromInts([]int{7, 8}, 2, 1))
	if err != nil {
		t.Fatalf("concat ints: %v", err)
	}
	if ints.Dtype() != tensor.Int || !equalInts(Ints(ints), []int{0, 7, 1, 8}) {
		t.Fatalf("concat ints = %v", Ints(ints))
	}

	expanded, err := ExpandDims(src, 0)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !equalInts(Shape(expanded), []int{1, 2, 3}) {
		t.Fatalf("expanded shape = %v", Shape(expanded))
	}
	squeezed, err := Squeeze(expanded, 0)
	if err != nil {
		t.Fatalf("squeeze: %v", err)
	}
	if !equalInts(Shape(squeezed), []int{2, 3}) {
		t.Fatalf("squeezed shape = %v", Shape(squeezed))
	}
	if _, err := Squeeze(src, 0); err == nil {
		t.Fatalf("expected an error squeezing a dimension of size 2")
	}
}

func TestIntHelpers(t *testing.T) {
	idx := FromInts([]int{-1, 0, 3, 5}, 4)
	if got := Ints(MaximumScalarInt(AddScalarInt(idx, -1), 0)); !equalInts(got, []int{0, 0, 2, 4}) {
		t.Fatalf("maximum = %v", got)
	}
	if got := Ints(MinimumScalarInt(idx, 3)); !equalInts(got, []int{-1, 0, 3, 3}) {
		t.Fatalf("minimum scalar = %v", got)
	}
	low, err := MinimumInts(idx, FromInts([]int{0, 0, 0, 9}, 4))
	if err != nil {
		t.Fatalf("minimum: %v", err)
	}
	if !equalInts(Ints(low), []int{-1, 0, 0, 5}) {
		t.Fatalf("minimum = %v", Ints(low))
	}
}

func TestSliceKeepsUnitAxes(t *testing.T) {
	vector := FromFloat64s([]float64{0.25, 0.5, 1, 2, 3}, 5)
	last, err := SliceAxis(vector, 0, 4, 5)
	if err != nil {
		t.Fatalf("slice: %v", err)
	}
	if !equalInts(Shape(last), []int{1}) || !equalFloats(Float64s(last), []float64{3}) {
		t.Fatalf("slice = %v of shape %v", Float64s(last), Shape(last))
	}

	src := FromFloat64s([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, 2, 3, 2)
	column, err := SliceAxis(src, 1, 2, 3)
	if err != nil {
		t.Fatalf("slice: %v", err)
	}
	if !equalInts(Shape(column), []int{2, 1, 2}) {
		t.Fatalf("shape = %v, want [2 1 2]", Shape(column))
	}
	if want := []float64{5, 6, 11, 12}; !equalFloats(Float64s(column), want) {
		t.Fatalf("slice = %v, want %v", Float64s(column), want)
	}

	ints, err := SliceAxis(FromInts([]int{1, 2, 3, 4}, 2, 2), -1, 0, 1)
	if err != nil {
		t.Fatalf("slice ints: %v", err)
	}
	if ints.Dtype() != tensor.Int || !equalInts(Shape(ints), []int{2, 1}) || !equalInts(Ints(ints), []int{1, 3}) {
		t.Fatalf("slice ints = %v of shape %v", Ints(ints), Shape(ints))
	}
}

func TestReshapesAndConcatCopy(t *testing.T) {
	src := FromFloat64s([]float64{1, 2, 3}, 1, 3)
	expanded, err := ExpandDims(src, -1)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !equalInts(Shape(src), []int{1, 3}) || !equalInts(Shape(expanded), []int{1, 3, 1}) {
		t.Fatalf("shapes = %v and %v", Shape(src), Shape(expanded))
	}
	Float64s(expanded)[0] = 100
	if Float64s(src)[0] != 1 {
		t.Fatalf("expand dims shares data with its input")
	}

	joined, err := Concat(0, src, FromFloat64s([]float64{4, 5, 6}, 1, 3))
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	if !equalInts(Shape(src), []int{1, 3}) {
		t.Fatalf("concat changed the input shape to %v", Shape(src))
	}
	if !equalInts(Shape(joined), []int{2, 3}) || !equalFloats(Float64s(joined), []float64{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("concat = %v of shape %v", Float64s(joined), Shape(joined))
	}

	vectors, err := Concat(0, FromFloat64s([]float64{1}, 1), FromFloat64s([]float64{2, 3}, 2))
	if err != nil {
		t.Fatalf("concat vectors: %v", err)
	}
	if !equalInts(Shape(vectors), []int{3}) || !equalFloats(Float64s(vectors), []float64{1, 2, 3}) {
		t.Fatalf("concat vectors = %v of shape %v", Float64s(vectors), Shape(vectors))
	}

	var shapeErr *ShapeError
	if _, err := Concat(1, src, FromFloat64s([]float64{1, 2}, 2, 1)); !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
}
