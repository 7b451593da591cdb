package ndops

import (
	"errors"
	"strings"
	"testing"

	"gorgonia.org/tensor"
)

func TestConvertNestedSlices(t *testing.T) {
	res, err := Convert([][][]float64{{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}, {{9, 10}, {11, 12}}})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !equalInts(Shape(res), []int{3, 2, 2}) {
		t.Fatalf("shape = %v, want [3 2 2]", Shape(res))
	}
	if got := Float64s(res); got[0] != 1 || got[11] != 12 {
		t.Fatalf("unexpected data %v", got)
	}

	ints, err := Convert([]int{3, 4, 5})
	if err != nil {
		t.Fatalf("convert ints: %v", err)
	}
	if !equalFloats(Float64s(ints), []float64{3, 4, 5}) {
		t.Fatalf("data = %v", Float64s(ints))
	}

	mixed, err := Convert([]interface{}{0.5, 1, float32(2)})
	if err != nil {
		t.Fatalf("convert interfaces: %v", err)
	}
	if !equalFloats(Float64s(mixed), []float64{0.5, 1, 2}) {
		t.Fatalf("data = %v", Float64s(mixed))
	}
}

func TestConvertRejectsInvalidInput(t *testing.T) {
	var shapeErr *ShapeError
	if _, err := Convert([][]float64{{1, 2}, {3}}); !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError for ragged input, got %v", err)
	}
	if _, err := Convert(1.5); !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError for a scalar, got %v", err)
	}
	if _, err := Convert([]float64{}); !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError for an empty slice, got %v", err)
	}
	var valueErr *ValueError
	if _, err := Convert([]string{"a"}); !errors.As(err, &valueErr) {
		t.Fatalf("expected ValueError for strings, got %v", err)
	}
}

func TestConvertDenseCopiesData(t *testing.T) {
	backing := []float32{1, 2, 3, 4}
	src := tensor.New(tensor.WithShape(2, 2), tensor.WithBacking(backing))
	res, err := Convert(src)
	if err != nil {
		t.Fatalf("convert dense: %v", err)
	}
	backing[0] = 100
	if got := Float64s(res); got[0] != 1 || got[3] != 4 {
		t.Fatalf("converted data = %v", got)
	}

	cast, err := CastTo(res, tensor.Float32)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if cast.Dtype() != tensor.Float32 {
		t.Fatalf("dtype = %v, want float32", cast.Dtype())
	}
}

func TestZeroSizeErrorQuotesTheShape(t *testing.T) {
	_, err := Convert([][]float64{{}, {}})
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
	if shapeErr.Expected != nil || !strings.Contains(err.Error(), "[2 0]") || strings.Contains(err.Error(), "expected") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
