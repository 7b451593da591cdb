package ndops

import (
	"reflect"

	"gorgonia.org/tensor"
)

//Shape returns a copy of the shape of t.
func Shape(t *tensor.Dense) []int {
	return cloneShape(t.Shape())
}

//Size returns the number of elements of an array with the given shape.
func Size(shape []int) int {
	size := 1
	for _, dim := range shape {
		size *= dim
	}
	return size
}

//EqualShapes reports whether two shapes have the same rank and dimensions.
func EqualShapes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneShape(s []int) []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s))
	copy(out, s)
	return out
}

func concatShapes(shapes ...[]int) []int {
	out := make([]int, 0)
	for _, s := range shapes {
		out = append(out, s...)
	}
	return out
}

//strides returns row-major strides for the shape.
func strides(shape []int) []int {
	out := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		out[i] = acc
		acc *= shape[i]
	}
	return out
}

//Float64s returns the backing data of a float64 array. The result must be treated as read-only.
func Float64s(t *tensor.Dense) []float64 {
	switch data := t.Data().(type) {
	case []float64:
		return data
	case float64:
		return []float64{data}
	}
	return nil
}

//Ints returns the backing data of an int array. The result must be treated as read-only.
func Ints(t *tensor.Dense) []int {
	switch data := t.Data().(type) {
	case []int:
		return data
	case int:
		return []int{data}
	}
	return nil
}

//FromFloat64s wraps data into a float64 array of the given shape without copying.
func FromFloat64s(data []float64, shape ...int) *tensor.Dense {
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data))
}

//FromInts wraps data into an int array of the given shape without copying.
func FromInts(data []int, shape ...int) *tensor.Dense {
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data))
}

//Zeros allocates a float64 array filled with zeros.
func Zeros(shape ...int) *tensor.Dense {
	return FromFloat64s(make([]float64, Size(shape)), shape...)
}

//Convert materializes value into a new float64 array.
//It accepts *tensor.Dense of a numeric dtype and (nested) Go slices of float64, float32 or int.
//Scalars, ragged slices and arrays with a zero-size dimension are rejected.
func Convert(value interface{}) (*tensor.Dense, error) {
	if t, ok := value.(*tensor.Dense); ok {
		return convertDense(t)
	}

	shape, err := nestedShape(reflect.ValueOf(value))
	if err != nil {
		return nil, err
	}
	if err := validateShape("convert", shape); err != nil {
		return nil, err
	}
	data := make([]float64, 0, Size(shape))
	data, err = flattenNested(reflect.ValueOf(value), shape, data)
	if err != nil {
		return nil, err
	}
	return FromFloat64s(data, shape...), nil
}

func convertDense(t *tensor.Dense) (*tensor.Dense, error) {
	if t == nil {
		return nil, valueErrorf("convert", "nil array")
	}
	if t.IsView() {
		t = t.Materialize().(*tensor.Dense)
	}
	shape := Shape(t)
	if err := validateShape("convert", shape); err != nil {
		return nil, err
	}
	data := make([]float64, Size(shape))
	switch src := t.Data().(type) {
	case []float64:
		copy(data, src)
	case []float32:
		for i, v := range src {
			data[i] = float64(v)
		}
	case []int:
		for i, v := range src {
			data[i] = float64(v)
		}
	case []int64:
		for i, v := range src {
			data[i] = float64(v)
		}
	case []int32:
		for i, v := range src {
			data[i] = float64(v)
		}
	case float64:
		data[0] = src
	case float32:
		data[0] = float64(src)
	default:
		return nil, valueErrorf("convert", "unsupported dtype %v", t.Dtype())
	}
	return FromFloat64s(data, shape...), nil
}

//CastTo converts a float64 array into dtype. Only tensor.Float64 and tensor.Float32 are supported.
func CastTo(t *tensor.Dense, dtype tensor.Dtype) (*tensor.Dense, error) {
	switch dtype {
	case tensor.Float64:
		return t, nil
	case tensor.Float32:
		src := Float64s(t)
		data := make([]float32, len(src))
		for i, v := range src {
			data[i] = float32(v)
		}
		return tensor.New(tensor.WithShape(Shape(t)...), tensor.WithBacking(data)), nil
	}
	return nil, valueErrorf("cast", "unsupported dtype %v", dtype)
}

func validateShape(op string, shape []int) error {
	if len(shape) == 0 {
		return shapeErrorf(op, nil, nil, "rank 0 arrays are not supported")
	}
	for _, dim := range shape {
		if dim <= 0 {
			return shapeErrorf(op, nil, nil, "zero-size dimensions are not supported, got shape %v", shape)
		}
	}
	return nil
}

func nestedShape(v reflect.Value) ([]int, error) {
	shape := make([]int, 0)
	for v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		shape = append(shape, v.Len())
		if v.Len() == 0 {
			return shape, nil
		}
		v = v.Index(0)
		for v.Kind() == reflect.Interface {
			v = v.Elem()
		}
	}
	if !isNumber(v.Kind()) {
		return nil, valueErrorf("convert", "unsupported element kind %v", v.Kind())
	}
	return shape, nil
}

func flattenNested(v reflect.Value, shape []int, data []float64) ([]float64, error) {
	for v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if len(shape) == 0 {
		if !isNumber(v.Kind()) {
			return nil, valueErrorf("convert", "unsupported element kind %v", v.Kind())
		}
		return append(data, numberOf(v)), nil
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array || v.Len() != shape[0] {
		return nil, shapeErrorf("convert", nil, nil, "ragged nested slice")
	}
	var err error
	for i := 0; i < v.Len(); i++ {
		data, err = flattenNested(v.Index(i), shape[1:], data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

func isNumber(kind reflect.Kind) bool {
	switch kind {
	case reflect.Float64, reflect.Float32,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func numberOf(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float64, reflect.Float32:
		return v.Float()
	}
	return float64(v.Int())
}
