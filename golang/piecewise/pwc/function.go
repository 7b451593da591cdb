package pwc

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/tarstars/piecewise_constant/golang/piecewise/ndops"
)

const defaultName = "PiecewiseConstantFunc"

//PiecewiseConstantFunc is a batch of piecewise constant functions.
//
//jump locations of shape batch + [n] split the real line into the segments
//(-inf, b[0]), (b[0], b[1]), ..., (b[n-1], inf) and values of shape batch + [n+1] + event
//hold the value of every segment. The function is immutable; all methods are safe for
//concurrent use.
type PiecewiseConstantFunc struct {
	name          string
	jumpLocations *tensor.Dense
	values        *tensor.Dense
	batchRank     int
	dtype         tensor.Dtype
	threadsNum    int
}

//FuncOption configures a PiecewiseConstantFunc.
type FuncOption func(*PiecewiseConstantFunc)

//WithName sets the name reported by Name.
func WithName(name string) FuncOption {
	return func(f *PiecewiseConstantFunc) {
		f.name = name
	}
}

//WithDtype sets the dtype of the results of Call and Integrate.
func WithDtype(dtype tensor.Dtype) FuncOption {
	return func(f *PiecewiseConstantFunc) {
		f.dtype = dtype
	}
}

//WithThreadsNum spreads the search and gather kernels over batch rows.
func WithThreadsNum(threadsNum int) FuncOption {
	return func(f *PiecewiseConstantFunc) {
		f.threadsNum = threadsNum
	}
}

//NewPiecewiseConstantFunc creates a piecewise constant function from its jump locations and values.
//Jump locations should be ordered along the last axis; repeated locations are allowed as long as
//the caller repeats the corresponding values.
func NewPiecewiseConstantFunc(jumpLocations, values interface{}, opts ...FuncOption) (*PiecewiseConstantFunc, error) {
	f := &PiecewiseConstantFunc{name: defaultName, dtype: tensor.Float64, threadsNum: 1}
	for _, opt := range opts {
		opt(f)
	}
	if f.dtype != tensor.Float64 && f.dtype != tensor.Float32 {
		return nil, &ValueError{Op: f.name, Msg: "dtype should be float64 or float32 but is " + f.dtype.String()}
	}

	var err error
	if f.jumpLocations, err = ndops.Convert(jumpLocations); err != nil {
		return nil, errors.Wrap(err, f.name+": jump_locations")
	}
	if f.values, err = ndops.Convert(values); err != nil {
		return nil, errors.Wrap(err, f.name+": values")
	}

	shapeJumps := ndops.Shape(f.jumpLocations)
	shapeValues := ndops.Shape(f.values)
	f.batchRank = len(shapeJumps) - 1
	if len(shapeValues) <= f.batchRank || !ndops.EqualShapes(shapeValues[:f.batchRank], shapeJumps[:f.batchRank]) {
		actual := shapeValues
		if len(shapeValues) > f.batchRank {
			actual = shapeValues[:f.batchRank]
		}
		return nil, &ShapeError{
			Op:       f.name,
			Expected: shapeJumps[:f.batchRank],
			Actual:   actual,
			Msg:      "batch shapes of `values` and `jump_locations` should be the same",
		}
	}
	if shapeValues[f.batchRank]-1 != shapeJumps[f.batchRank] {
		return nil, &ShapeError{
			Op:       f.name,
			Expected: []int{shapeJumps[f.batchRank] + 1},
			Actual:   []int{shapeValues[f.batchRank]},
			Msg:      "`values` should have one more segment than `jump_locations` has jumps",
		}
	}
	return f, nil
}

//Values returns the values of the function between jump locations.
func (f *PiecewiseConstantFunc) Values() *tensor.Dense {
	return f.values
}

//JumpLocations returns the locations where the function changes its value.
func (f *PiecewiseConstantFunc) JumpLocations() *tensor.Dense {
	return f.jumpLocations
}

//Name returns the name of the function.
func (f *PiecewiseConstantFunc) Name() string {
	return f.name
}

//Dtype returns the dtype of the results.
func (f *PiecewiseConstantFunc) Dtype() tensor.Dtype {
	return f.dtype
}

//IsPiecewiseConstant marks the type as a piecewise constant function.
func (f *PiecewiseConstantFunc) IsPiecewiseConstant() bool {
	return true
}

//BatchShape returns the batch shape shared by jump locations and values.
func (f *PiecewiseConstantFunc) BatchShape() []int {
	return ndops.Shape(f.jumpLocations)[:f.batchRank]
}

//NumJumps returns the number of jump locations per batch row.
func (f *PiecewiseConstantFunc) NumJumps() int {
	return f.jumpLocations.Shape()[f.batchRank]
}

//EventShape returns the shape of the value on a single segment.
func (f *PiecewiseConstantFunc) EventShape() []int {
	return ndops.Shape(f.values)[f.batchRank+1:]
}

func (f *PiecewiseConstantFunc) kernelOptions() []ndops.Option {
	return []ndops.Option{ndops.WithThreadsNum(f.threadsNum)}
}

//Call evaluates the function at x of shape batch' + [m], batch' broadcastable to the batch shape.
//With leftContinuous the value at jump b[i] is values[i], otherwise values[i+1].
//The result has shape batch + [m] + event.
func (f *PiecewiseConstantFunc) Call(x interface{}, leftContinuous bool) (*tensor.Dense, error) {
	xs, err := ndops.Convert(x)
	if err != nil {
		return nil, errors.Wrap(err, f.name+"_call: x")
	}
	if xs, err = tryBroadcastTo(xs, f.BatchShape(), "x"); err != nil {
		return nil, err
	}
	side := ndops.Right
	if leftContinuous {
		side = ndops.Left
	}
	res, err := piecewiseConstantFunction(xs, f.jumpLocations, f.values, f.batchRank, side, f.kernelOptions())
	if err != nil {
		return nil, errors.Wrap(err, f.name+"_call")
	}
	return ndops.CastTo(res, f.dtype)
}

func piecewiseConstantFunction(x, jumpLocations, values *tensor.Dense, batchRank int, side ndops.Side, opts []ndops.Option) (*tensor.Dense, error) {
	normalizer, arrays, _, err := normalizeRank(batchRank, x, jumpLocations, values)
	if err != nil {
		return nil, err
	}
	x, jumpLocations, values = arrays[0], arrays[1], arrays[2]

	indices, err := ndops.SearchSorted(jumpLocations, x, side, opts...)
	if err != nil {
		return nil, err
	}
	indexShape := ndops.Shape(indices)
	indexMatrix, err := PrepareIndexMatrix(indexShape[:len(indexShape)-1], indexShape[len(indexShape)-1])
	if err != nil {
		return nil, err
	}
	coords, err := gatherCoordinates(indexMatrix, indices)
	if err != nil {
		return nil, err
	}
	res, err := ndops.GatherND(values, coords, opts...)
	if err != nil {
		return nil, err
	}
	return normalizer.restore(res)
}
