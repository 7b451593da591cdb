// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"io"
	"log"
	"sync"
	"unsafe"

	"github.com/tarstars/piecewise_constant/golang/piecewise/ndops"
	"github.com/tarstars/piecewise_constant/golang/piecewise/pwc"
	"gorgonia.org/tensor"
)

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	functions         = make(map[uint64]*pwc.PiecewiseConstantFunc)

	lastErrorMu sync.Mutex
	lastError   string

	logSilenceOnce sync.Once
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func storeFunction(f *pwc.PiecewiseConstantFunc) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	functions[handle] = f
	nextHandle++
	return handle
}

func fetchFunction(handle uint64) (*pwc.PiecewiseConstantFunc, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	f, ok := functions[handle]
	if !ok {
		return nil, errors.New("invalid function handle")
	}
	return f, nil
}

//export FreeFunction
func FreeFunction(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(functions, uint64(handle))
}

func copyFloatSlice(ptr *C.double, length int) ([]float64, error) {
	if length <= 0 {
		return nil, errors.New("length must be positive")
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	src := unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length)
	dst := make([]float64, length)
	copy(dst, src)
	return dst, nil
}

func sliceFromPtr(ptr *C.double, length int) ([]float64, error) {
	if length <= 0 {
		return nil, errors.New("length must be positive")
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length), nil
}

//withBatch prepends the batch dimension unless batch is 0.
func withBatch(batch int, shape ...int) []int {
	if batch == 0 {
		return shape
	}
	return append([]int{batch}, shape...)
}

//buildArray copies a C buffer of shape batch + shape into a new array.
func buildArray(ptr *C.double, batch C.int, shape ...int) (*tensor.Dense, error) {
	if batch < 0 {
		return nil, errors.New("batch must not be negative")
	}
	fullShape := withBatch(int(batch), shape...)
	data, err := copyFloatSlice(ptr, ndops.Size(fullShape))
	if err != nil {
		return nil, err
	}
	return ndops.FromFloat64s(data, fullShape...), nil
}

func batchOf(f *pwc.PiecewiseConstantFunc) C.int {
	if shape := f.BatchShape(); len(shape) == 1 {
		return C.int(shape[0])
	}
	return 0
}

func writeResult(ptr *C.double, result *tensor.Dense) error {
	out, err := sliceFromPtr(ptr, ndops.Size(ndops.Shape(result)))
	if err != nil {
		return err
	}
	copy(out, ndops.Float64s(result))
	return nil
}

//export NewFunction
func NewFunction(
	jumpLocationsPtr *C.double,
	batch C.int,
	numJumps C.int,
	valuesPtr *C.double,
	eventSize C.int,
	threadsNum C.int,
) C.ulonglong {
	setLastError(nil)
	logSilenceOnce.Do(func() {
		log.SetOutput(io.Discard)
	})

	if numJumps <= 0 {
		setLastError(errors.New("number of jumps must be positive"))
		return 0
	}
	if eventSize < 0 {
		setLastError(errors.New("event size must not be negative"))
		return 0
	}

	jumpLocations, err := buildArray(jumpLocationsPtr, batch, int(numJumps))
	if err != nil {
		setLastError(err)
		return 0
	}

	segmentShape := []int{int(numJumps) + 1}
	if eventSize > 0 {
		segmentShape = append(segmentShape, int(eventSize))
	}
	values, err := buildArray(valuesPtr, batch, segmentShape...)
	if err != nil {
		setLastError(err)
		return 0
	}

	f, err := pwc.NewPiecewiseConstantFunc(jumpLocations, values, pwc.WithThreadsNum(int(threadsNum)))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeFunction(f))
}

//export Evaluate
func Evaluate(handle C.ulonglong, xPtr *C.double, numPoints C.int, leftContinuous C.int, outputPtr *C.double) C.int {
	setLastError(nil)
	f, err := fetchFunction(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	x, err := buildArray(xPtr, batchOf(f), int(numPoints))
	if err != nil {
		setLastError(err)
		return 2
	}

	result, err := f.Call(x, leftContinuous != 0)
	if err != nil {
		setLastError(err)
		return 3
	}

	if err := writeResult(outputPtr, result); err != nil {
		setLastError(err)
		return 4
	}
	return 0
}

//export Integrate
func Integrate(handle C.ulonglong, x1Ptr, x2Ptr *C.double, numPoints C.int, outputPtr *C.double) C.int {
	setLastError(nil)
	f, err := fetchFunction(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	x1, err := buildArray(x1Ptr, batchOf(f), int(numPoints))
	if err != nil {
		setLastError(err)
		return 2
	}
	x2, err := buildArray(x2Ptr, batchOf(f), int(numPoints))
	if err != nil {
		setLastError(err)
		return 2
	}

	result, err := f.Integrate(x1, x2)
	if err != nil {
		setLastError(err)
		return 3
	}

	if err := writeResult(outputPtr, result); err != nil {
		setLastError(err)
		return 4
	}
	return 0
}

//export FindIntervalIndex
func FindIntervalIndex(
	intervalLowerXsPtr *C.double,
	batch C.int,
	numBoundaries C.int,
	queryXsPtr *C.double,
	numPoints C.int,
	lastIntervalIsClosed C.int,
	threadsNum C.int,
	outputPtr *C.longlong,
) C.int {
	setLastError(nil)
	intervalLowerXs, err := buildArray(intervalLowerXsPtr, batch, int(numBoundaries))
	if err != nil {
		setLastError(err)
		return 1
	}
	queryXs, err := buildArray(queryXsPtr, batch, int(numPoints))
	if err != nil {
		setLastError(err)
		return 2
	}

	result, err := pwc.FindIntervalIndex(queryXs, intervalLowerXs, lastIntervalIsClosed != 0, ndops.WithThreadsNum(int(threadsNum)))
	if err != nil {
		setLastError(err)
		return 3
	}

	if outputPtr == nil {
		setLastError(errors.New("null output pointer"))
		return 4
	}
	indices := ndops.Ints(result)
	out := unsafe.Slice((*int64)(unsafe.Pointer(outputPtr)), len(indices))
	for i, index := range indices {
		out[i] = int64(index)
	}
	return 0
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}
