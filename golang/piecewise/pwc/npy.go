package pwc

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/tarstars/piecewise_constant/golang/piecewise/ndops"
)

//ReadNpy reads a float64 npy file of any rank into an array.
func ReadNpy(fileName string) (*tensor.Dense, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read header of %s", fileName)
	}
	if r.Header.Descr.Fortran {
		return nil, errors.Errorf("%s: fortran ordered arrays are not supported", fileName)
	}

	var data []float64
	if err := r.Read(&data); err != nil {
		return nil, errors.Wrapf(err, "read data of %s", fileName)
	}
	shape := append([]int{}, r.Header.Descr.Shape...)
	if ndops.Size(shape) != len(data) {
		return nil, errors.Errorf("%s: header shape %v does not match %d elements", fileName, shape, len(data))
	}
	return ndops.Convert(ndops.FromFloat64s(data, shape...))
}

//WriteNpy writes an array to an npy file as a 2-D matrix: the last axis becomes the columns
//and all leading axes are flattened into rows. Int arrays are written as float64.
func WriteNpy(fileName string, t *tensor.Dense) error {
	values, err := ndops.Convert(t)
	if err != nil {
		return err
	}
	shape := ndops.Shape(values)
	cols := shape[len(shape)-1]
	rows := ndops.Size(shape) / cols
	if len(shape) == 1 {
		rows, cols = cols, 1
	}
	log.Printf("\twrite %v array as %dx%d matrix <%s>", shape, rows, cols, fileName)

	dst, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := npyio.Write(dst, mat.NewDense(rows, cols, ndops.Float64s(values))); err != nil {
		_ = dst.Close()
		return errors.Wrapf(err, "write %s", fileName)
	}
	return dst.Close()
}
