package pwc

import (
	"log"

	"github.com/tarstars/piecewise_constant/golang/piecewise/ndops"
)

//ShapeError reports shape mismatches of jump locations, values and query points.
type ShapeError = ndops.ShapeError

//ValueError reports invalid flags and options.
type ValueError = ndops.ValueError

//HandleError stops the program on a non-nil error. Meant for command line tools only.
func HandleError(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
