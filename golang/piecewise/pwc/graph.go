package pwc

import (
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/errors"

	"github.com/tarstars/piecewise_constant/golang/piecewise/ndops"
)

//NumRows returns the number of batch rows, one for a function without batch shape.
func (f *PiecewiseConstantFunc) NumRows() int {
	return ndops.Size(f.BatchShape())
}

//SegmentDescription returns the label of segment seg of batch row row for graph rendering.
func (f *PiecewiseConstantFunc) SegmentDescription(row, seg int) string {
	n := f.NumJumps()
	jumps := ndops.Float64s(f.jumpLocations)[row*n : (row+1)*n]
	eventSize := ndops.Size(f.EventShape())
	values := ndops.Float64s(f.values)[(row*(n+1)+seg)*eventSize : (row*(n+1)+seg+1)*eventSize]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("segment", seg))
	lower, upper := "-inf", "+inf"
	if seg > 0 {
		lower = fmt.Sprintf("%6.5g", jumps[seg-1])
	}
	if seg < n {
		upper = fmt.Sprintf("%6.5g", jumps[seg])
	}
	sb.WriteString(fmt.Sprintf("(%s, %s)\n", strings.TrimSpace(lower), strings.TrimSpace(upper)))
	sb.WriteString("[")
	for _, val := range values {
		sb.WriteString(fmt.Sprintf("  %6.2f,\n", val))
	}
	sb.WriteString("]")
	return sb.String()
}

//DrawGraph draws the segments of one batch row as a chain of boxes joined at the jump locations.
func (f *PiecewiseConstantFunc) DrawGraph(row int) (*graphviz.Graphviz, *cgraph.Graph, error) {
	if row < 0 || row >= f.NumRows() {
		return nil, nil, &ValueError{Op: "draw graph", Msg: fmt.Sprintf("row %d is out of range [0, %d)", row, f.NumRows())}
	}
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		return nil, nil, err
	}

	n := f.NumJumps()
	jumps := ndops.Float64s(f.jumpLocations)[row*n : (row+1)*n]
	var previous *cgraph.Node
	for seg := 0; seg <= n; seg++ {
		segmentNode, err := graph.CreateNode(fmt.Sprint("s", seg))
		if err != nil {
			return nil, nil, err
		}
		segmentNode.Set("label", f.SegmentDescription(row, seg))
		segmentNode.Set("shape", "box")
		if previous != nil {
			if _, err := graph.CreateEdge("", previous, segmentNode); err != nil {
				return nil, nil, err
			}
		}
		if seg == n {
			break
		}

		jumpNode, err := graph.CreateNode(fmt.Sprint("j", seg))
		if err != nil {
			return nil, nil, err
		}
		jumpNode.Set("label", fmt.Sprintf("x = %6.5g", jumps[seg]))
		if _, err := graph.CreateEdge("", segmentNode, jumpNode); err != nil {
			return nil, nil, err
		}
		previous = jumpNode
	}
	return graphViz, graph, nil
}

//RenderSegments renders every batch row into pictures_directory/<dumpPrefix>_<row>.<figureType>.
func (f *PiecewiseConstantFunc) RenderSegments(dumpPrefix, figureType, picturesDirectory string) error {
	graphvizType, ok := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
	}[figureType]
	if !ok {
		return &ValueError{Op: "render segments", Msg: "figure type should be png, svg or jpg but is " + figureType}
	}

	for row := 0; row < f.NumRows(); row++ {
		filename := fmt.Sprintf("%s_%05d.%s", dumpPrefix, row, figureType)
		graphViz, graph, err := f.DrawGraph(row)
		if err != nil {
			return err
		}
		if err := graphViz.RenderFilename(graph, graphvizType, path.Join(picturesDirectory, filename)); err != nil {
			return errors.Wrapf(err, "render %s", filename)
		}
	}
	return nil
}
