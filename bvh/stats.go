package bvh

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Build statistics.
type Stats struct {
	Vertices  int
	Triangles int

	Nodes  int
	Leaves int

	// Depth of the deepest leaf; the root is at depth 0.
	MaxDepth int

	// Number of sorted primitives sharing their code with the previous one.
	DuplicateCodes int

	BuildTime time.Duration
}

// Build a tabular representation of the build statistics.
func (s Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Stat", "Value"})
	table.Append([]string{"Vertices", fmt.Sprint(s.Vertices)})
	table.Append([]string{"Triangles", fmt.Sprint(s.Triangles)})
	table.Append([]string{"Nodes", fmt.Sprint(s.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprint(s.Leaves)})
	table.Append([]string{"Internal nodes", fmt.Sprint(s.Nodes - s.Leaves)})
	table.Append([]string{"Max depth", fmt.Sprint(s.MaxDepth)})
	table.Append([]string{"Duplicate codes", fmt.Sprint(s.DuplicateCodes)})
	table.Append([]string{"Packed size", fmtSize(s.Nodes * NodeSize)})
	table.SetFooter([]string{"Build time", s.BuildTime.Round(time.Microsecond).String()})
	table.Render()
	return buf.String()
}

// Format a byte count with the appropriate byte/kb/mb unit.
func fmtSize(totalBytes int) string {
	switch {
	case totalBytes < 1e3:
		return fmt.Sprintf("%d bytes", totalBytes)
	case totalBytes < 1e6:
		return fmt.Sprintf("%3.1f kb", float32(totalBytes)/1e3)
	}
	return fmt.Sprintf("%5.1f mb", float32(totalBytes)/1e6)
}
