package str

import (
	"io"

	"github.com/tyjo/HipSTR/bamio"
	"github.com/tyjo/HipSTR/regions"
)

// A Genotyper consumes the per-sample grouped reads that survived the
// filter cascade for one region. Concrete STR genotyping strategies plug
// in here without touching the region loop.
type Genotyper interface {
	ProcessReads(alnsBySample [][]*bamio.Alignment, sampleNames []string, region *regions.Region, out io.Writer)
}

// NopGenotyper discards the grouped reads. It stands in until a real
// genotyping strategy is implemented.
type NopGenotyper struct{}

// ProcessReads implements the Genotyper interface.
func (NopGenotyper) ProcessReads([][]*bamio.Alignment, []string, *regions.Region, io.Writer) {}
