// Package str drives the per-region retrieval, filtering, and grouping
// loop over a set of STR target regions.
package str

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/tyjo/HipSTR/bamio"
	"github.com/tyjo/HipSTR/fasta"
	"github.com/tyjo/HipSTR/filters"
	"github.com/tyjo/HipSTR/regions"
)

// A RecordSource yields the candidate alignments of the current retrieval
// scope. bamio.MultiReader is the production implementation.
type RecordSource interface {
	Next() bool
	Record() *bamio.Alignment
}

// FilterReads runs the filter cascade over one region's candidate stream.
// It reports the per-reason diagnostic counts, persists annotated
// survivors to the writer when one is open, and returns the admitted reads
// in encounter order.
func FilterReads(src RecordSource, region *regions.Region, chromSeq []byte, thresholds filters.Thresholds, fileReadGroups map[string]string, writer *bamio.Writer) ([]*bamio.Alignment, *filters.Counts) {
	cascade := filters.NewCascade(region, chromSeq, thresholds)
	for src.Next() {
		cascade.Admit(src.Record())
	}
	counts := cascade.Counts()
	counts.Report()
	admitted := cascade.Admitted()

	if writer.IsOpen() {
		for _, aln := range admitted {
			sample := fileReadGroups[aln.SourceFile]
			rg := bamio.ProgramName + ";" + sample + ";" + sample
			if err := bamio.SetStringTag(aln.Record, "RG", rg); err != nil {
				logrus.Fatalf("failed to modify RG tag: %v", err)
			}
			if err := bamio.SetIntTag(aln.Record, "XS", region.Start); err != nil {
				logrus.Fatalf("failed to modify XS tag: %v", err)
			}
			if err := bamio.SetIntTag(aln.Record, "XE", region.Stop); err != nil {
				logrus.Fatalf("failed to modify XE tag: %v", err)
			}
			if err := writer.Save(aln.Record); err != nil {
				logrus.Fatalf("failed to save alignment for STR-spanning read: %v", err)
			}
		}
	}
	return admitted, counts
}

// GroupBySample partitions admitted reads by the sample label of their
// source file. Sample order follows the first-seen order of the labels;
// reads keep their encounter order within a group.
func GroupBySample(admitted []*bamio.Alignment, fileReadGroups map[string]string) ([]string, [][]*bamio.Alignment) {
	indices := make(map[string]int)
	var names []string
	var groups [][]*bamio.Alignment
	for _, aln := range admitted {
		sample := fileReadGroups[aln.SourceFile]
		index, found := indices[sample]
		if !found {
			index = len(names)
			indices[sample] = index
			names = append(names, sample)
			groups = append(groups, nil)
		}
		groups[index] = append(groups[index], aln)
	}
	return names, groups
}

// A Processor runs the end-to-end per-region loop.
type Processor struct {
	Thresholds filters.Thresholds
	Genotyper  Genotyper
	// MaxRegions caps how many regions are read from the region file;
	// <= 0 reads all of them.
	MaxRegions int
	// Chrom restricts processing to one chromosome when non-empty.
	Chrom string
}

// ProcessRegions reads the target regions, orders them along the reader's
// reference order, and processes them strictly sequentially: the retrieval
// scope is stateful and only one scope can be open at a time. The only
// state carried across regions is the chromosome-sequence cache, which is
// refreshed when the chromosome changes.
func (p *Processor) ProcessRegions(reader *bamio.MultiReader, regionFile, fastaDir string, fileReadGroups map[string]string, writer *bamio.Writer, out io.Writer) {
	regionList := regions.ReadRegions(regionFile, p.MaxRegions, p.Chrom)
	chromOrder := make(map[string]int)
	for _, ref := range reader.Header().Refs() {
		chromOrder[ref.Name()] = ref.ID()
	}
	grouped := regions.OrderRegionsByChrom(regionList, chromOrder)

	genotyper := p.Genotyper
	if genotyper == nil {
		genotyper = NopGenotyper{}
	}

	curChromID := int32(-1)
	var chromSeq []byte
	for _, chromGroups := range grouped {
		for _, group := range chromGroups {
			for _, region := range group.Regions() {
				logrus.Infof("Processing region %v", region)
				chromID := reader.RefID(region.Chrom)
				if chromID < 0 {
					logrus.Fatalf("chromosome %v not present in the BAM reference dictionary", region.Chrom)
				}
				if curChromID != chromID {
					curChromID = chromID
					chrom := reader.Ref(chromID).Name()
					logrus.Infof("Reading fasta file for %v", chrom)
					chromSeq = fasta.ReadChrom(chrom, fastaDir)
				}
				if err := reader.SetRegion(chromID, region.Start, region.Stop); err != nil {
					logrus.Fatalf("one or more BAM files failed to set the region properly: %v", err)
				}
				admitted, _ := FilterReads(reader, region, chromSeq, p.Thresholds, fileReadGroups, writer)
				sampleNames, alnsBySample := GroupBySample(admitted, fileReadGroups)
				genotyper.ProcessReads(alnsBySample, sampleNames, region, out)
			}
		}
	}
}
