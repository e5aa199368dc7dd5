package str

import (
	"bytes"
	"testing"

	"github.com/biogo/hts/sam"

	"github.com/tyjo/HipSTR/bamio"
	"github.com/tyjo/HipSTR/filters"
	"github.com/tyjo/HipSTR/regions"
)

var (
	chr1     *sam.Reference
	chromSeq []byte
)

func init() {
	var err error
	if chr1, err = sam.NewReference("chr1", "", "", 1<<20, nil, nil); err != nil {
		panic(err)
	}
	if _, err = sam.NewHeader(nil, []*sam.Reference{chr1}); err != nil {
		panic(err)
	}
	chromSeq = bytes.Repeat([]byte("ACGT"), 64)
}

// sliceSource replays a fixed set of alignments, standing in for a scoped
// BAM retrieval cursor.
type sliceSource struct {
	alns []*bamio.Alignment
	next int
}

func (s *sliceSource) Next() bool {
	if s.next < len(s.alns) {
		s.next++
		return true
	}
	return false
}

func (s *sliceSource) Record() *bamio.Alignment {
	return s.alns[s.next-1]
}

func spanningAlignment(t *testing.T, name, sourceFile string) *bamio.Alignment {
	t.Helper()
	seq := append([]byte(nil), chromSeq[90:130]...)
	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = 0x28
	}
	rec, err := sam.NewRecord(name, chr1, chr1, 90, -1, 300, 50,
		[]sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 40)}, seq, qual, nil)
	if err != nil {
		t.Fatal(err)
	}
	return &bamio.Alignment{Record: rec, SourceFile: sourceFile}
}

func shortAlignment(t *testing.T, name, sourceFile string) *bamio.Alignment {
	t.Helper()
	seq := append([]byte(nil), chromSeq[110:120]...)
	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = 0x28
	}
	rec, err := sam.NewRecord(name, chr1, chr1, 110, -1, 300, 50,
		[]sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 10)}, seq, qual, nil)
	if err != nil {
		t.Fatal(err)
	}
	return &bamio.Alignment{Record: rec, SourceFile: sourceFile}
}

func TestFilterReads(t *testing.T) {
	region := regions.NewRegion("chr1", 100, 120, 4)
	src := &sliceSource{alns: []*bamio.Alignment{
		spanningAlignment(t, "read1", "a.bam"),
		shortAlignment(t, "read2", "a.bam"),
		spanningAlignment(t, "read3", "b.bam"),
	}}
	fileReadGroups := map[string]string{"a.bam": "A", "b.bam": "B"}

	admitted, counts := FilterReads(src, region, chromSeq, filters.DefaultThresholds(), fileReadGroups, nil)
	if counts.Considered != 3 || counts.Admitted != 2 || counts.Rejected[filters.NotSpanning] != 1 {
		t.Errorf("unexpected counts %+v", counts)
	}
	if !counts.Balanced() {
		t.Errorf("counters do not balance: %+v", counts)
	}
	if len(admitted) != 2 || admitted[0].Record.Name != "read1" || admitted[1].Record.Name != "read3" {
		t.Errorf("unexpected admitted set %v", admitted)
	}
}

func TestFilterReadsDeterministic(t *testing.T) {
	region := regions.NewRegion("chr1", 100, 120, 4)
	alns := []*bamio.Alignment{
		spanningAlignment(t, "read1", "a.bam"),
		shortAlignment(t, "read2", "a.bam"),
	}
	_, counts1 := FilterReads(&sliceSource{alns: alns}, region, chromSeq, filters.DefaultThresholds(), nil, nil)
	_, counts2 := FilterReads(&sliceSource{alns: alns}, region, chromSeq, filters.DefaultThresholds(), nil, nil)
	if *counts1 != *counts2 {
		t.Errorf("filtering is not deterministic: %+v vs %+v", counts1, counts2)
	}
}

func TestGroupBySample(t *testing.T) {
	fileReadGroups := map[string]string{"a.bam": "A", "b.bam": "B"}
	alns := []*bamio.Alignment{
		spanningAlignment(t, "read1", "a.bam"),
		spanningAlignment(t, "read2", "b.bam"),
		spanningAlignment(t, "read3", "a.bam"),
	}
	names, groups := GroupBySample(alns, fileReadGroups)
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Fatalf("unexpected sample order %v", names)
	}
	if len(groups[0]) != 2 || groups[0][0].Record.Name != "read1" || groups[0][1].Record.Name != "read3" {
		t.Errorf("unexpected group for sample A: %v", groups[0])
	}
	if len(groups[1]) != 1 || groups[1][0].Record.Name != "read2" {
		t.Errorf("unexpected group for sample B: %v", groups[1])
	}
}

func TestGroupBySampleSingletons(t *testing.T) {
	fileReadGroups := map[string]string{"a.bam": "A", "b.bam": "B"}
	names, groups := GroupBySample([]*bamio.Alignment{
		spanningAlignment(t, "read1", "a.bam"),
		spanningAlignment(t, "read2", "b.bam"),
	}, fileReadGroups)
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Fatalf("unexpected sample order %v", names)
	}
	for i, group := range groups {
		if len(group) != 1 {
			t.Errorf("expected a single read for sample %v, got %v", names[i], len(group))
		}
	}
}

func TestGroupBySampleEmpty(t *testing.T) {
	names, groups := GroupBySample(nil, map[string]string{"a.bam": "A"})
	if len(names) != 0 || len(groups) != 0 {
		t.Error("expected no groups for an empty admitted set")
	}
}
