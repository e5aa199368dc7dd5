package bamio

import (
	"testing"

	"github.com/biogo/hts/sam"
)

var chr1, chr2 *sam.Reference

func init() {
	var err error
	if chr1, err = sam.NewReference("chr1", "", "", 1<<20, nil, nil); err != nil {
		panic(err)
	}
	if chr2, err = sam.NewReference("chr2", "", "", 1<<20, nil, nil); err != nil {
		panic(err)
	}
	if _, err = sam.NewHeader(nil, []*sam.Reference{chr1, chr2}); err != nil {
		panic(err)
	}
}

func newRecord(t *testing.T, ref, mateRef *sam.Reference, pos, tempLen int, cigar []sam.CigarOp) *sam.Record {
	t.Helper()
	var seqLen int
	for _, op := range cigar {
		if op.Type().Consumes().Query == 1 {
			seqLen += op.Len()
		}
	}
	seq := make([]byte, seqLen)
	qual := make([]byte, seqLen)
	for i := 0; i < seqLen; i++ {
		seq[i] = 'A'
		qual[i] = 0x28
	}
	rec, err := sam.NewRecord("read", ref, mateRef, pos, -1, tempLen, 50, cigar, seq, qual, nil)
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestSetStringTag(t *testing.T) {
	rec := newRecord(t, chr1, chr1, 100, 300, []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 20)})
	if HasTag(rec, "RG") {
		t.Fatal("fresh record already carries an RG tag")
	}
	if err := SetStringTag(rec, "RG", "sample1"); err != nil {
		t.Fatal(err)
	}
	if !HasTag(rec, "RG") {
		t.Fatal("RG tag not attached")
	}
	aux, _ := rec.Tag([]byte("RG"))
	if v := aux.Value(); v != "sample1" {
		t.Errorf("unexpected RG value %v", v)
	}

	// setting the same tag again replaces the value in place
	if err := SetStringTag(rec, "RG", "sample2"); err != nil {
		t.Fatal(err)
	}
	if len(rec.AuxFields) != 1 {
		t.Errorf("expected 1 aux field, got %v", len(rec.AuxFields))
	}
	aux, _ = rec.Tag([]byte("RG"))
	if v := aux.Value(); v != "sample2" {
		t.Errorf("unexpected RG value after replacement %v", v)
	}
}

// auxInt normalizes the sized integer types sam.Aux.Value can return.
func auxInt(a sam.Aux) (int64, bool) {
	switch v := a.Value().(type) {
	case int8:
		return int64(v), true
	case uint8:
		return int64(v), true
	case int16:
		return int64(v), true
	case uint16:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint32:
		return int64(v), true
	default:
		return 0, false
	}
}

func TestSetIntTag(t *testing.T) {
	rec := newRecord(t, chr1, chr1, 100, 300, []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 20)})
	if err := SetIntTag(rec, "XS", 12345); err != nil {
		t.Fatal(err)
	}
	if err := SetIntTag(rec, "XE", 12395); err != nil {
		t.Fatal(err)
	}
	if len(rec.AuxFields) != 2 {
		t.Fatalf("expected 2 aux fields, got %v", len(rec.AuxFields))
	}
	aux, _ := rec.Tag([]byte("XS"))
	if v, ok := auxInt(aux); !ok || v != 12345 {
		t.Errorf("unexpected XS value %v", v)
	}
	aux, _ = rec.Tag([]byte("XE"))
	if v, ok := auxInt(aux); !ok || v != 12395 {
		t.Errorf("unexpected XE value %v", v)
	}
}

func TestAlignmentPositions(t *testing.T) {
	aln := &Alignment{Record: newRecord(t, chr1, chr2, 100, 300, []sam.CigarOp{
		sam.NewCigarOp(sam.CigarMatch, 10),
		sam.NewCigarOp(sam.CigarDeletion, 3),
		sam.NewCigarOp(sam.CigarMatch, 10),
	})}
	if aln.Start() != 100 {
		t.Errorf("unexpected start %v", aln.Start())
	}
	// 20 aligned bases plus a 3 base deletion
	if aln.End() != 122 {
		t.Errorf("unexpected end %v", aln.End())
	}
	if aln.InsertSize() != 300 {
		t.Errorf("unexpected insert size %v", aln.InsertSize())
	}
	if aln.RefID() == aln.MateRefID() {
		t.Error("expected distinct reference ids")
	}
}

func TestAlignmentUnmappedMate(t *testing.T) {
	aln := &Alignment{Record: newRecord(t, chr1, nil, 100, 0, []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 20)})}
	if aln.MateRefID() != -1 {
		t.Errorf("expected mate reference id -1, got %v", aln.MateRefID())
	}
	if aln.RefID() < 0 {
		t.Errorf("expected a mapped reference id, got %v", aln.RefID())
	}
}
