// Package bamio provides indexed, region-scoped access to one or more BAM
// files, and an optional BAM output sink for filtered reads.
package bamio

import (
	"github.com/biogo/hts/sam"
)

// An Alignment is a single BAM record together with the identity of the
// file it was read from. The source file determines the sample the read
// belongs to.
type Alignment struct {
	Record     *sam.Record
	SourceFile string
}

// Start returns the leftmost aligned reference position.
func (aln *Alignment) Start() int32 {
	return int32(aln.Record.Pos)
}

// End returns the rightmost aligned reference position.
func (aln *Alignment) End() int32 {
	return int32(aln.Record.End() - 1)
}

// RefID returns the reference id of the record, or -1 if unmapped.
func (aln *Alignment) RefID() int32 {
	return refID(aln.Record.Ref)
}

// MateRefID returns the reference id of the record's mate, or -1 if the
// mate is unmapped.
func (aln *Alignment) MateRefID() int32 {
	return refID(aln.Record.MateRef)
}

// InsertSize returns the observed template length. A zero template length
// means the record carries no valid insert-size signal.
func (aln *Alignment) InsertSize() int32 {
	return int32(aln.Record.TempLen)
}

func refID(ref *sam.Reference) int32 {
	if ref == nil {
		return -1
	}
	return int32(ref.ID())
}
