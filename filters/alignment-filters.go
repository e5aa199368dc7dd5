// Package filters implements the per-read admission cascade for STR
// regions, along with the alignment-level predicates it is built from.
package filters

import (
	"github.com/biogo/hts/sam"
	"github.com/bits-and-blooms/bitset"

	"github.com/tyjo/HipSTR/fasta"
)

// EndDistToIndel returns the number of read bases between each end of the
// read and the nearest indel in its alignment. A side with no indel
// reports -1.
func EndDistToIndel(rec *sam.Record) (dist5, dist3 int32) {
	dist5, dist3 = -1, -1
	var fromStart int32
	for _, op := range rec.Cigar {
		t := op.Type()
		if t == sam.CigarInsertion || t == sam.CigarDeletion {
			dist5 = fromStart
			break
		}
		fromStart += int32(op.Len() * t.Consumes().Query)
	}
	var fromEnd int32
	for i := len(rec.Cigar) - 1; i >= 0; i-- {
		t := rec.Cigar[i].Type()
		if t == sam.CigarInsertion || t == sam.CigarDeletion {
			dist3 = fromEnd
			break
		}
		fromEnd += int32(rec.Cigar[i].Len() * t.Consumes().Query)
	}
	return dist5, dist3
}

// matchMask marks every read base that is aligned to the reference and
// perfectly matches it when the read is placed shift bases away from its
// reported position. Soft-clipped and inserted bases stay unmarked.
func matchMask(rec *sam.Record, chromSeq []byte, shift int32) (*bitset.BitSet, int) {
	read := rec.Seq.Expand()
	mask := bitset.New(uint(len(read)))
	readPos := 0
	refPos := rec.Pos + int(shift)
	for _, op := range rec.Cigar {
		co := op.Type().Consumes()
		n := op.Len()
		if co.Query == 1 && co.Reference == 1 {
			for k := 0; k < n; k++ {
				rp := refPos + k
				if rp >= 0 && rp < len(chromSeq) &&
					fasta.ToUpperAndN(read[readPos+k]) == fasta.ToUpperAndN(chromSeq[rp]) {
					mask.Set(uint(readPos + k))
				}
			}
		}
		readPos += n * co.Query
		refPos += n * co.Reference
	}
	return mask, len(read)
}

// NumEndMatches returns the lengths of the perfectly matching runs at the
// 5' and 3' ends of the read against the reference, with the read placed
// shift bases away from its reported position. A soft-clipped or inserted
// end base yields a run of length 0.
func NumEndMatches(rec *sam.Record, chromSeq []byte, shift int32) (match5, match3 int32) {
	mask, n := matchMask(rec, chromSeq, shift)
	for i := 0; i < n && mask.Test(uint(i)); i++ {
		match5++
	}
	for i := n - 1; i >= 0 && mask.Test(uint(i)); i-- {
		match3++
	}
	return match5, match3
}

// HasLargestEndMatches reports whether the read's placement at its
// reported position (offset by shift) achieves the maximal total number of
// end matches among all candidate placements up to maxUpstream bases to
// the left and maxDownstream bases to the right. A tie with an alternate
// placement counts as maximal. Placements that would run off the reference
// are not candidates.
func HasLargestEndMatches(rec *sam.Record, chromSeq []byte, shift, maxUpstream, maxDownstream int32) bool {
	match5, match3 := NumEndMatches(rec, chromSeq, shift)
	score := match5 + match3
	for s := shift - maxUpstream; s <= shift+maxDownstream; s++ {
		if s == shift {
			continue
		}
		if rec.Pos+int(s) < 0 || rec.End()+int(s) > len(chromSeq) {
			continue
		}
		m5, m3 := NumEndMatches(rec, chromSeq, s)
		if m5+m3 > score {
			return false
		}
	}
	return true
}
