package filters

import (
	"github.com/sirupsen/logrus"

	"github.com/tyjo/HipSTR/bamio"
	"github.com/tyjo/HipSTR/regions"
)

// Thresholds is the configuration surface of the filter cascade, fixed for
// a run.
type Thresholds struct {
	MaxMateDist           int32
	MinFlank              int32
	MinBPBeforeIndel      int32
	MaximalEndMatchWindow int32
	MinReadEndMatch       int32
	RemoveMultimappers    bool
}

// DefaultThresholds returns the default filter configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxMateDist:           1000,
		MinFlank:              5,
		MinBPBeforeIndel:      7,
		MaximalEndMatchWindow: 15,
		MinReadEndMatch:       10,
	}
}

// A Reason identifies one of the rejection reasons of the cascade, in
// cascade order.
type Reason int

const (
	DiffChromMate Reason = iota
	UnmappedMate
	NotSpanning
	InsertSize
	Multimapped
	FlankLength
	BPBeforeIndel
	EndMatchWindow
	EndMatchLength
	NumReasons
)

func (r Reason) String() string {
	switch r {
	case DiffChromMate:
		return "had mates on a different chromosome"
	case UnmappedMate:
		return "had unmapped mates"
	case NotSpanning:
		return "did not span the STR"
	case InsertSize:
		return "failed the insert size filter"
	case Multimapped:
		return "were removed due to multimapping"
	case FlankLength:
		return "had too few bps in one or more flanks"
	case BPBeforeIndel:
		return "had too few bp before the first indel"
	case EndMatchWindow:
		return "did not have the maximal number of end matches within the specified window"
	case EndMatchLength:
		return "had too few bp matches along the ends"
	default:
		return "unknown"
	}
}

// Counts tallies the outcome of a cascade run over one region. Every
// considered read lands in exactly one bucket, so
// Considered = sum(Rejected) + Admitted always holds.
type Counts struct {
	Considered int
	Rejected   [NumReasons]int
	Admitted   int
}

// Balanced reports whether the counters add up.
func (c *Counts) Balanced() bool {
	total := c.Admitted
	for _, n := range c.Rejected {
		total += n
	}
	return total == c.Considered
}

// Report emits the per-region diagnostic summary.
func (c *Counts) Report() {
	logrus.Infof("%v reads overlapped region, of which", c.Considered)
	for reason := Reason(0); reason < NumReasons; reason++ {
		logrus.Infof("\t%v %v", c.Rejected[reason], reason)
	}
	logrus.Infof("%v passed all filters", c.Admitted)
}

type check struct {
	reason Reason
	reject func(aln *bamio.Alignment) bool
}

// A Cascade decides per-read admission for one region. Checks run in a
// fixed order and short-circuit on the first rejection, so every read is
// charged to exactly one reason.
type Cascade struct {
	checks   []check
	counts   Counts
	admitted []*bamio.Alignment
}

// NewCascade builds the admission cascade for a region. chromSeq is the
// reference sequence of the region's chromosome, consumed by the
// match-based checks.
func NewCascade(region *regions.Region, chromSeq []byte, t Thresholds) *Cascade {
	return &Cascade{checks: []check{
		{DiffChromMate, func(aln *bamio.Alignment) bool {
			return aln.RefID() != aln.MateRefID()
		}},
		{UnmappedMate, func(aln *bamio.Alignment) bool {
			return aln.InsertSize() == 0
		}},
		{NotSpanning, func(aln *bamio.Alignment) bool {
			return aln.Start() > region.Start || aln.End() < region.Stop
		}},
		{InsertSize, func(aln *bamio.Alignment) bool {
			insert := aln.InsertSize()
			if insert < 0 {
				insert = -insert
			}
			return insert > t.MaxMateDist
		}},
		{Multimapped, func(aln *bamio.Alignment) bool {
			return t.RemoveMultimappers && bamio.HasTag(aln.Record, "XA")
		}},
		{FlankLength, func(aln *bamio.Alignment) bool {
			return aln.Start() > region.Start-t.MinFlank || aln.End() < region.Stop+t.MinFlank
		}},
		{BPBeforeIndel, func(aln *bamio.Alignment) bool {
			if t.MinBPBeforeIndel <= 0 {
				return false
			}
			dist5, dist3 := EndDistToIndel(aln.Record)
			return (dist5 != -1 && dist5 < t.MinBPBeforeIndel) ||
				(dist3 != -1 && dist3 < t.MinBPBeforeIndel)
		}},
		{EndMatchWindow, func(aln *bamio.Alignment) bool {
			if t.MaximalEndMatchWindow <= 0 {
				return false
			}
			return !HasLargestEndMatches(aln.Record, chromSeq, 0, t.MaximalEndMatchWindow, t.MaximalEndMatchWindow)
		}},
		{EndMatchLength, func(aln *bamio.Alignment) bool {
			if t.MinReadEndMatch <= 0 {
				return false
			}
			match5, match3 := NumEndMatches(aln.Record, chromSeq, 0)
			return match5 < t.MinReadEndMatch || match3 < t.MinReadEndMatch
		}},
	}}
}

// Admit runs the cascade on one read. Admitted reads are retained in
// encounter order.
func (c *Cascade) Admit(aln *bamio.Alignment) bool {
	c.counts.Considered++
	for _, ch := range c.checks {
		if ch.reject(aln) {
			c.counts.Rejected[ch.reason]++
			return false
		}
	}
	c.counts.Admitted++
	c.admitted = append(c.admitted, aln)
	return true
}

// Admitted returns the reads that passed every check, in encounter order.
func (c *Cascade) Admitted() []*bamio.Alignment {
	return c.admitted
}

// Counts returns the tally of the cascade run so far.
func (c *Cascade) Counts() *Counts {
	return &c.counts
}
