// Package regions represents STR target regions and their traversal order.
package regions

import (
	"fmt"
	"sort"

	psort "github.com/exascience/pargo/sort"
	"github.com/sirupsen/logrus"
)

// A Region is a target STR interval on one chromosome. Start and Stop may
// be refined in place after construction, but Stop > Start must hold.
type Region struct {
	Chrom  string
	Start  int32
	Stop   int32
	Period int
	Name   string
}

// NewRegion allocates and initializes a new unnamed Region.
func NewRegion(chrom string, start, stop int32, period int) *Region {
	return NewNamedRegion(chrom, start, stop, period, "")
}

// NewNamedRegion allocates and initializes a new Region with a label.
func NewNamedRegion(chrom string, start, stop int32, period int, name string) *Region {
	if stop <= start {
		logrus.Panicf("invalid region %v:%v-%v: stop must exceed start", chrom, start, stop)
	}
	return &Region{
		Chrom:  chrom,
		Start:  start,
		Stop:   stop,
		Period: period,
		Name:   name,
	}
}

// Copy returns an independent copy of the region.
func (r *Region) Copy() *Region {
	c := *r
	return &c
}

func (r *Region) String() string {
	return fmt.Sprintf("%v:%v-%v", r.Chrom, r.Start, r.Stop)
}

// RegionLess is the strict total order on regions: chromosome
// lexicographically, then start, then stop. Name and period do not
// participate.
func RegionLess(r1, r2 *Region) bool {
	switch {
	case r1.Chrom != r2.Chrom:
		return r1.Chrom < r2.Chrom
	case r1.Start != r2.Start:
		return r1.Start < r2.Start
	default:
		return r1.Stop < r2.Stop
	}
}

type (
	// By is a less predicate on regions that can sort a region slice.
	By func(r1, r2 *Region) bool

	regionSorter struct {
		regions []*Region
		by      By
	}
)

func (s regionSorter) SequentialSort(i, j int) {
	regions, by := s.regions[i:j], s.by
	sort.SliceStable(regions, func(i, j int) bool {
		return by(regions[i], regions[j])
	})
}

func (s regionSorter) NewTemp() psort.StableSorter {
	return regionSorter{make([]*Region, len(s.regions)), s.by}
}

func (s regionSorter) Len() int {
	return len(s.regions)
}

func (s regionSorter) Less(i, j int) bool {
	return s.by(s.regions[i], s.regions[j])
}

func (s regionSorter) Assign(p psort.StableSorter) func(i, j, len int) {
	dst, src := s.regions, p.(regionSorter).regions
	return func(i, j, len int) {
		for k := 0; k < len; k++ {
			dst[i+k] = src[j+k]
		}
	}
}

// ParallelStableSort sorts a region slice in place according to the By
// predicate. Region files routinely list hundreds of thousands of STRs.
func (by By) ParallelStableSort(regions []*Region) {
	psort.StableSort(regionSorter{regions, by})
}

// OrderRegions sorts regions in place into the canonical traversal order,
// so that regions on the same chromosome are contiguous and increasing by
// (start, stop). Downstream retrieval refreshes chromosome-scoped state
// only when the chromosome changes.
func OrderRegions(regions []*Region) {
	By(RegionLess).ParallelStableSort(regions)
}

// A RegionGroup aggregates regions on a single chromosome into a bounding
// span, so that nearby regions can share reference-sequence context.
type RegionGroup struct {
	regions []*Region
	chrom   string
	start   int32
	stop    int32
}

// NewRegionGroup creates a group holding a first region.
func NewRegionGroup(region *Region) *RegionGroup {
	return &RegionGroup{
		regions: []*Region{region},
		chrom:   region.Chrom,
		start:   region.Start,
		stop:    region.Stop,
	}
}

// Chrom returns the common chromosome of all member regions.
func (g *RegionGroup) Chrom() string { return g.chrom }

// Start returns the minimum start over all member regions.
func (g *RegionGroup) Start() int32 { return g.start }

// Stop returns the maximum stop over all member regions.
func (g *RegionGroup) Stop() int32 { return g.stop }

// Regions returns the member regions, sorted by RegionLess.
func (g *RegionGroup) Regions() []*Region { return g.regions }

// NumRegions returns the number of member regions.
func (g *RegionGroup) NumRegions() int { return len(g.regions) }

// AddRegion adds a region to the group, widening the group bounds and
// keeping the members sorted. Groups span a single chromosome; adding a
// region on another chromosome is a usage error.
func (g *RegionGroup) AddRegion(region *Region) {
	if region.Chrom != g.chrom {
		logrus.Panicf("region group on %v can only consist of regions on a single chromosome, got %v", g.chrom, region)
	}
	if region.Start < g.start {
		g.start = region.Start
	}
	if region.Stop > g.stop {
		g.stop = region.Stop
	}
	g.regions = append(g.regions, region)
	sort.SliceStable(g.regions, func(i, j int) bool {
		return RegionLess(g.regions[i], g.regions[j])
	})
}

// OrderRegionsByChrom partitions regions into one ordered sequence of
// region groups per chromosome, with chromosomes ordered by the given rank
// mapping (typically the reference order of a BAM header). Overlapping
// regions on a chromosome merge into a single group. Regions on
// chromosomes absent from the mapping are dropped with a warning.
func OrderRegionsByChrom(regions []*Region, chromOrder map[string]int) [][]*RegionGroup {
	byChrom := make(map[string][]*Region)
	for _, region := range regions {
		if _, found := chromOrder[region.Chrom]; !found {
			logrus.Warnf("skipping region %v: chromosome %v not present in the reference order", region, region.Chrom)
			continue
		}
		byChrom[region.Chrom] = append(byChrom[region.Chrom], region)
	}
	chroms := make([]string, 0, len(byChrom))
	for chrom := range byChrom {
		chroms = append(chroms, chrom)
	}
	sort.Slice(chroms, func(i, j int) bool {
		return chromOrder[chroms[i]] < chromOrder[chroms[j]]
	})
	result := make([][]*RegionGroup, 0, len(chroms))
	for _, chrom := range chroms {
		chromRegions := byChrom[chrom]
		OrderRegions(chromRegions)
		var groups []*RegionGroup
		for _, region := range chromRegions {
			if n := len(groups); n > 0 && region.Start <= groups[n-1].Stop() {
				groups[n-1].AddRegion(region)
			} else {
				groups = append(groups, NewRegionGroup(region))
			}
		}
		result = append(result, groups)
	}
	return result
}
