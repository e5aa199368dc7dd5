package regions

import (
	"bufio"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tyjo/HipSTR/internal"
)

// ReadRegions parses an STR region file: tab-separated lines of
// chrom, start, stop, period and an optional name. Lines starting with #
// are skipped. maxRegions <= 0 reads all regions; a non-empty chrom
// restricts parsing to that chromosome. Malformed entries are fatal.
func ReadRegions(filename string, maxRegions int, chrom string) []*Region {
	file := internal.FileOpen(filename)
	defer internal.Close(file)

	var regions []*Region

	scanner := bufio.NewScanner(bufio.NewReader(file))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		data := strings.Split(line, "\t")
		if len(data) < 4 {
			logrus.Panicf("invalid line in region file %v: %v", filename, line)
		}
		if chrom != "" && data[0] != chrom {
			continue
		}
		start := int32(internal.ParseInt(data[1], 10, 32))
		stop := int32(internal.ParseInt(data[2], 10, 32))
		period := int(internal.ParseInt(data[3], 10, 32))
		var name string
		if len(data) > 4 {
			name = data[4]
		}
		regions = append(regions, NewNamedRegion(data[0], start, stop, period, name))
		if maxRegions > 0 && len(regions) >= maxRegions {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		logrus.Panic(err)
	}
	return regions
}
