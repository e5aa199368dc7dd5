package bamio

import (
	"fmt"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/sirupsen/logrus"
)

type bamFile struct {
	name string
	file *os.File
	bam  *bam.Reader
	idx  *bam.Index
	it   *bam.Iterator
}

// A MultiReader reads alignments from one or more indexed BAM files. The
// retrieval scope is stateful: SetRegion installs a fresh cursor per file,
// and Next/Record drain the files in open order. Only one scope can be
// active at a time.
type MultiReader struct {
	files []*bamFile
	cur   int
	rec   *Alignment
}

// OpenMulti opens the given BAM files along with their .bai companion
// indexes.
func OpenMulti(paths []string) (*MultiReader, error) {
	m := new(MultiReader)
	for _, path := range paths {
		f, err := openBamFile(path)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.files = append(m.files, f)
	}
	return m, nil
}

func openBamFile(path string) (*bamFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	reader, err := bam.NewReader(file, 1)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%v, while opening BAM file %v", err, path)
	}
	idxFile, err := os.Open(path + ".bai")
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	idx, err := bam.ReadIndex(idxFile)
	nerr := idxFile.Close()
	if err == nil {
		err = nerr
	}
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%v, while reading index for BAM file %v", err, path)
	}
	return &bamFile{name: path, file: file, bam: reader, idx: idx}, nil
}

// Header returns the header of the first BAM file. Reference resolution
// for the whole reader set goes through this header.
func (m *MultiReader) Header() *sam.Header {
	return m.files[0].bam.Header()
}

// Paths returns the paths of the opened BAM files.
func (m *MultiReader) Paths() []string {
	paths := make([]string, len(m.files))
	for i, f := range m.files {
		paths[i] = f.name
	}
	return paths
}

// RefID resolves a chromosome name to its reference id, or -1 if the
// reference dictionary does not contain it.
func (m *MultiReader) RefID(chrom string) int32 {
	for _, ref := range m.Header().Refs() {
		if ref.Name() == chrom {
			return int32(ref.ID())
		}
	}
	return -1
}

// Ref returns the reference with the given id.
func (m *MultiReader) Ref(id int32) *sam.Reference {
	return m.Header().Refs()[id]
}

// SetRegion scopes all files to reads possibly overlapping the closed
// coordinate interval [start, stop] on the given reference. Any previous
// scope is discarded.
func (m *MultiReader) SetRegion(refID int32, start, stop int32) error {
	chrom := m.Ref(refID).Name()
	for _, f := range m.files {
		if f.it != nil {
			_ = f.it.Close()
			f.it = nil
		}
		var ref *sam.Reference
		for _, r := range f.bam.Header().Refs() {
			if r.Name() == chrom {
				ref = r
				break
			}
		}
		if ref == nil {
			return fmt.Errorf("BAM file %v has no reference sequence %v", f.name, chrom)
		}
		chunks, err := f.idx.Chunks(ref, int(start), int(stop)+1)
		if err != nil {
			return fmt.Errorf("%v, while looking up %v:%v-%v in the index of %v", err, chrom, start, stop, f.name)
		}
		it, err := bam.NewIterator(f.bam, chunks)
		if err != nil {
			return fmt.Errorf("%v, while setting the region %v:%v-%v on %v", err, chrom, start, stop, f.name)
		}
		f.it = it
	}
	m.cur = 0
	m.rec = nil
	return nil
}

// Next advances to the next record in the current scope, draining the
// files in open order. It returns false when the scope is exhausted.
func (m *MultiReader) Next() bool {
	for m.cur < len(m.files) {
		f := m.files[m.cur]
		if f.it == nil {
			m.cur++
			continue
		}
		if f.it.Next() {
			m.rec = &Alignment{Record: f.it.Record(), SourceFile: f.name}
			return true
		}
		if err := f.it.Error(); err != nil {
			logrus.Panicf("%v, while reading BAM file %v", err, f.name)
		}
		_ = f.it.Close()
		f.it = nil
		m.cur++
	}
	m.rec = nil
	return false
}

// Record returns the record fetched by the last successful call to Next.
func (m *MultiReader) Record() *Alignment {
	return m.rec
}

// Close closes all BAM files.
func (m *MultiReader) Close() error {
	var err error
	for _, f := range m.files {
		if f.it != nil {
			_ = f.it.Close()
			f.it = nil
		}
		if nerr := f.file.Close(); err == nil {
			err = nerr
		}
	}
	return err
}
