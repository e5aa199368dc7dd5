package bamio

import (
	"os"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/google/uuid"
)

// ProgramName is recorded in the @PG line of emitted BAM files and in the
// read-group tags attached to filtered reads.
const ProgramName = "HipSTR"

// ProgramVersion is the version recorded in the @PG line.
const ProgramVersion = "1.0"

// A Writer is an append-only BAM output sink for filtered reads.
type Writer struct {
	file *os.File
	bw   *bam.Writer
}

// Create opens a BAM output sink with the given header plus a fresh @PG
// line identifying this run.
func Create(path string, header *sam.Header) (*Writer, error) {
	h := header.Clone()
	prog := sam.NewProgram(
		ProgramName+"-"+uuid.New().String(),
		ProgramName,
		strings.Join(os.Args, " "),
		"",
		ProgramVersion,
	)
	if err := h.AddProgram(prog); err != nil {
		return nil, err
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw, err := bam.NewWriter(file, h, 1)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &Writer{file: file, bw: bw}, nil
}

// IsOpen reports whether the sink accepts records. A nil Writer is a
// valid, closed sink.
func (w *Writer) IsOpen() bool {
	return w != nil && w.bw != nil
}

// Save persists a record to the sink.
func (w *Writer) Save(rec *sam.Record) error {
	return w.bw.Write(rec)
}

// Close flushes and closes the sink.
func (w *Writer) Close() error {
	if !w.IsOpen() {
		return nil
	}
	err := w.bw.Close()
	w.bw = nil
	if nerr := w.file.Close(); err == nil {
		err = nerr
	}
	return err
}
