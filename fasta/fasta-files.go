// Package fasta loads per-chromosome reference sequences from a directory
// of FASTA files.
package fasta

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/tyjo/HipSTR/internal"
)

var iupacUpperTable = map[byte]byte{
	'A': 'A', 'a': 'A',
	'C': 'C', 'c': 'C',
	'G': 'G', 'g': 'G',
	'T': 'T', 't': 'T',
	'N': 'N', 'n': 'N',
	'R': 'N', 'r': 'N',
	'Y': 'N', 'y': 'N',
	'M': 'N', 'm': 'N',
	'K': 'N', 'k': 'N',
	'W': 'N', 'w': 'N',
	'S': 'N', 's': 'N',
	'B': 'N', 'b': 'N',
	'D': 'N', 'd': 'N',
	'H': 'N', 'h': 'N',
	'V': 'N', 'v': 'N',
}

// ToUpperAndN normalizes IUPAC ambiguity codes in FASTA references to N,
// and converts all codes to upper case.
func ToUpperAndN(base byte) byte {
	if n, ok := iupacUpperTable[base]; ok {
		return n
	}
	return base
}

func contigFromHeader(b []byte) string {
	i := 1
	for ; i < len(b); i++ {
		if c := b[i]; c >= '!' && c <= '~' {
			break
		}
	}
	j := i + 1
	for ; j < len(b); j++ {
		if c := b[j]; c < '!' || c > '~' {
			break
		}
	}
	return string(b[i:j])
}

// ReadChrom reads the reference sequence for the given chromosome from
// <dir>/<chrom>.fa. The file is memory-mapped while parsing; the returned
// sequence is an independent, upper-cased, N-normalized copy. A missing
// file, a malformed FASTA, or a file that does not contain the chromosome
// is fatal.
func ReadChrom(chrom, dir string) []byte {
	filename := filepath.Join(dir, chrom+".fa")
	file := internal.FileOpen(filename)
	defer internal.Close(file)

	stat, err := file.Stat()
	if err != nil {
		logrus.Panic(err)
	}
	if stat.Size() == 0 {
		logrus.Panicf("empty fasta file %v", filename)
	}
	data, err := unix.Mmap(int(file.Fd()), 0, int(stat.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		logrus.Panic(err)
	}
	defer func() {
		if err := unix.Munmap(data); err != nil {
			logrus.Panic(err)
		}
	}()

	if data[0] != '>' {
		logrus.Panicf("invalid fasta file %v - missing first header", filename)
	}

	var seq []byte
	inTarget := false
	for i := 0; i < len(data); {
		j := i
		for j < len(data) && data[j] != '\n' {
			j++
		}
		line := data[i:j]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		if len(line) > 0 {
			if line[0] == '>' {
				if inTarget {
					break
				}
				inTarget = contigFromHeader(line) == chrom
				if inTarget {
					seq = make([]byte, 0, len(data)-j)
				}
			} else if inTarget {
				for _, c := range line {
					seq = append(seq, ToUpperAndN(c))
				}
			}
		}
		i = j + 1
	}
	if seq == nil {
		logrus.Panicf("fasta file %v does not contain sequence %v", filename, chrom)
	}
	return seq
}
