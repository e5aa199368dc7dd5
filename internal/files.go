package internal

import (
	"os"

	"github.com/sirupsen/logrus"
)

// FileOpen is os.Open with panics in place of errors
func FileOpen(name string) *os.File {
	file, err := os.Open(name)
	if err != nil {
		logrus.Panic(err)
	}
	return file
}

// Close is file.Close() with panics in place of errors
func Close(file *os.File) {
	if err := file.Close(); err != nil {
		logrus.Panic(err)
	}
}
