package internal

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

// ParseInt is strconv.ParseInt with panics in place of errors
func ParseInt(s string, base, bitSize int) int64 {
	result, err := strconv.ParseInt(s, base, bitSize)
	if err != nil {
		logrus.Panic(err)
	}
	return result
}
