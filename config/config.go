// Package config holds the run-wide settings, unmarshalled from Viper
// (see /cmd for the flags they are bound to).
package config

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/tyjo/HipSTR/filters"
)

// FilterSettings mirrors filters.Thresholds for unmarshalling.
type FilterSettings struct {
	// maximum absolute insert size for a spanning read's mate pair
	MaxMateDist int32 `mapstructure:"max-mate-dist"`

	// minimum number of bases a read must extend past the STR on each side
	MinFlank int32 `mapstructure:"min-flank"`

	// minimum number of bases between each read end and the first indel;
	// 0 disables the check
	MinBPBeforeIndel int32 `mapstructure:"min-bp-before-indel"`

	// window around the reported position in which the read must achieve
	// the maximal number of end matches; 0 disables the check
	MaximalEndMatchWindow int32 `mapstructure:"maximal-end-match-window"`

	// minimum perfect-match run length required at both read ends;
	// 0 disables the check
	MinReadEndMatch int32 `mapstructure:"min-read-end-match"`

	// drop reads carrying an XA alternate-alignment annotation
	RemoveMultimappers bool `mapstructure:"remove-multimappers"`
}

// Settings is the root-level settings struct, a mix of values from an
// optional config file and command line arguments.
type Settings struct {
	Filters FilterSettings `mapstructure:"filters"`

	// cap on the number of regions read from the region file; <= 0 reads all
	MaxRegions int `mapstructure:"max-regions"`

	// restrict processing to a single chromosome when non-empty
	Chrom string `mapstructure:"chrom"`
}

// SetDefaults installs the default thresholds into Viper. Call once before
// binding flags.
func SetDefaults() {
	defaults := filters.DefaultThresholds()
	viper.SetDefault("filters.max-mate-dist", defaults.MaxMateDist)
	viper.SetDefault("filters.min-flank", defaults.MinFlank)
	viper.SetDefault("filters.min-bp-before-indel", defaults.MinBPBeforeIndel)
	viper.SetDefault("filters.maximal-end-match-window", defaults.MaximalEndMatchWindow)
	viper.SetDefault("filters.min-read-end-match", defaults.MinReadEndMatch)
	viper.SetDefault("filters.remove-multimappers", defaults.RemoveMultimappers)
	viper.SetDefault("max-regions", 0)
	viper.SetDefault("chrom", "")
}

// NewSettings returns a Settings struct populated by Viper, from the
// config file and/or command line arguments.
func NewSettings() Settings {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		logrus.Fatalf("unable to decode settings, %v", err)
	}
	return s
}

// Thresholds converts the filter settings into the cascade configuration.
func (s *Settings) Thresholds() filters.Thresholds {
	return filters.Thresholds{
		MaxMateDist:           s.Filters.MaxMateDist,
		MinFlank:              s.Filters.MinFlank,
		MinBPBeforeIndel:      s.Filters.MinBPBeforeIndel,
		MaximalEndMatchWindow: s.Filters.MaximalEndMatchWindow,
		MinReadEndMatch:       s.Filters.MinReadEndMatch,
		RemoveMultimappers:    s.Filters.RemoveMultimappers,
	}
}
