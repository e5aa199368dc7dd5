package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tyjo/HipSTR/bamio"
	"github.com/tyjo/HipSTR/config"
	"github.com/tyjo/HipSTR/str"
)

var (
	bamFiles   []string
	bamSamps   []string
	regionFile string
	fastaDir   string
	bamOut     string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter STR-spanning reads from indexed BAM files and group them by sample",
	Run: func(cmd *cobra.Command, args []string) {
		settings := config.NewSettings()

		reader, err := bamio.OpenMulti(bamFiles)
		if err != nil {
			logrus.Fatalf("failed to open BAM files: %v", err)
		}
		defer func() {
			if err := reader.Close(); err != nil {
				logrus.Fatalf("failed to close BAM files: %v", err)
			}
		}()

		var writer *bamio.Writer
		if bamOut != "" {
			writer, err = bamio.Create(bamOut, reader.Header())
			if err != nil {
				logrus.Fatalf("failed to create BAM output %v: %v", bamOut, err)
			}
			defer func() {
				if err := writer.Close(); err != nil {
					logrus.Fatalf("failed to close BAM output %v: %v", bamOut, err)
				}
			}()
		}

		processor := &str.Processor{
			Thresholds: settings.Thresholds(),
			Genotyper:  str.NopGenotyper{},
			MaxRegions: settings.MaxRegions,
			Chrom:      settings.Chrom,
		}
		processor.ProcessRegions(reader, regionFile, fastaDir, fileReadGroups(bamFiles, bamSamps), writer, os.Stdout)
	},
}

// fileReadGroups maps each BAM file to its sample label: the matching
// entry of --bam-samps when given, the file basename otherwise.
func fileReadGroups(paths, samples []string) map[string]string {
	if len(samples) > 0 && len(samples) != len(paths) {
		logrus.Fatalf("--bam-samps lists %v samples for %v BAM files", len(samples), len(paths))
	}
	groups := make(map[string]string, len(paths))
	for i, path := range paths {
		if len(samples) > 0 {
			groups[path] = samples[i]
		} else {
			base := filepath.Base(path)
			groups[path] = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}
	return groups
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringSliceVar(&bamFiles, "bams", nil, "comma-separated list of indexed BAM files")
	filterCmd.Flags().StringSliceVar(&bamSamps, "bam-samps", nil, "comma-separated sample labels, one per BAM file")
	filterCmd.Flags().StringVar(&regionFile, "regions", "", "STR region file")
	filterCmd.Flags().StringVar(&fastaDir, "fasta-dir", "", "directory with one fasta file per chromosome")
	filterCmd.Flags().StringVar(&bamOut, "bam-out", "", "optional BAM output for annotated filtered reads")
	must(filterCmd.MarkFlagRequired("bams"))
	must(filterCmd.MarkFlagRequired("regions"))
	must(filterCmd.MarkFlagRequired("fasta-dir"))

	filterCmd.Flags().Int32("max-mate-dist", 1000, "maximum absolute insert size for a read's mate pair")
	filterCmd.Flags().Int32("min-flank", 5, "minimum number of bases a read must extend past the STR on each side")
	filterCmd.Flags().Int32("min-bp-before-indel", 7, "minimum bases between each read end and the first indel (0 disables)")
	filterCmd.Flags().Int32("maximal-end-match-window", 15, "window in which a read must achieve the maximal end matches (0 disables)")
	filterCmd.Flags().Int32("min-read-end-match", 10, "minimum perfect-match run length at both read ends (0 disables)")
	filterCmd.Flags().Bool("remove-multimappers", false, "drop reads with an XA alternate-alignment annotation")
	filterCmd.Flags().Int("max-regions", 0, "process at most this many regions (0 processes all)")
	filterCmd.Flags().String("chrom", "", "restrict processing to a single chromosome")

	must(viper.BindPFlag("filters.max-mate-dist", filterCmd.Flags().Lookup("max-mate-dist")))
	must(viper.BindPFlag("filters.min-flank", filterCmd.Flags().Lookup("min-flank")))
	must(viper.BindPFlag("filters.min-bp-before-indel", filterCmd.Flags().Lookup("min-bp-before-indel")))
	must(viper.BindPFlag("filters.maximal-end-match-window", filterCmd.Flags().Lookup("maximal-end-match-window")))
	must(viper.BindPFlag("filters.min-read-end-match", filterCmd.Flags().Lookup("min-read-end-match")))
	must(viper.BindPFlag("filters.remove-multimappers", filterCmd.Flags().Lookup("remove-multimappers")))
	must(viper.BindPFlag("max-regions", filterCmd.Flags().Lookup("max-regions")))
	must(viper.BindPFlag("chrom", filterCmd.Flags().Lookup("chrom")))
}

func must(err error) {
	if err != nil {
		logrus.Fatalf("%v", err)
	}
}
