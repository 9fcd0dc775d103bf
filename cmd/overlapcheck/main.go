//overlapcheck tests a set of time intervals for overlaps.
//
//Intervals are given as arguments of the form START/END[=LABEL] with RFC3339 timestamps or read
//from a .json or .cbor interval file with --input.
package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/inconshreveable/log15"
	"github.com/spf13/cobra"

	"github.com/netsec-ethz/overlap/internal/pkg/intervalfile"
	"github.com/netsec-ethz/overlap/pkg/overlap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags flagValues
	var config Config
	root := &cobra.Command{
		Use:           "overlapcheck",
		Short:         "Finds overlapping time intervals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if config, err = loadConfig(flags.configPath); err != nil {
				return err
			}
			flags.apply(cmd.Flags(), &config)
			return setupLogging(config.LogLevel)
		},
	}
	flags.register(root.PersistentFlags())

	var input string
	has := &cobra.Command{
		Use:   "has [START/END[=LABEL]...]",
		Short: "Prints true if any two intervals overlap",
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges, err := readIntervals(input, args)
			if err != nil {
				return err
			}
			ok, err := overlap.NewDetector(config.Detector).HasOverlap(config.TestEndpoints, ranges...)
			if err != nil {
				return report(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
	has.Flags().StringVarP(&input, "input", "i", "", "interval file (.json or .cbor)")

	pairs := &cobra.Command{
		Use:   "pairs [START/END[=LABEL]...]",
		Short: "Prints every pair of overlapping intervals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges, err := readIntervals(input, args)
			if err != nil {
				return err
			}
			result, err := overlap.NewDetector(config.Detector).OverlappingPairs(config.TestEndpoints, ranges...)
			if err != nil {
				return report(err)
			}
			for _, p := range result {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	pairs.Flags().StringVarP(&input, "input", "i", "", "interval file (.json or .cbor)")

	var output string
	convert := &cobra.Command{
		Use:   "convert",
		Short: "Converts an interval file between the json and cbor format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges, err := intervalfile.Load(input)
			if err != nil {
				return report(err)
			}
			if err := intervalfile.Store(output, ranges); err != nil {
				return report(err)
			}
			log.Info("Converted interval file", "input", input, "output", output, "intervals", len(ranges))
			return nil
		},
	}
	convert.Flags().StringVarP(&input, "input", "i", "", "interval file to read (.json or .cbor)")
	convert.Flags().StringVarP(&output, "output", "o", "", "interval file to write (.json or .cbor)")
	convert.MarkFlagRequired("input")
	convert.MarkFlagRequired("output")

	root.AddCommand(has, pairs, convert)
	return root
}

//readIntervals returns the intervals of the file at path followed by those given as arguments.
func readIntervals(path string, args []string) ([]overlap.Interval, error) {
	var ranges []overlap.Interval
	if path != "" {
		loaded, err := intervalfile.Load(path)
		if err != nil {
			return nil, report(err)
		}
		ranges = append(ranges, loaded...)
	}
	parsed, err := intervalfile.ParseAll(args)
	if err != nil {
		return nil, report(err)
	}
	return append(ranges, parsed...), nil
}

func report(err error) error {
	switch {
	case errors.Is(err, overlap.ErrInvalidArgument):
		log.Error("At least two intervals are required", "error", err)
	case errors.Is(err, overlap.ErrInvalidRange):
		log.Error("Interval ends before it starts", "error", err)
	default:
		log.Error("overlapcheck failed", "error", err)
	}
	return err
}
