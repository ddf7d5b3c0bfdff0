package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ls-toolkit/lstoolkit/pkg/elog"
)

var (
	flagVerbose bool
	flagDebug   bool
	flagForce   bool
)

var rootCmd = &cobra.Command{
	Use:   "lstoolkit",
	Short: "lstoolkit reads and writes proprietary RPG asset formats",
	Long: `lstoolkit is a command-line interface for the LSPK/LSF/LSX/LSJ/LOCA
binary-asset family: packing and unpacking LSPK archives, converting between
the binary and textual tree document forms, extracting virtual-texture
layers to DDS, and resolving merged-asset and dialog banks.`,
}

func commandInit() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger := &elog.CLI{}
		logrus.SetFormatter(logger)
		logrus.SetLevel(logrus.TraceLevel)

		if flagDebug {
			logger.IsDebug = true
			logger.IsVerbose = true
		} else if flagVerbose {
			logger.IsVerbose = true
		}
		log = logger
		return nil
	}

	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(unpackCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(vtexCmd)
	rootCmd.AddCommand(mergedCmd)
	rootCmd.AddCommand(dialogCmd)
}
