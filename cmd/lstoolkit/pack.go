package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ls-toolkit/lstoolkit/pkg/lspk"
)

var flagCompression string

var packCmd = &cobra.Command{
	Use:   "pack SOURCE_DIR OUTPUT.pak",
	Short: "Create an LSPK archive from a directory tree",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sourceDir, outputPath := args[0], args[1]

		if !flagForce {
			if _, err := os.Stat(outputPath); err == nil {
				setError(fmt.Errorf("%s already exists, pass --force to overwrite", outputPath), 1)
				return
			}
		}

		method := lspk.CompressionLZ4
		switch flagCompression {
		case "none":
			method = lspk.CompressionNone
		case "zlib":
			method = lspk.CompressionZlib
		case "lz4", "":
		default:
			setError(fmt.Errorf("unknown compression method %q", flagCompression), 2)
			return
		}

		pb := log.NewProgress(fmt.Sprintf("packing %s", sourceDir), "", 0)
		err := lspk.Write(sourceDir, outputPath, lspk.WriteOptions{Compression: method})
		pb.Finish(err == nil)
		if err != nil {
			setError(err, 3)
			return
		}

		log.Printf("created archive: %s", outputPath)
	},
}

func init() {
	f := packCmd.Flags()
	f.BoolVarP(&flagForce, "force", "f", false, "overwrite an existing archive")
	f.StringVar(&flagCompression, "compression", "lz4", "compression method: none, zlib, lz4")
}
