package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ls-toolkit/lstoolkit/pkg/lspk"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack PACKAGE.pak DEST_DIR",
	Short: "Unpack an LSPK archive into a directory",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		archivePath, destDir := args[0], args[1]

		r, err := lspk.Open(archivePath)
		if err != nil {
			setError(err, 1)
			return
		}
		defer r.Close()

		entries := r.List()
		pb := log.NewProgress(fmt.Sprintf("unpacking %s", archivePath), "%", int64(len(entries)))
		extracted, failures, err := r.ExtractAll(destDir)
		pb.Finish(err == nil)
		if err != nil {
			setError(err, 2)
			return
		}

		for _, f := range failures {
			log.Warnf("%s: %v", f.Path, f.Err)
		}
		log.Printf("extracted %d of %d files to %s", len(extracted), len(entries), destDir)
	},
}
