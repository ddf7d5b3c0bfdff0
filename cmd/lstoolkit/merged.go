package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ls-toolkit/lstoolkit/pkg/merged"
)

var flagVisualName string

var mergedCmd = &cobra.Command{
	Use:   "merged",
	Short: "Work with merged-asset banks",
}

var mergedBuildCmd = &cobra.Command{
	Use:   "build SOURCE... OUTPUT.json",
	Short: "Ingest merged-asset banks from PAKs/directories and save a resolved database",
	Long: `merged build reads one or more LSF/LSX sources (PAK archives or
directories holding *_merged.lsf files), merges their Visual/Material/
Texture/VirtualTexture banks in the order given, resolves every
cross-reference, and writes the resolved visuals to OUTPUT.json.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sources, output := args[:len(args)-1], args[len(args)-1]
		if err := runMergedBuild(sources, output); err != nil {
			setError(err, 1)
			return
		}
	},
}

func init() {
	mergedBuildCmd.Flags().StringVar(&flagVisualName, "lookup", "", "print the resolved visual with this name after building")
	mergedCmd.AddCommand(mergedBuildCmd)
}

func runMergedBuild(sources []string, output string) error {
	db := merged.NewMergedDatabase()

	for _, s := range sources {
		src, err := sourceFor(s)
		if err != nil {
			return err
		}
		log.Infof("ingesting %s", s)
		if err := merged.Ingest(db, src); err != nil {
			return fmt.Errorf("ingesting %s: %w", s, err)
		}
	}

	db.Resolve()

	if err := db.SaveJSONFile(output); err != nil {
		return err
	}
	log.Printf("wrote merged database: %s", output)

	if flagVisualName != "" {
		visual, ok := db.GetByVisualName(flagVisualName)
		if !ok {
			return fmt.Errorf("visual %q not found", flagVisualName)
		}
		log.Printf("%s -> %s (%d texture refs, %d virtual texture refs)",
			visual.Name, visual.GR2Filename, len(visual.TextureRefs), len(visual.VirtualTextureRefs))
	}
	return nil
}

func sourceFor(path string) (merged.Source, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".pak"):
		return merged.Source{Pak: path}, nil
	case strings.HasSuffix(lower, ".lsf"):
		return merged.Source{LSFPath: path}, nil
	case strings.HasSuffix(lower, ".lsx"):
		return merged.Source{LSXPath: path}, nil
	default:
		return merged.Source{Dir: path}, nil
	}
}
