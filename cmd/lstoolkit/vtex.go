package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ls-toolkit/lstoolkit/pkg/vtex"
	"github.com/ls-toolkit/lstoolkit/pkg/vtexconfig"
)

var flagLayer string

var vtexCmd = &cobra.Command{
	Use:   "vtex",
	Short: "Work with GTS/GTP virtual-texture files",
}

var vtexExtractCmd = &cobra.Command{
	Use:   "extract GTS_FILE OUTPUT_DIR",
	Short: "Extract a virtual-texture layer from a GTS/GTP pair to DDS",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runVtexExtract(args[0], args[1]); err != nil {
			setError(err, 1)
			return
		}
	},
}

func init() {
	vtexExtractCmd.Flags().StringVar(&flagLayer, "layer", "albedo", "layer to extract: albedo, normal, physical")
	vtexCmd.AddCommand(vtexExtractCmd)
}

func layerNumber(name string) (int, error) {
	switch strings.ToLower(name) {
	case "albedo":
		return vtex.LayerAlbedo, nil
	case "normal":
		return vtex.LayerNormal, nil
	case "physical":
		return vtex.LayerPhysical, nil
	default:
		return 0, fmt.Errorf("unknown layer %q", name)
	}
}

func runVtexExtract(gtsPath, outDir string) error {
	f, err := os.Open(gtsPath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	g, err := vtex.ParseGTS(f, info.Size())
	if err != nil {
		return err
	}

	layer, err := layerNumber(flagLayer)
	if err != nil {
		return err
	}

	pb := log.NewProgress(fmt.Sprintf("extracting %s layer", vtex.LayerName(layer)), "", 0)
	result, err := vtex.ExtractLayer(g, filepath.Dir(gtsPath), layer)
	pb.Finish(err == nil)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	stem := vtex.OutputStem(gtsPath)
	cfg, found, err := vtexconfig.Load(filepath.Join(filepath.Dir(gtsPath), stem+".vtex.yml"))
	if err != nil {
		return err
	}
	outName := stem + ".dds"
	if found {
		// The config is keyed by the hash the .gts name carries after stem.
		gtsBase := strings.TrimSuffix(filepath.Base(gtsPath), filepath.Ext(gtsPath))
		if gtsBase != stem {
			if name, ok := cfg.FilenameForHash(gtsBase[len(stem)+1:]); ok {
				outName = name
			}
		}
	}

	out, err := os.Create(filepath.Join(outDir, outName))
	if err != nil {
		return err
	}
	defer out.Close()

	if err := vtex.WriteDDS(out, result.Width, result.Height, result.FourCC, result.Pixels); err != nil {
		return err
	}

	log.Printf("wrote %s (%dx%d)", outName, result.Width, result.Height)
	return nil
}
