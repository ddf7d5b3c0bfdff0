package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ls-toolkit/lstoolkit/pkg/convert"
	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
	"github.com/ls-toolkit/lstoolkit/pkg/loca"
	"github.com/ls-toolkit/lstoolkit/pkg/lsf"
)

var flagLSFCompression string

var convertCmd = &cobra.Command{
	Use:   "convert SOURCE DEST",
	Short: "Convert between LSF, LSX, LSJ and LOCA/XML document forms",
	Long: `convert dispatches on the SOURCE and DEST file extensions (.lsf,
.lsx, .lsj, .loca, .loca.xml) and routes through the matching decode/encode
pair. Converting an LSF document preserves its node tree exactly; only the
physical encoding changes.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		src, dest := args[0], args[1]
		if err := runConvert(src, dest); err != nil {
			setError(err, 1)
			return
		}
		log.Printf("wrote %s", dest)
	},
}

func init() {
	convertCmd.Flags().StringVar(&flagLSFCompression, "lsf-compression", "lz4", "LSF output compression: none, zlib, lz4")
}

func lsfCompressionMethod() (lsf.CompressionMethod, error) {
	switch flagLSFCompression {
	case "none":
		return lsf.CompressionNone, nil
	case "zlib":
		return lsf.CompressionZlib, nil
	case "lz4", "":
		return lsf.CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown LSF compression method %q", flagLSFCompression)
	}
}

func runConvert(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil && filepath.Dir(dest) != "." {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	srcKind := kindOf(src)
	destKind := kindOf(dest)

	if srcKind == "loca" || destKind == "loca" {
		return convertLoca(in, out, srcKind, destKind)
	}

	doc, err := decodeDoc(in, srcKind)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", src, err)
	}

	switch destKind {
	case "lsf":
		method, err := lsfCompressionMethod()
		if err != nil {
			return err
		}
		return convert.ToLSF(out, doc, lsf.EncodeOptions{Compression: method})
	case "lsx":
		return convert.ToLSX(out, doc)
	case "lsj":
		return convert.ToLSJ(out, doc)
	default:
		return fmt.Errorf("unsupported destination format %q", dest)
	}
}

func convertLoca(in *os.File, out *os.File, srcKind, destKind string) error {
	switch {
	case srcKind == "loca" && destKind == "locaxml":
		entries, err := readLoca(in)
		if err != nil {
			return err
		}
		return convert.LocaToXML(out, entries)
	case srcKind == "locaxml" && destKind == "loca":
		entries, err := convert.LocaFromXML(in)
		if err != nil {
			return err
		}
		return writeLoca(out, entries)
	default:
		return fmt.Errorf("unsupported LOCA conversion %s -> %s", srcKind, destKind)
	}
}

func decodeDoc(r *os.File, kind string) (*doctree.Document, error) {
	switch kind {
	case "lsf":
		return convert.FromLSF(r)
	case "lsx":
		return convert.FromLSX(r)
	case "lsj":
		return convert.FromLSJ(r)
	default:
		return nil, fmt.Errorf("unsupported source format for %s", r.Name())
	}
}

func readLoca(r *os.File) ([]loca.Entry, error) {
	return loca.Decode(r)
}

func writeLoca(w *os.File, entries []loca.Entry) error {
	return loca.Encode(w, entries)
}

func kindOf(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".loca.xml"):
		return "locaxml"
	case strings.HasSuffix(lower, ".loca"):
		return "loca"
	case strings.HasSuffix(lower, ".lsf"):
		return "lsf"
	case strings.HasSuffix(lower, ".lsx"):
		return "lsx"
	case strings.HasSuffix(lower, ".lsj"):
		return "lsj"
	default:
		return filepath.Ext(lower)
	}
}
