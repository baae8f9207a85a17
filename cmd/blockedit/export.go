package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockedit/internal/export"
	"github.com/vovakirdan/blockedit/internal/mapfile"
)

var (
	flagExportOut  string
	flagExportFile string
	flagExportPNG  bool
	flagCellSize   int
	flagGrid       bool
	flagCaption    string
)

var exportCmd = &cobra.Command{
	Use:   "export [name]",
	Short: "Write a library map as YAML or PNG",
	Long: `Export a library map (or a map file given with --file) as a YAML map
file or a PNG image. The format follows the --out extension; --png forces an
image. An --out of "-" writes to standard output.

Examples:
  blockedit export arena --out arena.yaml
  blockedit export arena --out arena.png --cell 24 --grid
  blockedit export --file level.yaml --out level.png
  blockedit export arena --png -o - > arena.png`,
	Args: cobra.MaximumNArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output path (required)")
	exportCmd.Flags().StringVar(&flagExportFile, "file", "", "Read the map from a YAML file instead of the library")
	exportCmd.Flags().BoolVar(&flagExportPNG, "png", false, "Write a PNG image")
	exportCmd.Flags().IntVar(&flagCellSize, "cell", export.DefaultCellSize, "PNG pixels per block")
	exportCmd.Flags().BoolVar(&flagGrid, "grid", false, "Draw grid lines in the PNG")
	exportCmd.Flags().StringVar(&flagCaption, "caption", "", "PNG caption (default: map name)")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	var doc mapfile.Document
	switch {
	case flagExportFile != "":
		var err error
		doc, err = mapfile.Load(flagExportFile, cfg.Editor.DefaultZoom)
		if err != nil {
			fatal("%v", err)
		}
	case len(args) == 1:
		store, err := openStore(cfg)
		if err != nil {
			fatal("cannot open map library: %v", err)
		}
		doc, err = store.LoadMap(args[0], cfg.Editor.DefaultZoom)
		store.Close()
		if err != nil {
			fatal("%v", err)
		}
	default:
		fatal("give a library map name or --file")
	}

	png := flagExportPNG || strings.EqualFold(filepath.Ext(flagExportOut), ".png")
	opts := export.PNGOptions{CellSize: flagCellSize, Grid: flagGrid, Caption: flagCaption}
	palette := newPalette(cfg)

	if flagExportOut == "-" {
		if png {
			if err := export.WritePNG(os.Stdout, doc, palette, opts); err != nil {
				fatal("%v", err)
			}
			return
		}
		data, err := mapfile.Encode(doc)
		if err != nil {
			fatal("%v", err)
		}
		if _, err := os.Stdout.Write(data); err != nil {
			fatal("%v", err)
		}
		return
	}

	if png {
		if err := export.SavePNG(flagExportOut, doc, palette, opts); err != nil {
			fatal("%v", err)
		}
	} else if err := mapfile.Save(flagExportOut, doc); err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Wrote %s.\n", flagExportOut)
}
