package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockedit/internal/mapfile"
)

var flagImportName string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store a map file in the library",
	Long: `Read a YAML map file and store it in the library. The library name is
--name, else the name inside the file, else the file name. A file of "-"
reads the map from standard input.

Examples:
  blockedit import level.yaml
  blockedit import level.yaml --name arena
  cat level.yaml | blockedit import - --name arena`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&flagImportName, "name", "", "Library name (default from the file)")
}

func runImport(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(os.Stderr, cfg)

	var (
		doc mapfile.Document
		err error
	)
	if args[0] == "-" {
		doc, err = mapfile.Read(os.Stdin, cfg.Editor.DefaultZoom)
	} else {
		doc, err = mapfile.Load(args[0], cfg.Editor.DefaultZoom)
	}
	if err != nil {
		fatal("%v", err)
	}
	if flagImportName != "" {
		doc.Name = flagImportName
	}
	if doc.Name == "" {
		fatal("the map has no name; pass --name")
	}

	store, err := openStore(cfg)
	if err != nil {
		fatal("cannot open map library: %v", err)
	}
	defer store.Close()

	replaced, err := store.MapExists(doc.Name)
	if err != nil {
		fatal("%v", err)
	}
	if err := store.SaveMap(doc); err != nil {
		fatal("%v", err)
	}
	logger.Info("map imported", "name", doc.Name, "file", args[0], "blocks", doc.Map.Count(), "replaced", replaced)
	verb := "Imported"
	if replaced {
		verb = "Replaced"
	}
	fmt.Printf("%s %q (%dx%d, %d blocks).\n", verb, doc.Name, doc.Map.W(), doc.Map.H(), doc.Map.Count())
}
