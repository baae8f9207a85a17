package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List the map library",
	Long:  `Shows the maps stored in the library, most recently saved first.`,
	Args:  cobra.NoArgs,
	Run:   runMaps,
}

var mapsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a map from the library",
	Args:  cobra.ExactArgs(1),
	Run:   runMapsDelete,
}

func init() {
	mapsCmd.AddCommand(mapsDeleteCmd)
}

func runMaps(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store, err := openStore(cfg)
	if err != nil {
		fatal("cannot open map library: %v", err)
	}
	defer store.Close()

	entries, err := store.ListMaps()
	if err != nil {
		fatal("%v", err)
	}

	if len(entries) == 0 {
		fmt.Println("No maps stored yet.")
		fmt.Println()
		fmt.Println("Run 'blockedit open <name>' to start one.")
		return
	}

	maxNameLen := 4 // "Name" header
	for _, e := range entries {
		if len(e.Name) > maxNameLen {
			maxNameLen = len(e.Name)
		}
	}

	fmt.Printf("  %-*s  %-9s  %-6s  %s\n", maxNameLen, "Name", "Size", "Blocks", "Updated")
	fmt.Printf("  %-*s  %-9s  %-6s  %s\n", maxNameLen, "----", "----", "------", "-------")
	for _, e := range entries {
		fmt.Printf("  %-*s  %-9s  %-6d  %s\n",
			maxNameLen, e.Name,
			fmt.Sprintf("%dx%d", e.Width, e.Height),
			e.Blocks,
			e.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}
}

func runMapsDelete(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	store, err := openStore(cfg)
	if err != nil {
		fatal("cannot open map library: %v", err)
	}
	defer store.Close()

	if err := store.DeleteMap(args[0]); err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Deleted %q.\n", args[0])
}
