package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilenav/internal/level"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all available levels",
	Long:  `Shows the built-in levels and those found in the --levels directory.`,
	Run:   runLevels,
}

func runLevels(cmd *cobra.Command, args []string) {
	levels, err := level.NewLoader(flagLevels).LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(levels) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Available levels:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, l := range levels {
		maxIDLen = max(maxIDLen, len(l.ID))
	}

	fmt.Printf("  %-*s  %-7s  %-6s  %s\n", maxIDLen, "ID", "Size", "Agents", "Name")
	fmt.Printf("  %-*s  %-7s  %-6s  %s\n", maxIDLen, "--", "----", "------", "----")

	for _, l := range levels {
		size := fmt.Sprintf("%dx%d", l.Width(), l.Height())
		name := l.Name
		if l.FilePath != "" && !strings.HasPrefix(l.FilePath, "builtin:") {
			name += " (" + l.FilePath + ")"
		}
		fmt.Printf("  %-*s  %-7s  %-6d  %s\n", maxIDLen, l.ID, size, len(l.Agents), name)
	}

	fmt.Println()
	fmt.Println("Run 'tilenav view <id>' to watch a level.")
}
