package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veritaslabs/veritas/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "veritasd",
		Short: "Veritas daemon",
		Long:  "Veritas daemon for running the retrieval and grounding API server",
	}

	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
