package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dossier/internal/locale"
)

// languagesCmd lists the shipped language packs.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List available languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := locale.LoadBundle()
		if err != nil {
			return err
		}
		for _, lang := range bundle.Languages() {
			fmt.Println(lang)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
