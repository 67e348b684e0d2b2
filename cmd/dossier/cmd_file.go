package main

import (
	"strings"

	"github.com/spf13/cobra"

	models "dossier/internal/domain/models/structure"
)

var (
	fileOutput   string
	fileRole     string
	fileLanguage string
	fileModel    string
)

// fileCmd adds a single model-placed file to an existing hierarchy.
var fileCmd = &cobra.Command{
	Use:   "file <description of the needed document>",
	Short: "Add one file to an existing hierarchy",
	Long: `Describe a document and let the model pick the folder it belongs in
and name it. The output directory must hold a previously generated
hierarchy.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		o := models.Overrides{
			Role:     fileRole,
			Language: fileLanguage,
			Model:    fileModel,
		}
		return a.addFile(cmd.Context(), fileTarget(), strings.Join(args, " "), o)
	},
}

func fileTarget() string {
	if fileOutput != "" {
		return fileOutput
	}
	return cfg.OutputRoot
}

func init() {
	fileCmd.Flags().StringVarP(&fileOutput, "output", "o", "", "Hierarchy to add the file to (default from OUTPUT_ROOT)")
	fileCmd.Flags().StringVarP(&fileRole, "role", "r", "", "Role to phrase the request for")
	fileCmd.Flags().StringVarP(&fileLanguage, "language", "l", "", "Language override")
	fileCmd.Flags().StringVarP(&fileModel, "model", "m", "", "Model override")
	rootCmd.AddCommand(fileCmd)
}
