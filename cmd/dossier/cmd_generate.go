package main

import (
	"github.com/spf13/cobra"

	models "dossier/internal/domain/models/structure"
)

var (
	genOutput      string
	genIndustry    string
	genRole        string
	genLanguage    string
	genModel       string
	genDateStart   string
	genDateEnd     string
	genSample      string
	genConcurrency int
	genMaxRepairs  int
)

// allCmd generates a structure and fills its files with placeholder
// content.
var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Generate a folder structure and placeholder file content",
	Long: `Generate the full output: the folder hierarchy, placeholder files,
and filler content appropriate to each file type.

Running against an existing output directory resumes with the
parameters recorded there; explicit flags always win over recorded
parameters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, true)
	},
}

// structureCmd generates the hierarchy only, leaving files empty.
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Generate the folder structure only, with empty files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, false)
	},
}

func runGenerate(cmd *cobra.Command, withContent bool) error {
	o, err := generationOverrides()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	return a.generate(cmd.Context(), output(), o, withContent)
}

func generationOverrides() (models.Overrides, error) {
	o := models.Overrides{
		Industry:    genIndustry,
		Role:        genRole,
		Language:    genLanguage,
		Model:       genModel,
		Sample:      genSample,
		Concurrency: genConcurrency,
		MaxRepairs:  genMaxRepairs,
	}
	var err error
	if o.DateStart, err = parseDateFlag("date-start", genDateStart); err != nil {
		return o, err
	}
	if o.DateEnd, err = parseDateFlag("date-end", genDateEnd); err != nil {
		return o, err
	}
	return o, nil
}

func output() string {
	if genOutput != "" {
		return genOutput
	}
	return cfg.OutputRoot
}

func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output directory (default from OUTPUT_ROOT)")
	cmd.Flags().StringVarP(&genIndustry, "industry", "i", "", "Industry the business operates in")
	cmd.Flags().StringVarP(&genRole, "role", "r", "", "Role whose working documents to emphasize")
	cmd.Flags().StringVarP(&genLanguage, "language", "l", "", "Language for prompts and generated names")
	cmd.Flags().StringVarP(&genModel, "model", "m", "", "Model to use (lorem-* runs offline)")
	cmd.Flags().StringVar(&genDateStart, "date-start", "", "Start of the covered period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&genDateEnd, "date-end", "", "End of the covered period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&genSample, "sample", "", "Existing directory or outline text to take style cues from")
	cmd.Flags().IntVar(&genConcurrency, "concurrency", 0, "Concurrent model exchanges per level")
	cmd.Flags().IntVar(&genMaxRepairs, "max-repairs", 0, "Repair attempts per rejected response")
}

func init() {
	addGenerationFlags(allCmd)
	addGenerationFlags(structureCmd)
	rootCmd.AddCommand(allCmd)
	rootCmd.AddCommand(structureCmd)
}
