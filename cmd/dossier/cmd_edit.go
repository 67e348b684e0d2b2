package main

import (
	"github.com/spf13/cobra"

	models "dossier/internal/domain/models/structure"
)

var (
	editOutput    string
	editCount     int
	editRole      string
	editModel     string
	editDateStart string
	editDateEnd   string
)

// editCmd regenerates a handful of files under a new role and period.
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Regenerate selected files for a new role and date range",
	Long: `Pick files from an existing hierarchy and regenerate them as if a
different role produced them in a different period. The role and date
range come from the flags alone; the original run's values are
deliberately not reused.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o := models.Overrides{
			Role:  editRole,
			Model: editModel,
		}
		var err error
		if o.DateStart, err = parseDateFlag("date-start", editDateStart); err != nil {
			return err
		}
		if o.DateEnd, err = parseDateFlag("date-end", editDateEnd); err != nil {
			return err
		}
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		return a.edit(cmd.Context(), editTarget(), editCount, o)
	},
}

func editTarget() string {
	if editOutput != "" {
		return editOutput
	}
	return cfg.OutputRoot
}

func init() {
	editCmd.Flags().StringVarP(&editOutput, "output", "o", "", "Hierarchy to edit (default from OUTPUT_ROOT)")
	editCmd.Flags().IntVarP(&editCount, "count", "n", 3, "Number of files to regenerate")
	editCmd.Flags().StringVarP(&editRole, "role", "r", "", "Role the regenerated files belong to")
	editCmd.Flags().StringVarP(&editModel, "model", "m", "", "Model override")
	editCmd.Flags().StringVar(&editDateStart, "date-start", "", "Start of the new period (YYYY-MM-DD)")
	editCmd.Flags().StringVar(&editDateEnd, "date-end", "", "End of the new period (YYYY-MM-DD)")
	rootCmd.AddCommand(editCmd)
}
