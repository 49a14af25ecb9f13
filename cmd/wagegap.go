package cmd

import (
	"fmt"

	"github.com/chrisdamba/runwaysim/internal/wagegap"
	"github.com/spf13/cobra"
)

var wagegapData string

var wagegapCmd = &cobra.Command{
	Use:   "wagegap",
	Short: "Estimates the gender wage gap from a labour force survey extract",
	Long: `wagegap fits two log-wage regressions on a survey CSV: a human capital model (age, education, gender)
and an extended model adding sector, social group, firm size and occupation, and reports the gender wage gap of each.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		survey, err := wagegap.LoadSurvey(wagegapData)
		if err != nil {
			return err
		}

		analysis, err := wagegap.Analyze(survey)
		if err != nil {
			return fmt.Errorf("wage gap analysis failed: %w", err)
		}
		return analysis.Write(cmd.OutOrStdout())
	},
}

func init() {
	wagegapCmd.Flags().StringVar(&wagegapData, "data", "", "survey CSV file")
	_ = wagegapCmd.MarkFlagRequired("data")
}
