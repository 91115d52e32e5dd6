package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qclab/quorch/params"
)

var (
	gridFile     string
	templateFile string
	gridOutDir   string
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Generate ready parameter files from a grid",
	Long: `Expand a YAML parameter grid against a template into one ready JSON
parameter file per (algorithm, budget, rounds) combination.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		outDir := gridOutDir
		if outDir == "" {
			outDir = cfg.ParamsDirectory
		}
		grid, err := params.LoadGrid(gridFile)
		if err != nil {
			return err
		}
		template, err := params.LoadTemplate(templateFile)
		if err != nil {
			return err
		}
		files, err := params.Generate(grid, template, outDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(gridCmd)
	gridCmd.PersistentFlags().StringVarP(&gridFile, "grid", "g", "params/grid.yaml", "YAML grid of algorithm, budget and rounds values")
	gridCmd.PersistentFlags().StringVarP(&templateFile, "template", "t", "params/template.yaml", "YAML template of the generated parameter files")
	gridCmd.PersistentFlags().StringVarP(&gridOutDir, "out", "o", "", "Output directory (default is the ready parameters directory)")
}
