package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qclab/quorch/helper/stringutil"
	"github.com/qclab/quorch/qaoa"
	"github.com/qclab/quorch/sat"
)

var (
	landscapeInstanceFile string
	landscapeStep         float64
	landscapeOut          string
)

var landscapeCmd = &cobra.Command{
	Use:   "landscape",
	Short: "Sweep the energy landscape of an instance",
	Long: `Evaluate the single round QAOA energy of a 3-SAT instance over a
regular (alpha, beta) grid covering [-pi, pi) and write it as a CSV file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		instance, err := sat.LoadInstance(landscapeInstanceFile)
		if err != nil {
			return err
		}
		points, err := qaoa.BuildLandscape(instance, landscapeStep, false)
		if err != nil {
			return err
		}

		outPath := landscapeOut
		if outPath == "" {
			if err := os.MkdirAll(cfg.ResultsDirectory, 0755); err != nil {
				return err
			}
			outPath = filepath.Join(cfg.ResultsDirectory, stringutil.FileStem(landscapeInstanceFile)+"_landscape.csv")
		}
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := qaoa.WriteLandscape(f, points); err != nil {
			return err
		}
		fmt.Printf("landscape: %s (%d points)\n", outPath, len(points))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(landscapeCmd)
	landscapeCmd.PersistentFlags().StringVarP(&landscapeInstanceFile, "instance", "i", "", "3-SAT instance file to sweep")
	landscapeCmd.PersistentFlags().Float64VarP(&landscapeStep, "step", "s", qaoa.DefaultLandscapeStep, "Angle increment of the grid")
	landscapeCmd.PersistentFlags().StringVarP(&landscapeOut, "out", "o", "", "Output CSV file (default is <instance>_landscape.csv in the results directory)")
	landscapeCmd.MarkPersistentFlagRequired("instance")
}
