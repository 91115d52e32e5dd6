package commands

import (
	"context"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qclab/quorch/log"
	"github.com/qclab/quorch/slurm"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path>...",
	Short: "Upload files or directories to the cluster",
	Long: `Copy local files or directory trees under the remote base directory
of the cluster, preserving their relative layout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		executor, err := slurm.NewExecutor(cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		remoteBase := cfg.Cluster.RemoteBaseDirectory
		for _, localPath := range args {
			remoteDir := remoteBase
			if info, serr := os.Stat(localPath); serr == nil && info.IsDir() {
				remoteDir = path.Join(remoteBase, filepath.Base(filepath.Clean(localPath)))
			}
			log.Printf("Uploading %q to %q", localPath, remoteDir)
			if err := executor.UploadTree(ctx, localPath, remoteDir); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(uploadCmd)
}
