package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/obsfin/achfile/internal/config"
	"github.com/obsfin/achfile/internal/sftp"
	"github.com/obsfin/achfile/internal/store"
	"github.com/obsfin/achfile/internal/sync"
)

func newSyncCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Ingest files from the SFTP drop folder into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			remote, err := sftp.Connect(cfg.SFTP)
			if err != nil {
				return err
			}
			defer remote.Close()

			log := logrus.New()
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

			syncer := sync.New(st, remote, cfg.Sync, log)
			result, err := syncer.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s: %d/%d files synced, %d failed, %d invalid lines\n",
				result.RunID, result.Synced, result.TotalFiles, result.Failed, result.InvalidLines)
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  error: %s\n", e)
			}

			if result.Failed > 0 {
				return fmt.Errorf("%d files failed to sync", result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "achfile.yaml", "path to configuration file")

	return cmd
}
