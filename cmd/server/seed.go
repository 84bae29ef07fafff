package main

import (
	"github.com/spf13/cobra"

	"github.com/career-roadmap/ai-gateway/internal/store"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the events and projects tables from a YAML file",
		Example: `  server seed
  server seed --file data/reference.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.ReferenceDataPath
			}

			data, err := store.LoadReferenceFile(file)
			if err != nil {
				return err
			}

			db, err := store.Open(cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SeedReference(cmd.Context(), data); err != nil {
				return err
			}
			log.Info().
				Str("file", file).
				Int("events", len(data.Events)).
				Int("projects", len(data.Projects)).
				Msg("reference data seeded")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "reference YAML (defaults to REFERENCE_DATA)")
	return cmd
}
