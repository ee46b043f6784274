package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"claif-api/config"
	"claif-api/repository"
)

func migrate(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "apply database schema",
		Run: func(cmd *cobra.Command, args []string) {
			repo := repository.NewRepo(config.DB)
			if err := repo.Migrate(); err != nil {
				log.Fatal().Err(err).Msg("migration failed")
			}
			log.Info().Msg("migration complete")
		},
	}
}
