package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"storefront/server"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(catalogStore, server.Options{
				PerPage:         viper.GetInt("per-page"),
				RefreshSchedule: viper.GetString("refresh"),
			})
			return srv.Run(cmd.Context(), viper.GetString("addr"))
		},
	}
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("refresh", server.DefaultRefreshSchedule, "cron schedule for catalog refresh; empty disables")
	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("refresh", serveCmd.Flags().Lookup("refresh"))
	rootCmd.AddCommand(serveCmd)
}
