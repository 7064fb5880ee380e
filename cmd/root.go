package cmd

import (
	"crowdfund/domain/config"
	"crowdfund/interface/presenter"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "crowdfund",
	Short: "Crowdfunding contract client",
	Long: `Client for the Genesis crowdfunding contract. It connects a wallet,
lists projects and their backers, and creates, updates, deletes, backs and
pays out projects.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ReadConfig(cfgFile); err != nil {
			return err
		}

		format, err := presenter.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		output = presenter.New(cmd.OutOrStdout(), format)
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", string(presenter.FormatTable), "output format: table, json or yaml")
}
