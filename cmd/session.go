package cmd

import (
	"context"
	"crowdfund/domain/config"

	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connects the wallet",
	Long:  `Asks the wallet for account access and switches it to the required network.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := defaultDependencyInject(ctx); err != nil {
			return err
		}
		defer teardown()

		account, err := sessionInteractor.Connect(ctx)
		if err != nil {
			return err
		}
		state, _ := sessionInteractor.State()
		return output.Account(state.String(), account, config.GetNetworkName())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the wallet connection",
	Long:  `Checks for an already authorized account without prompting the wallet holder.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := defaultDependencyInject(ctx); err != nil {
			return err
		}
		defer teardown()

		if _, err := sessionInteractor.CheckConnection(ctx); err != nil {
			return err
		}
		state, account := sessionInteractor.State()
		return output.Account(state.String(), account, config.GetNetworkName())
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(statusCmd)
}
