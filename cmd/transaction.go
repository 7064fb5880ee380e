package cmd

import (
	"context"
	"crowdfund/domain"
	"crowdfund/usecase"

	"github.com/spf13/cobra"
)

type projectFlags struct {
	title       string
	description string
	imageURL    string
	cost        string
	expires     string
	docLink     string
}

var createFlags projectFlags
var updateFlags projectFlags

func (f projectFlags) content() (string, string, string) {
	return f.title, usecase.DocumentLink(f.description, f.docLink), f.imageURL
}

// runTransaction injects the dependencies, submits through call and prints the
// confirmed transaction.
func runTransaction(call func(ctx context.Context) (*domain.TxHandle, error)) error {
	ctx := context.Background()
	if err := defaultDependencyInject(ctx); err != nil {
		return err
	}
	defer teardown()

	handle, err := call(ctx)
	if handle != nil {
		if printErr := output.Transaction(handle); printErr != nil {
			return printErr
		}
	}
	return err
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		expiresAt, err := domain.ParseCalendarDate(createFlags.expires)
		if err != nil {
			return err
		}
		title, description, imageURL := createFlags.content()

		return runTransaction(func(ctx context.Context) (*domain.TxHandle, error) {
			return transactionInteractor.CreateProject(ctx, usecase.CreateProjectParams{
				Title:       title,
				Description: description,
				ImageURL:    imageURL,
				Cost:        createFlags.cost,
				ExpiresAt:   expiresAt,
			})
		})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Updates a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProjectID(args[0])
		if err != nil {
			return err
		}
		expiresAt, err := domain.ParseCalendarDate(updateFlags.expires)
		if err != nil {
			return err
		}
		title, description, imageURL := updateFlags.content()

		return runTransaction(func(ctx context.Context) (*domain.TxHandle, error) {
			return transactionInteractor.UpdateProject(ctx, usecase.UpdateProjectParams{
				ID:          id,
				Title:       title,
				Description: description,
				ImageURL:    imageURL,
				ExpiresAt:   expiresAt,
			})
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Deletes a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProjectID(args[0])
		if err != nil {
			return err
		}
		return runTransaction(func(ctx context.Context) (*domain.TxHandle, error) {
			return transactionInteractor.DeleteProject(ctx, id)
		})
	},
}

var backCmd = &cobra.Command{
	Use:   "back <id> <amount>",
	Short: "Backs a project with an amount of ether",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProjectID(args[0])
		if err != nil {
			return err
		}
		amount := args[1]
		return runTransaction(func(ctx context.Context) (*domain.TxHandle, error) {
			return transactionInteractor.BackProject(ctx, id, amount)
		})
	},
}

var payoutCmd = &cobra.Command{
	Use:   "payout <id>",
	Short: "Pays out the raised funds of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProjectID(args[0])
		if err != nil {
			return err
		}
		return runTransaction(func(ctx context.Context) (*domain.TxHandle, error) {
			return transactionInteractor.PayoutProject(ctx, id)
		})
	},
}

func addProjectFlags(cmd *cobra.Command, flags *projectFlags) {
	cmd.Flags().StringVar(&flags.title, "title", "", "project title")
	cmd.Flags().StringVar(&flags.description, "description", "", "project description")
	cmd.Flags().StringVar(&flags.imageURL, "image-url", "", "project image URL")
	cmd.Flags().StringVar(&flags.expires, "expires", "", "expiry date, YYYY-MM-DD (UTC midnight)")
	cmd.Flags().StringVar(&flags.docLink, "doc-link", "", "document link appended to the description")
}

func init() {
	addProjectFlags(createCmd, &createFlags)
	createCmd.Flags().StringVar(&createFlags.cost, "cost", "", "funding goal in ether")
	addProjectFlags(updateCmd, &updateFlags)

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(backCmd)
	rootCmd.AddCommand(payoutCmd)
}
