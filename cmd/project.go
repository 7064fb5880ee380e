package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func parseProjectID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid project id %q", value)
	}
	return id, nil
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Lists all projects",
	Long:  `Lists all projects, newest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := defaultDependencyInject(ctx); err != nil {
			return err
		}
		defer teardown()

		if err := syncInteractor.LoadProjects(ctx); err != nil {
			return err
		}
		projects, _ := appStore.Projects.Get()
		return output.Projects(projects)
	},
}

var projectCmd = &cobra.Command{
	Use:   "project <id>",
	Short: "Shows one project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProjectID(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := defaultDependencyInject(ctx); err != nil {
			return err
		}
		defer teardown()

		if err := syncInteractor.LoadProject(ctx, id); err != nil {
			return err
		}
		project, _ := appStore.Project.Get()
		return output.Project(project)
	},
}

var backersCmd = &cobra.Command{
	Use:   "backers <id>",
	Short: "Lists the backers of a project",
	Long:  `Lists the backers of a project, latest backing first.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProjectID(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := defaultDependencyInject(ctx); err != nil {
			return err
		}
		defer teardown()

		if err := syncInteractor.LoadBackers(ctx, id); err != nil {
			return err
		}
		backers, _ := appStore.Backers.Get()
		return output.Backers(backers)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Shows the platform totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := defaultDependencyInject(ctx); err != nil {
			return err
		}
		defer teardown()

		if err := syncInteractor.LoadProjects(ctx); err != nil {
			return err
		}
		stats, _ := appStore.Stats.Get()
		return output.Stats(stats)
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(backersCmd)
	rootCmd.AddCommand(statsCmd)
}
