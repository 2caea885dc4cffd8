package command

import (
	commandHandler "costlens/internal/command/handler"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(NewCommand, commandHandler.NewAnalyticsHandler)

type Command struct {
	analyticsHandler *commandHandler.AnalyticsHandler
}

// NewCommand .
func NewCommand(
	analyticsHandler *commandHandler.AnalyticsHandler,
) *Command {
	return &Command{
		analyticsHandler: analyticsHandler,
	}
}

// run 建立依賴、執行後釋放
func run(newCmd func() (*Command, func(), error), fn func(*Command) error) error {
	command, cleanup, err := newCmd()
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(command)
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	var days int
	suggest := &cobra.Command{
		Use:   "suggest",
		Short: "print cost optimization suggestions as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(newCmd, func(c *Command) error {
				return c.analyticsHandler.Suggest(cmd, days)
			})
		},
	}
	suggest.Flags().IntVar(&days, "days", 0, "look-back window in days (default from ANALYTICS__SUGGESTION_DAYS)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "detect",
			Short: "run spike, budget and error-rate checks once",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(newCmd, func(c *Command) error {
					return c.analyticsHandler.Detect(cmd, args)
				})
			},
		},
		&cobra.Command{
			Use:   "recompute-budgets",
			Short: "recompute current-month spend of active budgets",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(newCmd, func(c *Command) error {
					return c.analyticsHandler.RecomputeBudgets(cmd, args)
				})
			},
		},
		suggest,
	)
}
