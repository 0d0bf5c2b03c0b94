package cli

import (
	"github.com/kiwi-automation/kiwi/commands"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect backend events",
	Long:  `Shows the events received from the backend while this process was connected.`,
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the event names seen so far",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.EventsListCommand())
	},
}

var eventsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print the recent lines of an event",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.EventsRecentCommand(commands.EventRequest{Name: eventName}))
	},
}

var eventsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the lines of an event",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.EventsClearCommand(commands.EventRequest{Name: eventName}))
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsRecentCmd)
	eventsCmd.AddCommand(eventsClearCmd)

	for _, cmd := range []*cobra.Command{eventsRecentCmd, eventsClearCmd} {
		cmd.Flags().StringVar(&eventName, "name", commands.RunEvent, "event name")
	}
}
