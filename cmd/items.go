// File: cmd/items.go
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nullmantle/pixelpilot/internal/config"
	"github.com/nullmantle/pixelpilot/internal/itemdb"
	"github.com/nullmantle/pixelpilot/internal/observability"
)

// newItemsCmd creates the `items` command group for querying the item
// database from the shell.
func newItemsCmd() *cobra.Command {
	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "Query the game item database",
	}

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search items by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openItemDB()
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			results := db.Search(args[0], limit)
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			for _, info := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s\n", info.ID, info.Name)
			}
			return nil
		},
	}
	searchCmd.Flags().Int("limit", 10, "maximum number of results")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item by numeric id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			db, err := openItemDB()
			if err != nil {
				return err
			}
			info, ok := db.ByID(id)
			if !ok {
				return fmt.Errorf("no item with id %d", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "id:        %d\n", info.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "name:      %s\n", info.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "tradeable: %t\n", info.TradeableOnGE)
			fmt.Fprintf(cmd.OutOrStdout(), "stackable: %t\n", info.Stackable)
			fmt.Fprintf(cmd.OutOrStdout(), "noteable:  %t\n", info.Noteable)
			fmt.Fprintf(cmd.OutOrStdout(), "cost:      %d\n", info.Cost)
			return nil
		},
	}

	itemsCmd.AddCommand(searchCmd, showCmd)
	return itemsCmd
}

func openItemDB() (*itemdb.DB, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return itemdb.Load(cfg.Bot.ItemDBPath, observability.GetLogger())
}
