package commands

import (
	"fmt"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"satchel/cli/globals"
	"satchel/cli/styles"
	"satchel/cli/utils"
	"satchel/shared"
	"strings"
	"time"
)

// NewWalletsCommand groups the wallet subcommands
func NewWalletsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "wallets",
		Aliases:     []string{"wallet"},
		Short:       "Manage the wallets your library is built from",
		Annotations: sessionOnly,
	}

	cmd.AddCommand(newWalletsListCommand(opts))
	cmd.AddCommand(newWalletsAddCommand(opts))
	cmd.AddCommand(newWalletsRemoveCommand(opts))
	cmd.AddCommand(newWalletsSyncCommand(opts))
	return cmd
}

func newWalletsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List wallets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wallets, err := globals.API.GetWallets()
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, wallets)
			}

			if len(wallets) == 0 {
				output(cmd, styles.HelpStyle.Render("No wallets yet, add one with `satchel wallets add`"))
				return nil
			}

			now := time.Now()
			var rows [][]string
			for _, wallet := range wallets {
				rows = append(rows, []string{
					wallet.ID,
					utils.Truncate(wallet.Nickname, 24),
					string(wallet.Network),
					wallet.Address,
					utils.ReadableTime(wallet.LastSynced, now),
				})
			}

			output(cmd, styles.Table(
				[]string{"ID", "NICKNAME", "NETWORK", "ADDRESS", "SYNCED"},
				rows))
			return nil
		},
	}
}

func newWalletsAddCommand(opts *RootOptions) *cobra.Command {
	var network string
	var nickname string
	var sync bool

	cmd := &cobra.Command{
		Use:   "add <address>",
		Short: "Add a wallet address to your library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet := shared.NewWallet{
				Address:  args[0],
				Network:  shared.Network(strings.ToLower(network)),
				Nickname: nickname,
			}

			if !shared.IsValidNetwork(wallet.Network) {
				return fmt.Errorf("unsupported network %q", network)
			}

			wallet.Address = shared.NormalizeAddress(wallet.Network, wallet.Address)
			if !shared.IsValidAddress(wallet.Network, wallet.Address) {
				return fmt.Errorf("invalid %s address %q", wallet.Network, args[0])
			}

			id, err := globals.API.AddWallet(wallet)
			if err != nil {
				return err
			}

			if !sync {
				if opts.JSON {
					return printJSON(cmd, shared.NewWalletResponse{ID: id})
				}

				success(cmd, "Added wallet %s", id)
				return nil
			}

			return syncWallet(cmd, opts, id)
		},
	}

	cmd.Flags().StringVarP(&network, "network", "n", string(shared.NetworkEthereum), "wallet network")
	cmd.Flags().StringVar(&nickname, "nickname", "", "display name for the wallet")
	cmd.Flags().BoolVar(&sync, "sync", false, "import the wallet's tokens right away")
	return cmd
}

func newWalletsRemoveCommand(opts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <wallet-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a wallet and every artifact imported from it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(
				"Remove wallet?",
				"Artifacts imported from this wallet will be removed from your library and catalogs.",
				yes || opts.JSON)
			if err != nil || !ok {
				return err
			}

			removed, err := globals.API.RemoveWallet(args[0])
			if err != nil {
				return err
			} else if opts.JSON {
				return printJSON(cmd, shared.DeleteResponse{Removed: removed})
			}

			success(cmd, "Removed wallet and %d artifact(s)", removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newWalletsSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <wallet-id>",
		Short: "Import the wallet's current holdings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return syncWallet(cmd, opts, args[0])
		},
	}
}

func syncWallet(cmd *cobra.Command, opts *RootOptions, walletID string) error {
	var result shared.SyncResponse
	var err error

	sync := func() {
		result, err = globals.API.SyncWallet(walletID)
	}

	if opts.JSON {
		sync()
	} else if spinErr := spinner.New().Title("Syncing wallet...").Action(sync).Run(); spinErr != nil {
		return spinErr
	}

	if err != nil {
		return err
	} else if opts.JSON {
		return printJSON(cmd, result)
	}

	success(cmd, "Synced: %d added, %d updated, %d removed, %d unchanged",
		result.Added,
		result.Updated,
		result.Removed,
		result.Unchanged)
	return nil
}
