package cli

import (
	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/JudioLam9/contracts-v3/pool"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "admin only operations for the node",
}

func init() {
	initWithdrawalCmd.PersistentFlags().StringVar(&drawCap, "draw-cap", "", "max amount drawable from the protection wallet, empty is zero")
	adminCmd.AddCommand(depositCmd)
	adminCmd.AddCommand(initWithdrawalCmd)
	adminCmd.AddCommand(cancelWithdrawalCmd)
	adminCmd.AddCommand(processWithdrawalCmd)
	adminCmd.AddCommand(fundVaultCmd)
	adminCmd.AddCommand(fundProtectionCmd)
	adminCmd.AddCommand(setParamsCmd)
	adminCmd.AddCommand(updateParamCmd)
	adminCmd.AddCommand(resourceUsageCmd)
	adminCmd.AddCommand(configCmd)
	adminCmd.AddCommand(logsCmd)
}

var (
	depositCmd = &cobra.Command{
		Use:     "deposit <token> <provider> <amount>",
		Short:   "deposit reserve tokens into a pool and mint pool tokens to the provider",
		Example: "deposit 0xdAC17F958D2ee523a2206206994597C13D831ec7 0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B 1000000",
		Args:    cobra.MinimumNArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Deposit(args[0], args[1], args[2]))
		},
	}

	initWithdrawalCmd = &cobra.Command{
		Use:     "init-withdrawal <token> <provider> <pool-token-amount> --draw-cap=100",
		Short:   "escrow a provider's pool tokens and open a withdrawal request",
		Example: "init-withdrawal 0xdAC17F958D2ee523a2206206994597C13D831ec7 0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B 500000",
		Args:    cobra.MinimumNArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.InitWithdrawal(args[0], args[1], args[2], drawCap))
		},
	}

	cancelWithdrawalCmd = &cobra.Command{
		Use:   "cancel-withdrawal <id>",
		Short: "cancel a pending withdrawal request and return the escrowed pool tokens",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.CancelWithdrawal(uint64(argToInt(args[0]))))
		},
	}

	processWithdrawalCmd = &cobra.Command{
		Use:   "process-withdrawal <id>",
		Short: "settle a pending withdrawal request after its lock expires",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.ProcessWithdrawal(uint64(argToInt(args[0]))))
		},
	}

	fundVaultCmd = &cobra.Command{
		Use:     "fund-vault <token> <amount>",
		Short:   "credit the master vault balance for a token",
		Example: "fund-vault 0xdAC17F958D2ee523a2206206994597C13D831ec7 1000000",
		Args:    cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.FundVault(args[0], args[1]))
		},
	}

	fundProtectionCmd = &cobra.Command{
		Use:     "fund-protection <token> <amount>",
		Short:   "credit the external protection wallet balance for a token",
		Example: "fund-protection 0xdAC17F958D2ee523a2206206994597C13D831ec7 1000000",
		Args:    cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.FundProtection(args[0], args[1]))
		},
	}

	setParamsCmd = &cobra.Command{
		Use:     "set-params <params-json>",
		Short:   "replace the governance params",
		Example: `set-params '{"withdrawalFeePPM":2500,"deviationThresholdPPM":10000,"withdrawalLockSeconds":604800}'`,
		Args:    cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ptr := new(pool.Params)
			if err := lib.UnmarshalJSON([]byte(args[0]), ptr); err != nil {
				l.Fatal(err.Error())
			}
			writeToConsole(client.SetParams(ptr))
		},
	}

	updateParamCmd = &cobra.Command{
		Use:     "update-param <name> <value>",
		Short:   "update a single governance param by name",
		Example: "update-param withdrawalFeePPM 2500",
		Args:    cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.UpdateParam(args[0], uint64(argToInt(args[1]))))
		},
	}

	resourceUsageCmd = &cobra.Command{
		Use:   "resource-usage",
		Short: "get node resource usage",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.ResourceUsage())
		},
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "get node configuration file",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Config())
		},
	}

	logsCmd = &cobra.Command{
		Use:   "logs",
		Short: "get node logs",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Logs())
		},
	}
)
