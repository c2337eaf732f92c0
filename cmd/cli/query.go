package cli

import (
	"strconv"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/JudioLam9/contracts-v3/pool"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "query the settlement rpc",
}

var (
	version, pageNumber, perPage, drawCap = uint64(0), 0, 0, ""
)

func init() {
	queryCmd.PersistentFlags().Uint64Var(&version, "version", 0, "historical store version for the query, 0 is latest")
	queryCmd.PersistentFlags().IntVar(&pageNumber, "page-number", 0, "page number on a paginated call")
	queryCmd.PersistentFlags().IntVar(&perPage, "per-page", 0, "number of items per page on a paginated call")
	quoteCmd.PersistentFlags().StringVar(&drawCap, "draw-cap", "", "max amount drawable from the protection wallet, empty is zero")
	queryCmd.AddCommand(storeVersionCmd)
	queryCmd.AddCommand(poolQueryCmd)
	queryCmd.AddCommand(poolsCmd)
	queryCmd.AddCommand(paramsCmd)
	queryCmd.AddCommand(vaultCmd)
	queryCmd.AddCommand(protectionCmd)
	queryCmd.AddCommand(accountCmd)
	queryCmd.AddCommand(withdrawalCmd)
	queryCmd.AddCommand(withdrawalsCmd)
	queryCmd.AddCommand(quoteCmd)
	queryCmd.AddCommand(formulaCmd)
}

var (
	storeVersionCmd = &cobra.Command{
		Use:   "store-version",
		Short: "query the latest committed version of the store",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.StoreVersion())
		},
	}

	poolQueryCmd = &cobra.Command{
		Use:   "pool <token> --version=1",
		Short: "query a pool by its reserve token address",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Pool(version, args[0]))
		},
	}

	poolsCmd = &cobra.Command{
		Use:   "pools --version=1 --per-page=10 --page-number=1",
		Short: "query all pools",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Pools(getPaginatedArgs()))
		},
	}

	paramsCmd = &cobra.Command{
		Use:   "params --version=1",
		Short: "query all governance params",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Params(version))
		},
	}

	vaultCmd = &cobra.Command{
		Use:   "vault <token> --version=1",
		Short: "query the master vault balance for a token",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Vault(version, args[0]))
		},
	}

	protectionCmd = &cobra.Command{
		Use:   "protection <token> --version=1",
		Short: "query the external protection wallet balance for a token",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Protection(version, args[0]))
		},
	}

	accountCmd = &cobra.Command{
		Use:   "account <provider> <token> --version=1",
		Short: "query a provider's pool token account",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Account(version, args[0], args[1]))
		},
	}

	withdrawalCmd = &cobra.Command{
		Use:   "withdrawal <id> --version=1",
		Short: "query a pending withdrawal request by its id",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Withdrawal(version, uint64(argToInt(args[0]))))
		},
	}

	withdrawalsCmd = &cobra.Command{
		Use:   "withdrawals --version=1 --per-page=10 --page-number=1",
		Short: "query all pending withdrawal requests",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Withdrawals(getPaginatedArgs()))
		},
	}

	quoteCmd = &cobra.Command{
		Use:   "quote <token> <pool-token-amount> --draw-cap=100 --version=1",
		Short: "preview the settlement of a withdrawal without committing state",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Quote(version, args[0], args[1], drawCap))
		},
	}

	formulaCmd = &cobra.Command{
		Use:   "formula <input-json>",
		Short: "evaluate the withdrawal formula on explicit inputs",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ptr := new(pool.WithdrawalInput)
			if err := lib.UnmarshalJSON([]byte(args[0]), ptr); err != nil {
				l.Fatal(err.Error())
			}
			writeToConsole(client.Formula(ptr))
		},
	}
)

func getPaginatedArgs() (v uint64, params lib.PageParams) {
	v = version
	params = lib.PageParams{
		PageNumber: pageNumber,
		PerPage:    perPage,
	}
	return
}

func argToInt(arg string) int {
	i, err := strconv.Atoi(arg)
	if err != nil {
		l.Fatal(err.Error())
	}
	return i
}
