package console

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (a *App) List(ctx context.Context) error {
	list, err := a.accounts.ListAccounts(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No accounts.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tREFERRER\tCODE\tTXN\tSTATUS\tWALLET\tCREATED")
	for _, acc := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			acc.ID,
			acc.Name,
			acc.Email,
			orDefault(acc.ReferrerCode, "None"),
			acc.ReferralCode,
			orDefault(acc.TransactionID, "Not Provided"),
			acc.PaymentStatus,
			acc.Wallet.StringFixed(2),
			acc.CreatedAt.UTC().Format("2006-01-02 15:04"),
		)
	}
	return tw.Flush()
}

func orDefault(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}
