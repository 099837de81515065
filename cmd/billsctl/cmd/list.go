package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"billed/internal/backend"
	"billed/internal/bills"
	"billed/internal/core"
	"billed/internal/session"
)

var (
	listEmail string
	listAdmin bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bills most recent first",
	Long: `List the bills of an employee in the order and format of the bills page.
Without --email (or with --admin) every bill is listed.

Example:
  billsctl list --email a@a`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listEmail, "email", "", "employee whose bills are listed")
	listCmd.Flags().BoolVar(&listAdmin, "admin", false, "list every bill")
}

func runList(cmd *cobra.Command, args []string) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).CreateBackend(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}
	defer res.Close()

	storage, err := listSession(listEmail, listAdmin)
	if err != nil {
		return err
	}
	c := bills.New(bills.Options{Store: res.Store, Session: storage, Logger: logger})
	rows, err := c.Load(cmd.Context())
	if err != nil {
		return err
	}
	return printBills(cmd.OutOrStdout(), rows)
}

// listSession returns the session a list runs under: an employee when email
// is set, otherwise an admin.
func listSession(email string, admin bool) (session.Storage, error) {
	u := core.User{Type: core.UserTypeAdmin, Email: email}
	if email != "" && !admin {
		u.Type = core.UserTypeEmployee
	}
	s := session.NewMemoryStorage()
	if err := session.SetCurrentUser(s, u); err != nil {
		return nil, err
	}
	return s, nil
}

func printBills(w io.Writer, rows []core.DisplayBill) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tNAME\tAMOUNT\tSTATUS\tID")
	for _, b := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", b.DisplayDate, b.Type, b.Name, b.Amount, b.StatusLabel, b.ID)
	}
	return tw.Flush()
}
