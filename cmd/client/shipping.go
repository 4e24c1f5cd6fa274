package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/atinyakov/shipdash/internal/client/dashboard"
	"github.com/atinyakov/shipdash/internal/shipping"
)

func newCaptureCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture Fedex shipment lines",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List captured lines",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			lines, err := a.dash.ListLines(u)
			if err != nil {
				return err
			}
			tw := newTable(a)
			fmt.Fprintln(tw, "LINE\tINVOICE\tFINISHED GOOD\tOBSERVATION\tTRACKING\tSHIP DATE")
			for _, e := range lines {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					e.LineNumber, e.Order, e.FinishedGood, e.Observation, e.TrackingNumber, e.ShippingDate)
			}
			return tw.Flush()
		},
	}

	var (
		in   dashboard.LineInput
		scan string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Capture a line and deduct its materials from stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			if in.Order == "" && scan != "" {
				in.Order = a.dash.ExtractInvoice(scan)
			}
			e, err := a.dash.AddLine(cmd.Context(), u, in)
			if err != nil {
				return err
			}
			a.printf("Line %d captured for invoice %s\n", e.LineNumber, e.Order)
			return nil
		},
	}
	f := add.Flags()
	f.StringVar(&in.Order, "invoice", "", "invoice number")
	f.StringVar(&scan, "scan", "", "scanned label; the invoice is extracted from it")
	f.StringVar(&in.FinishedGood, "fg", "", "finished good name")
	f.StringVar(&in.Observation, "obs", "", "observation")
	f.StringVar(&in.TrackingNumber, "tracking", "", "tracking number")
	f.StringVar(&in.ShippingDate, "date", "", "shipping date (YYYY-MM-DD)")

	remove := &cobra.Command{
		Use:   "remove <line>",
		Short: "Remove a line and renumber the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: line must be a number", dashboard.ErrValidation)
			}
			if err := a.dash.RemoveLine(cmd.Context(), u, n); err != nil {
				return err
			}
			a.printf("Line %d removed\n", n)
			return nil
		},
	}

	invoice := &cobra.Command{
		Use:   "invoice <scan>",
		Short: "Print the invoice number found in a scanned label",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			inv := a.dash.ExtractInvoice(args[0])
			if inv == "" {
				return fmt.Errorf("%w: no invoice number in %q", dashboard.ErrValidation, args[0])
			}
			a.printf("%s\n", inv)
			return nil
		},
	}

	cmd.AddCommand(list, add, remove, invoice)
	return cmd
}

func newUSPSCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usps",
		Short: "Register USPS orders",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List USPS orders",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			orders, err := a.dash.ListUSPSOrders(u)
			if err != nil {
				return err
			}
			tw := newTable(a)
			fmt.Fprintln(tw, "DAY\tINVOICE\tBOX\tWEIGHT\tFUND\tCOST\tARIZONA\tBALANCE")
			for _, o := range orders {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					o.ShippingDay, o.Invoice, o.BoxDimension, formatQty(o.Weight),
					formatQty(o.AddedFund), formatQty(o.Cost), formatQty(o.ArizonaExpenditure), o.Balance)
			}
			return tw.Flush()
		},
	}

	var in shipping.USPSInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a USPS order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			o, err := a.dash.AddUSPSOrder(cmd.Context(), u, in)
			if err != nil {
				return err
			}
			a.printf("USPS order %s saved, balance %s\n", o.Invoice, o.Balance)
			return nil
		},
	}
	f := add.Flags()
	f.StringVar(&in.Invoice, "invoice", "", "invoice number")
	f.StringVar(&in.BoxDimension, "box", "", "box dimension")
	f.Float64Var(&in.Weight, "weight", 0, "weight")
	f.Float64Var(&in.AddedFund, "fund", 0, "funds added to the postage account")
	f.Float64Var(&in.Cost, "cost", 0, "postage cost")
	f.Float64Var(&in.ArizonaExpenditure, "arizona", 0, "Arizona expenditure")

	cmd.AddCommand(list, add)
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Shipping reports",
	}
	var date string
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Lines and boxes shipped on a date",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			rep, err := a.dash.DailyReport(u, date)
			if err != nil {
				return err
			}
			a.printf("Date: %s\nLines: %d\nBoxes: %d\n", rep.Date, rep.Lines, rep.Boxes)
			if len(rep.Records) == 0 {
				return nil
			}
			tw := newTable(a)
			fmt.Fprintln(tw, "INVOICE\tFINISHED GOOD\tTRACKING\tOBSERVATION")
			for _, r := range rep.Records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Invoice, r.FinishedGood, r.TrackingNumber, r.Observation)
			}
			return tw.Flush()
		},
	}
	daily.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), today when empty")
	cmd.AddCommand(daily)
	return cmd
}
