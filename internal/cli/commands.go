package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"ops-console/internal/form"
	"ops-console/internal/render"
	"ops-console/internal/service/export"
	"ops-console/internal/workflow"
)

func viewNames() string {
	names := make([]string, 0, len(render.Views()))
	for _, v := range render.Views() {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}

func newListCmd(a *app) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "list <view>",
		Short: "Show a list view",
		Long:  "Show a list view. Views: " + viewNames() + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := render.ParseView(args[0])
			if err != nil {
				return err
			}

			snap, err := a.ops.List(cmd.Context(), a.sess, view, refresh)
			if err != nil {
				return err
			}

			return printSnapshot(a.out, snap)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ask the backend to bypass its cache")

	return cmd
}

func newMetricsCmd(a *app) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show the metrics dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printSnapshot(a.out, a.ops.Metrics(cmd.Context(), a.sess, refresh))
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ask the backend to bypass its cache")

	return cmd
}

func newOverviewCmd(a *app) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show monitoring lists and metrics together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ov, err := a.ops.Overview(cmd.Context(), a.sess, refresh)
			if err != nil {
				return err
			}

			failed := false
			if printSnapshot(a.out, ov.Metrics) != nil {
				failed = true
			}
			for _, view := range render.Views() {
				snap, ok := ov.Views[view]
				if !ok {
					continue
				}
				fmt.Fprintf(a.out, "\n== %s ==\n", view)
				if printSnapshot(a.out, snap) != nil {
					failed = true
				}
			}

			if failed {
				return errOutcome
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ask the backend to bypass its cache")

	return cmd
}

func newOrderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "order", Short: "Create orders and move them through their lifecycle"}

	var (
		email, customerID, priority string
		items                       []string
	)
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create an order",
		Example: "  wmsctl order create --email ops@example.com --item SKU-1:2 --item SKU-9:1 --priority High",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := make([]form.ItemRow, 0, len(items))
			for _, it := range items {
				sku, qty, _ := strings.Cut(it, ":")
				rows = append(rows, form.ItemRow{SKU: form.Value(sku), Qty: form.Value(qty)})
			}

			return printOutcome(a.out, a.ops.CreateOrder(cmd.Context(), a.sess, form.OrderForm{
				CustomerEmail: form.Value(email),
				CustomerID:    form.Value(customerID),
				Priority:      form.Value(priority),
				Items:         rows,
			}))
		},
	}
	create.Flags().StringVar(&email, "email", "", "customer email")
	create.Flags().StringVar(&customerID, "customer-id", "", "customer id (generated when empty)")
	create.Flags().StringVar(&priority, "priority", "", "Normal or High")
	create.Flags().StringArrayVar(&items, "item", nil, "item as SKU:QTY, repeatable")

	var eta string
	status := &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Update an order status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printOutcome(a.out, a.ops.UpdateOrderStatus(cmd.Context(), a.sess, form.OrderStatusForm{
				OrderID: form.Value(args[0]),
				Status:  form.Value(args[1]),
				ETA:     form.Value(eta),
			}))
		},
	}
	status.Flags().StringVar(&eta, "eta", "", "estimated time, e.g. 2024-01-01T10:00")

	cmd.AddCommand(create, status)

	return cmd
}

func newPicklistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "picklist", Short: "Work with picklists"}

	status := &cobra.Command{
		Use:   "status <picklist-id> <status>",
		Short: "Update a picklist status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printOutcome(a.out, a.ops.UpdatePicklistStatus(cmd.Context(), a.sess, form.PicklistStatusForm{
				PicklistID: form.Value(args[0]),
				Status:     form.Value(args[1]),
			}))
		},
	}

	route := &cobra.Command{
		Use:   "route <picklist-id>",
		Short: "Show the optimized picking route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printOutcome(a.out, a.ops.OptimizeRoute(cmd.Context(), a.sess, form.PicklistRefForm{PicklistID: form.Value(args[0])}))
		},
	}

	qr := &cobra.Command{
		Use:   "qr <picklist-id>",
		Short: "Generate the picklist QR payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printOutcome(a.out, a.ops.PicklistQR(cmd.Context(), a.sess, form.PicklistRefForm{PicklistID: form.Value(args[0])}))
		},
	}

	cmd.AddCommand(status, route, qr)

	return cmd
}

func newStockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "stock", Short: "Receive goods into stock"}

	var f struct{ sku, qty, location, rack, by string }
	receive := &cobra.Command{
		Use:   "receive",
		Short: "Record a goods receipt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printOutcome(a.out, a.ops.ReceiveGoods(cmd.Context(), a.sess, form.ReceiptForm{
				SKU:        form.Value(f.sku),
				Quantity:   form.Value(f.qty),
				Location:   form.Value(f.location),
				Rack:       form.Value(f.rack),
				ReceivedBy: form.Value(f.by),
			}))
		},
	}
	receive.Flags().StringVar(&f.sku, "sku", "", "SKU")
	receive.Flags().StringVar(&f.qty, "qty", "", "quantity")
	receive.Flags().StringVar(&f.location, "location", "", "location")
	receive.Flags().StringVar(&f.rack, "rack", "", "rack")
	receive.Flags().StringVar(&f.by, "by", "", "received by")

	cmd.AddCommand(receive)

	return cmd
}

func newTransferCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "transfer", Short: "Move stock between racks"}

	var f struct{ sku, qty, from, to, by string }
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create a stock transfer",
		Example: "  wmsctl transfer create --sku SKU-1 --qty 12 --from A/R1 --to B/R2",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fromLoc, fromRack, _ := strings.Cut(f.from, "/")
			toLoc, toRack, _ := strings.Cut(f.to, "/")
			by := f.by
			if by == "" && a.sess.Authenticated() {
				by = a.sess.Claims.Username
			}

			return printOutcome(a.out, a.ops.CreateTransfer(cmd.Context(), a.sess, form.TransferForm{
				FromLocation: form.Value(fromLoc),
				FromRack:     form.Value(fromRack),
				ToLocation:   form.Value(toLoc),
				ToRack:       form.Value(toRack),
				SKU:          form.Value(f.sku),
				Quantity:     form.Value(f.qty),
				RequestedBy:  form.Value(by),
			}))
		},
	}
	create.Flags().StringVar(&f.sku, "sku", "", "SKU")
	create.Flags().StringVar(&f.qty, "qty", "", "quantity")
	create.Flags().StringVar(&f.from, "from", "", "source as LOCATION/RACK")
	create.Flags().StringVar(&f.to, "to", "", "destination as LOCATION/RACK")
	create.Flags().StringVar(&f.by, "by", "", "requested by")

	approve := &cobra.Command{
		Use:   "approve <transfer-id>",
		Short: "Approve a transfer waiting for approval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printOutcome(a.out, a.ops.ApproveTransfer(cmd.Context(), a.sess, form.ApproveTransferForm{TransferID: form.Value(args[0])}))
		},
	}

	cmd.AddCommand(create, approve)

	return cmd
}

func newStatusesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "statuses <order|picklist|transfer>",
		Short:     "List the statuses the console offers for an entity",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(workflow.EntityOrder), string(workflow.EntityPicklist), string(workflow.EntityTransfer)},
		// no backend needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			entity := workflow.Entity(args[0])
			statuses := workflow.AllowedStatuses(entity)
			if len(statuses) == 0 {
				return fmt.Errorf("unknown entity %q", args[0])
			}

			out := cmd.OutOrStdout()
			for _, s := range statuses {
				line := workflow.Label(entity, s)
				if fields := workflow.RequiresField(entity, s); len(fields) > 0 {
					names := make([]string, len(fields))
					for i, f := range fields {
						names[i] = string(f)
					}
					sort.Strings(names)
					line += " (requires " + strings.Join(names, ", ") + ")"
				}
				fmt.Fprintln(out, line)
			}
			if entity == workflow.EntityTransfer {
				fmt.Fprintf(out, "quantities above %d wait for approval\n", workflow.ApprovalThreshold)
			}

			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <view>",
		Short: "Export a list view as an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := render.ParseView(args[0])
			if err != nil {
				return err
			}

			file, err := export.NewService(a.ops).Export(cmd.Context(), a.sess, view)
			if err != nil {
				return err
			}

			name := output
			if name == "" {
				name = file.Name
			}
			if err := os.WriteFile(name, file.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}

			fmt.Fprintln(a.out, "wrote", name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default <view>_<timestamp>.xlsx)")

	return cmd
}
