package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atinyakov/shipdash/internal/client/dashboard"
	"github.com/atinyakov/shipdash/internal/inventory"
)

func newMaterialCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "material",
		Aliases: []string{"materials"},
		Short:   "Manage materials stock",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List materials",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			ms, err := a.dash.ListMaterials(u)
			if err != nil {
				return err
			}
			tw := newTable(a)
			fmt.Fprintln(tw, "ID\tNAME\tSTOCK")
			for _, m := range ms {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Key(), m.Name, formatQty(m.Stock))
			}
			return tw.Flush()
		},
	}

	add := &cobra.Command{
		Use:   "add <id> <name> <stock>",
		Short: "Add a material",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			stock, err := parseQty(args[2])
			if err != nil {
				return err
			}
			m := inventory.Material{MaterialID: args[0], Name: args[1], Stock: stock}
			if err := a.dash.AddMaterial(cmd.Context(), u, m); err != nil {
				return err
			}
			a.printf("Material %s added\n", strings.TrimSpace(args[0]))
			return nil
		},
	}

	var (
		newID, name, stock string
	)
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a material; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			ms, err := a.dash.ListMaterials(u)
			if err != nil {
				return err
			}
			i := inventory.FindMaterial(ms, args[0])
			if i < 0 {
				return fmt.Errorf("material %s: %w", args[0], dashboard.ErrNotFound)
			}
			m := ms[i]
			m.MaterialID = m.Key()
			if newID != "" {
				m.MaterialID = newID
			}
			if name != "" {
				m.Name = name
			}
			if stock != "" {
				q, err := parseQty(stock)
				if err != nil {
					return err
				}
				m.Stock = q
			}
			if err := a.dash.UpdateMaterial(cmd.Context(), u, args[0], m); err != nil {
				return err
			}
			a.printf("Material %s updated\n", m.MaterialID)
			return nil
		},
	}
	edit.Flags().StringVar(&newID, "id", "", "new material id")
	edit.Flags().StringVar(&name, "name", "", "new name")
	edit.Flags().StringVar(&stock, "stock", "", "new stock")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			if err := a.dash.RemoveMaterial(cmd.Context(), u, args[0]); err != nil {
				return err
			}
			a.printf("Material %s removed\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, edit, remove)
	return cmd
}

func newFinishedGoodCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fg",
		Short: "Manage finished goods and their bills of materials",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List finished goods",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			fgs, err := a.dash.ListFinishedGoods(u)
			if err != nil {
				return err
			}
			tw := newTable(a)
			fmt.Fprintln(tw, "FINISHED GOOD\tTYPE\tVEHICLE\tBOM")
			for _, fg := range fgs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", fg.FinishedGood, fg.Type, fg.VehicleType, formatBOM(fg.UsableLines()))
			}
			return tw.Flush()
		},
	}

	var (
		fgType, vehicle, bom string
	)
	add := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a finished good",
		Example: "  shipdash fg add FG-100 --type Front --vehicle SUV --bom M1=2,M2=0.5",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			lines, err := parseBOM(bom)
			if err != nil {
				return err
			}
			fg := inventory.FinishedGood{FinishedGood: args[0], Type: fgType, VehicleType: vehicle, BOM: lines}
			if err := a.dash.AddFinishedGood(cmd.Context(), u, fg); err != nil {
				return err
			}
			a.printf("Finished good %s added\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
	add.Flags().StringVar(&fgType, "type", "", "Front or Rear")
	add.Flags().StringVar(&vehicle, "vehicle", "", "Pickup, Sedan or SUV")
	add.Flags().StringVar(&bom, "bom", "", "comma separated materialId=quantity pairs")

	remove := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a finished good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			if err := a.dash.RemoveFinishedGood(cmd.Context(), u, args[0]); err != nil {
				return err
			}
			a.printf("Finished good %s removed\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

func newObservationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "obs",
		Aliases: []string{"observation"},
		Short:   "Manage capture observations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List observations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				u, err := a.user()
				if err != nil {
					return err
				}
				obs, err := a.dash.ListObservations(u)
				if err != nil {
					return err
				}
				for _, o := range obs {
					a.printf("%s\n", o.Text)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <text...>",
			Short: "Add an observation",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := a.user()
				if err != nil {
					return err
				}
				return a.dash.AddObservation(cmd.Context(), u, strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:   "remove <text...>",
			Short: "Remove an observation",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := a.user()
				if err != nil {
					return err
				}
				return a.dash.RemoveObservation(cmd.Context(), u, strings.Join(args, " "))
			},
		},
	)
	return cmd
}

func parseQty(s string) (inventory.Quantity, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", dashboard.ErrValidation, s)
	}
	return inventory.Quantity(v), nil
}

func formatQty(q inventory.Quantity) string {
	return strconv.FormatFloat(float64(q), 'f', -1, 64)
}

// parseBOM reads "M1=2,M2=0.5".
func parseBOM(s string) ([]inventory.BOMLine, error) {
	var lines []inventory.BOMLine
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, qty, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: bom entry %q must be id=quantity", dashboard.ErrValidation, part)
		}
		q, err := parseQty(qty)
		if err != nil {
			return nil, err
		}
		lines = append(lines, inventory.BOMLine{MaterialID: strings.TrimSpace(id), Quantity: q})
	}
	return lines, nil
}

func formatBOM(lines []inventory.BOMLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.MaterialID+"="+formatQty(l.Quantity))
	}
	return strings.Join(parts, ",")
}
