package entries

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/crucial707/trade-journal/cmd/cli/client"
	"github.com/crucial707/trade-journal/cmd/cli/config"
	"github.com/crucial707/trade-journal/cmd/cli/output"
	"github.com/crucial707/trade-journal/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ==========================
// Init Entries
// ==========================
func InitEntries(rootCmd *cobra.Command) {
	entriesCmd := &cobra.Command{
		Use:     "entries",
		Aliases: []string{"entry", "e"},
		Short:   "Record and review journal entries",
	}

	entriesCmd.PersistentFlags().String("user", "", "user id (defaults to the logged-in user)")
	entriesCmd.PersistentFlags().Bool("json", false, "print raw JSON instead of a table")

	entriesCmd.AddCommand(
		addEntryCmd(),
		getEntryCmd(),
		updateEntryCmd(),
		deleteEntryCmd(),
		listEntriesCmd(),
		statsCmd(),
	)

	rootCmd.AddCommand(entriesCmd)
}

func userID(cmd *cobra.Command) (string, error) {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u, nil
	}
	return config.CurrentUser()
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// entryFlags holds the raw flag values shared by add and update.
type entryFlags struct {
	symbol, entryTime, exitTime, setup string

	entry, size, stop, target, trailing, exit, pnl float64
}

func (f *entryFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.symbol, "symbol", "", "ticker symbol")
	fs.StringVar(&f.entryTime, "time", "", "entry time, e.g. 2024-01-02T09:30:00 (default now)")
	fs.Float64Var(&f.entry, "entry", 0, "entry price")
	fs.Float64Var(&f.size, "size", 0, "position size")
	fs.Float64Var(&f.stop, "stop", 0, "stop loss")
	fs.Float64Var(&f.target, "target", 0, "target price")
	fs.Float64Var(&f.trailing, "trailing", 0, "trailing stop")
	fs.StringVar(&f.exitTime, "exit-time", "", "exit time")
	fs.Float64Var(&f.exit, "exit", 0, "exit price")
	fs.Float64Var(&f.pnl, "pnl", 0, "realized profit or loss")
	fs.StringVar(&f.setup, "setup", "", "setup notes")
}

// overlay copies every flag the user set onto req.
func (f *entryFlags) overlay(fs *pflag.FlagSet, req *models.JournalEntryRequest) error {
	float := func(name string, v float64, dst **float64) {
		if fs.Changed(name) {
			*dst = &v
		}
	}
	float("entry", f.entry, &req.Entry)
	float("size", f.size, &req.PositionSize)
	float("stop", f.stop, &req.StopLoss)
	float("target", f.target, &req.Target)
	float("trailing", f.trailing, &req.TrailingStop)
	float("exit", f.exit, &req.Exit)
	float("pnl", f.pnl, &req.Pnl)

	if fs.Changed("symbol") {
		req.Symbol = f.symbol
	}
	if fs.Changed("setup") {
		setup := f.setup
		req.Setup = &setup
	}
	if fs.Changed("time") {
		t, err := models.ParseLocalTime(f.entryTime)
		if err != nil {
			return err
		}
		req.EntryTime = &t
	}
	if fs.Changed("exit-time") {
		t, err := models.ParseLocalTime(f.exitTime)
		if err != nil {
			return err
		}
		req.ExitTime = &t
	}
	return nil
}

// ==========================
// ADD
// ==========================
func addEntryCmd() *cobra.Command {
	var f entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new trade",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userID(cmd)
			if err != nil {
				return err
			}
			now := models.NewLocalTime(time.Now())
			req := models.JournalEntryRequest{UserID: user, EntryTime: &now}
			if err := f.overlay(cmd.Flags(), &req); err != nil {
				return err
			}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("invalid entry: %w", err)
			}

			var created models.JournalEntry
			if err := client.Call("POST", "/api/journal", req, &created); err != nil {
				return fmt.Errorf("add entry: %w", err)
			}
			return render(cmd, created)
		},
	}
	f.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("size")
	return cmd
}

// ==========================
// GET
// ==========================
func getEntryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := fetch(args[0])
			if err != nil {
				return err
			}
			return render(cmd, *e)
		},
	}
}

func fetch(id string) (*models.JournalEntry, error) {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return nil, fmt.Errorf("invalid entry id %q", id)
	}
	var e models.JournalEntry
	if err := client.Call("GET", "/api/journal/"+id, nil, &e); err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	return &e, nil
}

// ==========================
// UPDATE
// ==========================

// updateEntryCmd overlays the given flags on the stored entry. The API
// replaces every field, so unspecified fields are sent back unchanged.
func updateEntryCmd() *cobra.Command {
	var f entryFlags

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change fields of an entry, e.g. record the exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := fetch(args[0])
			if err != nil {
				return err
			}
			req := requestFrom(*current)
			if err := f.overlay(cmd.Flags(), &req); err != nil {
				return err
			}

			var updated models.JournalEntry
			if err := client.Call("PUT", "/api/journal/"+args[0], req, &updated); err != nil {
				return fmt.Errorf("update entry %s: %w", args[0], err)
			}
			return render(cmd, updated)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func requestFrom(e models.JournalEntry) models.JournalEntryRequest {
	entryTime, entry, size := e.EntryTime, e.Entry, e.PositionSize
	return models.JournalEntryRequest{
		UserID:       e.UserID,
		EntryTime:    &entryTime,
		Symbol:       e.Symbol,
		Entry:        &entry,
		StopLoss:     e.StopLoss,
		PositionSize: &size,
		Target:       e.Target,
		TrailingStop: e.TrailingStop,
		ExitTime:     e.ExitTime,
		Exit:         e.Exit,
		Pnl:          e.Pnl,
		Setup:        e.Setup,
	}
}

// ==========================
// DELETE
// ==========================
func deleteEntryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("invalid entry id %q", args[0])
			}
			if err := client.Call("DELETE", "/api/journal/"+args[0], nil, nil); err != nil {
				return fmt.Errorf("delete entry %s: %w", args[0], err)
			}
			fmt.Fprintf(output.Out, "Entry %s deleted\n", args[0])
			return nil
		},
	}
}

// ==========================
// LIST
// ==========================
func listEntriesCmd() *cobra.Command {
	var symbol, from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userID(cmd)
			if err != nil {
				return err
			}

			base := "/api/journal/user/" + url.PathEscape(user)
			var path string
			switch {
			case from != "" || to != "":
				if from == "" || to == "" {
					return fmt.Errorf("--from and --to must be given together")
				}
				q := url.Values{"startDate": {from}, "endDate": {to}}
				path = base + "/date-range?" + q.Encode()
			case symbol != "":
				path = base + "/symbol/" + url.PathEscape(symbol)
			default:
				path = base
			}

			var list []models.JournalEntry
			if err := client.Call("GET", path, nil, &list); err != nil {
				return fmt.Errorf("list entries: %w", err)
			}
			if jsonOutput(cmd) {
				return output.RenderJSON(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(output.Out, "No entries found")
				return nil
			}
			renderTable(list)
			return nil
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "only entries for this symbol")
	cmd.Flags().StringVar(&from, "from", "", "inclusive start of the entry-time range")
	cmd.Flags().StringVar(&to, "to", "", "inclusive end of the entry-time range")
	return cmd
}

// ==========================
// STATS
// ==========================
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show entry count and total P&L",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userID(cmd)
			if err != nil {
				return err
			}
			var stats models.EntryStats
			if err := client.Call("GET", "/api/journal/user/"+url.PathEscape(user)+"/stats", nil, &stats); err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			if jsonOutput(cmd) {
				return output.RenderJSON(stats)
			}
			output.RenderTable(
				[]string{"User", "Entries", "Total P&L"},
				[][]interface{}{{user, stats.EntryCount, output.Pnl(&stats.TotalPnl)}},
			)
			return nil
		},
	}
}

func render(cmd *cobra.Command, e models.JournalEntry) error {
	if jsonOutput(cmd) {
		return output.RenderJSON(e)
	}
	renderTable([]models.JournalEntry{e})
	return nil
}

func renderTable(list []models.JournalEntry) {
	rows := make([][]interface{}, 0, len(list))
	for _, e := range list {
		exitTime, setup := "-", "-"
		if e.ExitTime != nil {
			exitTime = e.ExitTime.String()
		}
		if e.Setup != nil && *e.Setup != "" {
			setup = *e.Setup
		}
		rows = append(rows, []interface{}{
			e.ID, e.EntryTime.String(), e.Symbol, output.Float(&e.Entry), output.Float(&e.PositionSize),
			output.Float(e.StopLoss), output.Float(e.Target), exitTime, output.Float(e.Exit), output.Pnl(e.Pnl), setup,
		})
	}
	output.RenderTable(
		[]string{"ID", "Entry Time", "Symbol", "Entry", "Size", "Stop", "Target", "Exit Time", "Exit", "P&L", "Setup"},
		rows,
	)
}
