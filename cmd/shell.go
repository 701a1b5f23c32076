package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/aggregator"
	"github.com/pable/go-fab-history/internal/model"
	"github.com/pable/go-fab-history/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Load the match history once and query it interactively. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	addSourceFlags(shellCmd)
}

// shellState is the filter and ordering carried between shell commands.
type shellState struct {
	ds     *aggregator.Dataset
	filter model.Filter
	key    model.SortKey
	dir    model.Direction
}

func runShell(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	st := &shellState{ds: ds}

	cGreeting.Println("fabhistory shell")
	cMuted.Printf("player %s, %d rows. type 'help' or 'exit'\n", ds.Subject(), ds.Diagnostics().Rows)
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("fabhistory")
		cMuted.Printf("[%s]> ", st.filter.Rating)
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "stats":
			report.PrintGlobalStats(os.Stdout, ds.GlobalStats(st.filter), st.filter)
		case "opponents":
			st.opponents(args)
		case "rounds":
			report.PrintRoundTable(os.Stdout, ds.RoundStats(st.filter))
		case "top":
			st.top(args)
		case "search":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: search <name>")
				continue
			}
			report.PrintSearchResults(os.Stdout, ds.SearchOpponent(st.filter, strings.Join(args, " ")))
		case "summary":
			s, err := report.BuildSummary(cmd.Context(), ds, st.filter, st.key, st.dir, report.DefaultTopN)
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			report.PrintSummary(os.Stdout, s)
		case "rating":
			st.setRating(args)
		case "opponent":
			st.filter.Opponent = strings.Join(args, " ")
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"stats", "overall win rates"},
		{"opponents [name|winrate] [asc|desc]", "win rate against each opponent"},
		{"rounds", "win rate per round"},
		{"top [n]", "most played opponents (default 5)"},
		{"search <name>", "opponents whose name contains <name>"},
		{"summary", "every view at once"},
		{"rating all|rated|unrated", "set the rating filter"},
		{"opponent [text]", "restrict to opponents containing text, empty clears"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (st *shellState) opponents(args []string) {
	if len(args) > 0 {
		key, err := model.ParseSortKey(args[0])
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		st.key = key
	}
	if len(args) > 1 {
		dir, err := model.ParseDirection(args[1])
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		st.dir = dir
	}
	report.PrintOpponentTable(os.Stdout, aggregator.SortOpponents(st.ds.OpponentStats(st.filter), st.key, st.dir))
}

func (st *shellState) top(args []string) {
	n := report.DefaultTopN
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			cError.Fprintf(os.Stderr, "invalid n %q\n", args[0])
			return
		}
		n = v
	}
	top, err := st.ds.TopOpponents(st.filter, n)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintTopOpponents(os.Stdout, top)
}

func (st *shellState) setRating(args []string) {
	if len(args) == 0 {
		cError.Fprintln(os.Stderr, "usage: rating all|rated|unrated")
		return
	}
	r, err := model.ParseRatingFilter(args[0])
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	st.filter.Rating = r
}
