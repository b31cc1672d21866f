package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	bplus "BPlusIndex/bplustree"

	"github.com/spf13/cobra"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

type globalFlags struct {
	file    string
	order   int
	verbose bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:           "bptree",
		Short:         "Snapshot-backed B+ tree index",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.file, "file", "tree.json", "Snapshot file")
	rootCmd.PersistentFlags().IntVar(&g.order, "order", bplus.DefaultOrder, "Tree order (max children per node)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log splits and saves")

	rootCmd.AddCommand(
		newDemoCmd(&g),
		newInsertCmd(&g),
		newGetCmd(&g),
		newRangeCmd(&g),
		newInspectCmd(&g),
		newDiffCmd(),
	)
	return rootCmd
}

func (g *globalFlags) open(cmd *cobra.Command) (*bplus.BPlusTree, error) {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return bplus.OpenOrCreate(g.file, g.order, bplus.WithLogger(logger))
}

func parseKey(s string) (int64, error) {
	k, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q: %w", s, err)
	}
	return k, nil
}

func newDemoCmd(g *globalFlags) *cobra.Command {
	var count int64
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Insert keys 1..count as value_i and print every value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer tree.Close()

			for i := int64(1); i <= count; i++ {
				if err := tree.Insert(i, fmt.Sprintf("value_%d", i)); err != nil {
					return err
				}
			}
			for i := int64(1); i <= count; i++ {
				v, _ := tree.Search(i)
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&count, "count", 50, "Number of keys to insert")
	return cmd
}

func newInsertCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "insert KEY VALUE",
		Short: "Insert or update a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[0])
			if err != nil {
				return err
			}
			tree, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer tree.Close()
			return tree.Insert(key, args[1])
		},
	}
}

func newGetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value stored under KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[0])
			if err != nil {
				return err
			}
			tree, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer tree.Close()

			v, ok := tree.Search(key)
			if !ok {
				return fmt.Errorf("key %d not found", key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newRangeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "range START END",
		Short: "Print values for keys in [START, END] in key order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseKey(args[0])
			if err != nil {
				return err
			}
			end, err := parseKey(args[1])
			if err != nil {
				return err
			}
			tree, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer tree.Close()

			for _, v := range tree.GetRange(start, end) {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newInspectCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Dump the node hierarchy and leaf chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(g.file); err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			tree, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer tree.Close()

			if err := tree.Check(); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "invariant violation: %v\n", err)
			}
			return tree.Inspect(cmd.OutOrStdout())
		},
	}
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff A B",
		Short: "Show the structural difference between two snapshot files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			right, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			diff, err := gojsondiff.New().Compare(left, right)
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}
			if !diff.Modified() {
				fmt.Fprintln(cmd.OutOrStdout(), "snapshots match")
				return nil
			}

			var leftObj map[string]interface{}
			if err := json.Unmarshal(left, &leftObj); err != nil {
				return fmt.Errorf("diff: %w", err)
			}
			asciiFmt := formatter.NewAsciiFormatter(leftObj, formatter.AsciiFormatterConfig{
				ShowArrayIndex: true,
			})
			out, err := asciiFmt.Format(diff)
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
