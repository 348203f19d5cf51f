package main

import (
	"fmt"

	"rallytimesbot/pkg/standings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the stage times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			rm, closeStore, err := openStore(cfg, nil)
			if err != nil {
				return err
			}
			defer closeStore()

			list, err := rm.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if stage, _ := cmd.Flags().GetString("tramo"); stage != "" {
				fmt.Fprint(out, standings.RenderStage(list, stage))
				return nil
			}
			fmt.Fprint(out, standings.RenderAll(list))
			return nil
		},
	}

	cmd.Flags().StringP("tramo", "t", "", "Only this stage")

	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the summary of all stage times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			rm, closeStore, err := openStore(cfg, nil)
			if err != nil {
				return err
			}
			defer closeStore()

			stats, ok, err := rm.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, color.New(color.FgYellow).Sprint("Sin datos para analizar."))
				return nil
			}
			fmt.Fprintf(out, "Líder: %s\n", color.New(color.FgHiGreen).Sprint(stats.Leader))
			fmt.Fprint(out, standings.RenderStats(stats))
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored stage time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			rm, closeStore, err := openStore(cfg, nil)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := rm.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.New(color.FgGreen).Sprint("Base de datos reiniciada."))
			return nil
		},
	}
}
