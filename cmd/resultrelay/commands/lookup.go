package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"resultrelay/lib/serviceutil"
	"resultrelay/lib/telemetry"
	"resultrelay/services/gradesheet"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <symbol> <dob>",
	Short: "Fetches and prints one result straight from the upstream site.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		telemetry.InitSlog(cfg.LogLevel)

		client, err := newGradesheetClient(cfg)
		if err != nil {
			serviceutil.Fatal("failed to initialize upstream client", err)
		}
		svc := gradesheet.NewService(client)

		ctx, cancel := context.WithTimeout(
			cmd.Context(),
			time.Second*time.Duration(cfg.RequestTimeoutSeconds),
		)
		defer cancel()

		result, err := svc.Lookup(ctx, args[0], args[1])
		if err != nil {
			serviceutil.Fatal("lookup failed", err)
		}

		fmt.Printf("symbol: %s\n", result.Symbol)
		fmt.Printf("date of birth: %s\n", result.DateOfBirth)
		if result.GPA != nil {
			fmt.Printf("gpa: %s\n", *result.GPA)
		} else {
			fmt.Println("gpa: (not found)")
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Subject", "Credit Hours", "Grade", "Grade Point", "Final Grade", "Remarks"})
		for _, s := range result.Subjects {
			t.AppendRow(table.Row{s.Name, s.CreditHours, s.Grade, s.GradePoint, s.FinalGrade, s.Remarks})
		}
		t.Render()
	},
}
