package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iho/creditline/internal/adapter/http/dto"
	"github.com/iho/creditline/internal/domain"
	"github.com/iho/creditline/internal/engine"
	"github.com/iho/creditline/internal/infrastructure/logger"
	"github.com/iho/creditline/internal/usecase"
)

type statsOptions struct {
	file        string
	endDate     string
	rate        string
	settleExact bool
	trace       bool
	json        bool
	logLevel    string
}

func newStatsCmd() *cobra.Command {
	opts := &statsOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute statistics for a timeline stored in a CSV file",
		Long: `Reads events from a CSV file with rows of kind,date,amount and reports
the credit line position as of the end date. Rows are numbered from 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "CSV file with kind,date,amount rows")
	cmd.Flags().StringVar(&opts.endDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.rate, "rate", engine.DefaultDailyRate.String(), "Daily interest rate")
	cmd.Flags().BoolVar(&opts.settleExact, "settle-exact", true, "Zero interest payable when a payment matches it exactly")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Print every state transition")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the report as JSON")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runStats(cmd *cobra.Command, opts *statsOptions) error {
	rate, err := domain.ParseAmount(opts.rate)
	if err != nil {
		return fmt.Errorf("invalid --rate: %w", err)
	}

	endDate, err := domain.ParseDate(opts.endDate)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return err
	}
	defer f.Close()

	events, err := loadEventsCSV(f)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.file, err)
	}

	log := logger.NewWithWriter(logger.Config{Level: opts.logLevel, Format: "console"}, cmd.ErrOrStderr())
	eng := engine.New(engine.Config{DailyRate: rate, SettleExactInterest: opts.settleExact}, log)
	statisticsUC := usecase.NewStatisticsUseCase(eng, nil, nil, nil, 0, nil, log)

	report, err := statisticsUC.Compute(cmd.Context(), usecase.ComputeInput{
		Events:  events,
		EndDate: endDate,
		Trace:   opts.trace,
	})
	if err != nil {
		return err
	}

	resp := dto.StatisticsFromReport(report)
	if opts.json {
		return printJSON(cmd.OutOrStdout(), resp)
	}

	printStatistics(cmd.OutOrStdout(), resp)
	return nil
}

// loadEventsCSV reads kind,date,amount rows. The sequence index is the row number.
func loadEventsCSV(r io.Reader) ([]domain.Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var events []domain.Event
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("row %d: expected kind,date,amount, got %d fields", row, len(record))
		}

		event, err := domain.ParseEvent(row, strings.TrimSpace(record[0]), strings.TrimSpace(record[2]), strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		events = append(events, event)
	}

	return events, nil
}

func printStatistics(w io.Writer, resp *dto.StatisticsResponse) {
	if resp.AccountID != "" {
		fmt.Fprintf(w, "Account:             %s\n", resp.AccountID)
	}
	fmt.Fprintf(w, "End date:            %s\n", resp.EndDate)
	fmt.Fprintf(w, "Advance balance:     %s\n", resp.AdvanceBalance.StringFixed(2))
	fmt.Fprintf(w, "Interest payable:    %s\n", resp.InterestPayable.StringFixed(2))
	fmt.Fprintf(w, "Interest paid:       %s\n", resp.InterestPaid.StringFixed(2))
	fmt.Fprintf(w, "Payments for future: %s\n", resp.PaymentsForFuture.StringFixed(2))

	if len(resp.Trace) == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, s := range resp.Trace {
		fmt.Fprintf(w, "%3d %-8s %12s %s..%s  advance=%s payable=%s paid=%s future=%s\n",
			s.Seq, s.Kind, s.Amount.String(), s.Date, s.Until,
			s.After.AdvanceBalance.StringFixed(2),
			s.After.InterestPayable.StringFixed(2),
			s.After.InterestPaid.StringFixed(2),
			s.After.PaymentsForFuture.StringFixed(2))
	}
}
