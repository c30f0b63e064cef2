package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iho/creditline/internal/adapter/http/dto"
	"github.com/iho/creditline/internal/domain"
)

func newAccountCmd(opts *options) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	accountCmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Open a credit line account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.AccountResponse
			req := dto.CreateAccountRequest{Name: args[0]}
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/accounts", req, &resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created account %s (%s)\n", resp.ID, resp.Name)
			return nil
		},
	})

	var appendFile string
	appendCmd := &cobra.Command{
		Use:   "append ID",
		Short: "Append events from a CSV file to an account timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(appendFile)
			if err != nil {
				return err
			}
			defer f.Close()

			events, err := loadEventsCSV(f)
			if err != nil {
				return fmt.Errorf("%s: %w", appendFile, err)
			}

			req := dto.AppendEventsRequest{Events: make([]dto.EventRequest, 0, len(events))}
			for _, e := range events {
				req.Events = append(req.Events, dto.EventRequest{
					Kind:   string(e.Kind),
					Amount: e.Amount,
					Date:   domain.FormatDate(e.Date),
				})
			}

			var resp dto.ListEventsResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/events"
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, path, req, &resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Appended %d events\n", len(resp.Events))
			return nil
		},
	}
	appendCmd.Flags().StringVarP(&appendFile, "file", "f", "", "CSV file with kind,date,amount rows")
	_ = appendCmd.MarkFlagRequired("file")
	accountCmd.AddCommand(appendCmd)

	var (
		endDate string
		trace   bool
		asJSON  bool
	)
	statisticsCmd := &cobra.Command{
		Use:   "statistics ID",
		Short: "Show an account's position as of an end date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{"end_date": {endDate}}
			if trace {
				query.Set("trace", "true")
			}

			var resp dto.StatisticsResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/statistics?" + query.Encode()
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			printStatistics(cmd.OutOrStdout(), &resp)
			return nil
		},
	}
	statisticsCmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD)")
	statisticsCmd.Flags().BoolVar(&trace, "trace", false, "Include every state transition")
	statisticsCmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	_ = statisticsCmd.MarkFlagRequired("end")
	accountCmd.AddCommand(statisticsCmd)

	return accountCmd
}

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(opts *options) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(opts.baseURL, "/"),
		token:   opts.token,
		http:    &http.Client{Timeout: opts.timeout},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s: %s (status %d)", apiErr.Error, apiErr.Message, resp.StatusCode)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(strings.TrimSpace(string(data)), 200))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
