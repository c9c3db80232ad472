package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "farmledger-cli",
		Short: "FarmLedger CLI tool",
		Long:  `A command line interface for interacting with the FarmLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the FarmLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(ledgerCmd(), partyCmd(), itemCmd(), healthCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	})

	return cmd
}

func partyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "party",
		Short: "Party ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "balance <party-id>",
		Short: "Show a party's derived balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showBalance(args[0])
		},
	})

	statement := &cobra.Command{
		Use:   "statement <party-id>",
		Short: "Show a party's statement with running balances",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			showStatement(args[0], from, to)
		},
	}
	statement.Flags().String("from", "", "Range start (RFC3339)")
	statement.Flags().String("to", "", "Range end (RFC3339)")
	cmd.AddCommand(statement)

	return cmd
}

func itemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Inventory operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <item-id>",
		Short: "Show an item's stock and average cost",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showItem(args[0])
		},
	})

	return cmd
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API readiness",
		Run: func(cmd *cobra.Command, args []string) {
			checkHealth()
		},
	}
}

func getJSON(path string) (int, []byte) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Error reading response: %v\n", err)
		os.Exit(1)
	}

	return resp.StatusCode, body
}

func checkConsistency() {
	status, body := getJSON("/api/v1/ledger/consistency")

	var report struct {
		Consistent                 bool  `json:"consistent"`
		MalformedEntries           int64 `json:"malformed_entries"`
		UnbalancedCashTransactions int64 `json:"unbalanced_cash_transactions"`
	}
	if err := json.Unmarshal(body, &report); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if status == http.StatusOK && report.Consistent {
		fmt.Println("Consistency check PASSED")
		return
	}

	fmt.Printf("Consistency check FAILED (Status: %d)\n", status)
	fmt.Printf("Malformed entries: %d\n", report.MalformedEntries)
	fmt.Printf("Unbalanced cash transactions: %d\n", report.UnbalancedCashTransactions)
	os.Exit(1)
}

func showBalance(partyID string) {
	status, body := getJSON("/api/v1/parties/" + partyID + "/balance")
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func showStatement(partyID, from, to string) {
	status, body := getJSON(statementPath(partyID, from, to))
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var stmt struct {
		PartyID        int64  `json:"party_id"`
		OpeningBalance string `json:"opening_balance"`
		ClosingBalance string `json:"closing_balance"`
		Lines          []struct {
			Entry struct {
				Seq           int64     `json:"seq"`
				PostedAt      time.Time `json:"posted_at"`
				ReferenceType string    `json:"reference_type"`
				Description   string    `json:"description"`
				DebitPrimary  string    `json:"debit_primary"`
				CreditPrimary string    `json:"credit_primary"`
			} `json:"entry"`
			RunningBalance string `json:"running_balance"`
		} `json:"lines"`
	}
	if err := json.Unmarshal(body, &stmt); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Statement for party %d\n", stmt.PartyID)
	fmt.Printf("Opening balance: %s\n", stmt.OpeningBalance)
	fmt.Printf("%-5s %-17s %-9s %-32s %12s %12s %14s\n",
		"SEQ", "POSTED", "REF", "DESCRIPTION", "DEBIT", "CREDIT", "BALANCE")
	for _, line := range stmt.Lines {
		fmt.Printf("%-5d %-17s %-9s %-32s %12s %12s %14s\n",
			line.Entry.Seq,
			line.Entry.PostedAt.Format("2006-01-02 15:04"),
			line.Entry.ReferenceType,
			truncate(line.Entry.Description, 32),
			line.Entry.DebitPrimary,
			line.Entry.CreditPrimary,
			line.RunningBalance)
	}
	fmt.Printf("Closing balance: %s\n", stmt.ClosingBalance)
}

func showItem(itemID string) {
	status, body := getJSON("/api/v1/items/" + itemID)
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func checkHealth() {
	status, body := getJSON("/ready")
	if status != http.StatusOK {
		fmt.Printf("API NOT READY (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	fmt.Println("API ready")
}

// statementPath builds the statement request path, attaching only the range
// bounds the caller supplied.
func statementPath(partyID, from, to string) string {
	path := "/api/v1/parties/" + partyID + "/statement"

	params := url.Values{}
	if from != "" {
		params.Set("from", from)
	}
	if to != "" {
		params.Set("to", to)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	return path
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
