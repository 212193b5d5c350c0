// Command riskdex-seed loads a small set of sample banking documents
// into a running riskdex instance over the HTTP API.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type seedDocument struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

var seedDocuments = []seedDocument{
	{
		ID:    "doc001",
		Title: "Credit Risk Policy Q4 2024",
		Content: "This document outlines critical updates to our credit risk management framework. " +
			"Due to increased default rates in the commercial lending portfolio, we are implementing " +
			"stricter counterparty risk assessment procedures. The new Basel III requirements mandate " +
			"a minimum Tier 1 capital ratio of 6%, which requires immediate attention.",
	},
	{
		ID:    "doc002",
		Title: "Operational Risk Incident Report",
		Content: "A significant operational risk event occurred due to system failure in the " +
			"trading platform. This resulted in potential market risk exposure of $2.5M. " +
			"Immediate mitigation steps have been taken to prevent similar incidents. " +
			"SOX compliance requires full documentation of control failures.",
	},
	{
		ID:    "doc003",
		Title: "Liquidity Coverage Ratio Analysis",
		Content: "Monthly LCR analysis shows adequate liquidity buffers with a ratio of 125%. " +
			"However, stress testing indicates potential liquidity risk under severe market conditions. " +
			"NSFR compliance is maintained at 110%. Recommend maintaining higher cash reserves.",
	},
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "riskdex API base URL")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}

	for _, doc := range seedDocuments {
		if err := ingest(client, *addr, doc); err != nil {
			fmt.Fprintf(os.Stderr, "seed %s: %v\n", doc.ID, err)
			os.Exit(1)
		}
		fmt.Printf("seeded %s (%s)\n", doc.ID, doc.Title)
	}
}

func ingest(client *http.Client, addr string, doc seedDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := client.Post(addr+"/api/v1/documents", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
