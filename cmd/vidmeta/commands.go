package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okorban/vidmeta/internal/config"
	"github.com/okorban/vidmeta/internal/search"
)

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search [video-id]",
	Short: "Look up Netflix metadata for a numeric video id",
	Long: `Look up Netflix metadata for a numeric video id.

Examples:
  vidmeta search 81040344
  vidmeta search --from-url "http://127.0.0.1:8787/?v=81040344"
  vidmeta search 81040344 --export markdown`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromURL, _ := cmd.Flags().GetString("from-url")
		export, _ := cmd.Flags().GetString("export")

		if len(args) == 0 && fromURL == "" {
			return fmt.Errorf("a video id or --from-url is required")
		}

		return withOrchestrator(func(o *search.Orchestrator, _ *search.StateStore) error {
			var ent *search.Entity
			var err error
			if fromURL != "" {
				ent, err = o.LookupFromShareURL(cmd.Context(), fromURL)
			} else {
				ent, err = o.Lookup(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			switch export {
			case "":
				renderEntity(ent)
				fmt.Println()
				printStatus("Share", "%s", o.ShareURL())
				remaining, limit := o.Budget()
				printStatus("Rate budget", "%d/%d", remaining, limit)
			case "json":
				out, err := search.ExportJSON(ent)
				if err != nil {
					return err
				}
				fmt.Println(out)
			case "markdown":
				fmt.Println(search.ExportMarkdown(ent))
			default:
				return fmt.Errorf("unknown export format %q (want json or markdown)", export)
			}
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().String("from-url", "", "share URL to look up instead of a video id")
	searchCmd.Flags().String("export", "", "print the result as json or markdown instead of rendering")
}

// --- compare ---

var compareCmd = &cobra.Command{
	Use:   "compare <video-id>...",
	Short: fmt.Sprintf("Look up and compare up to %d titles", search.MaxBatch),
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > search.MaxBatch {
			printWarning("comparing only the first %d ids", search.MaxBatch)
		}

		return withOrchestrator(func(o *search.Orchestrator, _ *search.StateStore) error {
			entities, err := o.LookupBatch(cmd.Context(), args)
			if err != nil {
				return err
			}
			for i := range entities {
				renderEntity(&entities[i])
			}
			fmt.Println()
			remaining, limit := o.Budget()
			printStatus("Rate budget", "%d/%d", remaining, limit)
			return nil
		})
	},
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		match, _ := cmd.Flags().GetString("match")

		return withOrchestrator(func(o *search.Orchestrator, _ *search.StateStore) error {
			entries := o.History()
			if match != "" {
				entries = o.FilterHistory(match)
			}
			renderHistory(entries)
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the search history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(func(o *search.Orchestrator, _ *search.StateStore) error {
			o.ClearHistory()
			printSuccess("History cleared")
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().String("match", "", "only show entries whose id or title contains this fragment")
	historyCmd.AddCommand(historyClearCmd)
}

// --- stats ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show search analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(func(o *search.Orchestrator, _ *search.StateStore) error {
			data := o.Analytics()
			printStatus("Total searches", "%d", data.TotalSearches)
			printStatus("Avg response time", "%dms", data.AvgResponseTime)

			if len(data.RecentSearches) > 0 {
				fmt.Println()
				for _, r := range data.RecentSearches {
					ts := time.UnixMilli(r.Millis).Format("2006-01-02 15:04:05")
					fmt.Printf("%s  %s\n", colorize(colorCyan, r.ID), ts)
				}
			}

			remaining, limit := o.Budget()
			printStatus("Rate budget", "%d/%d", remaining, limit)
			return nil
		})
	},
}

// --- cookies ---

var cookiesCmd = &cobra.Command{
	Use:   "cookies",
	Short: "Manage the gateway's Netflix cookie credential",
}

var cookiesSetCmd = &cobra.Command{
	Use:   "set <cookie-string>",
	Short: "Replace the gateway's stored Netflix cookies",
	Long: `Replace the gateway's stored Netflix cookies.

Pass "-" to read the cookie string from stdin. The request is authorized
with the configured API key.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Server.APIKey == "" {
			return fmt.Errorf("no API key configured; %s", config.APIKeyGuidance())
		}

		value := args[0]
		if value == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			value = strings.TrimSpace(string(data))
		}
		if value == "" {
			return fmt.Errorf("cookie string is empty")
		}

		body, err := json.Marshal(map[string]string{"cookies": value})
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost,
			strings.TrimRight(cfg.Client.GatewayURL, "/")+"/api/cookies", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", cfg.Server.APIKey)

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("gateway not reachable, is vidmeta serving? (%w)", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			var ee struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			if json.NewDecoder(resp.Body).Decode(&ee) == nil && ee.Error.Message != "" {
				return fmt.Errorf("%s", ee.Error.Message)
			}
			return fmt.Errorf("gateway returned %d", resp.StatusCode)
		}

		printSuccess("Cookies updated")
		return nil
	},
}

func init() {
	cookiesCmd.AddCommand(cookiesSetCmd)
}

// --- theme ---

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Toggle the persisted display theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(func(_ *search.Orchestrator, state *search.StateStore) error {
			printSuccess("Theme set to %s", state.ToggleTheme())
			return nil
		})
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
