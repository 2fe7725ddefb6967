package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"expedition-backend/internal/dataset"
	"expedition-backend/internal/expedition"
	"expedition-backend/internal/server"
)

var (
	// Global flags
	dataDir string
	verbose bool

	// select flags
	mageCount      int
	length         string
	strictness     string
	contentWaves   string
	contentBoxes   string
	seed           int64
	maxAttempts    int
	settingWave    string
	settingVariant string

	// replace flags
	existingNames string

	// serve flags
	serveAddr string
)

var rootCmd = &cobra.Command{
	Use:   "expedition",
	Short: "Deterministic, collision-free expedition packet selector",
	Long: `expedition samples a self-consistent set of story entities (one setting,
N mages, a tiered nemesis sequence, and paired friends/foes) from the YAML
datasets, reproducibly under a seed, with global uniqueness guarantees.`,
	SilenceUsage: true,
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select one expedition packet and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := loadCollection()
		if err != nil {
			return err
		}
		req := expedition.Request{
			MageCount:      mageCount,
			Length:         expedition.Length(length),
			Strictness:     expedition.Strictness(strictness),
			ContentWaves:   splitCSV(contentWaves),
			ContentBoxes:   splitCSV(contentBoxes),
			MaxAttempts:    maxAttempts,
			SettingWave:    settingWave,
			SettingVariant: settingVariant,
		}
		if cmd.Flags().Changed("seed") {
			req.Seed = &seed
		}
		packet, err := expedition.Select(col, req)
		if err != nil {
			return err
		}
		return printJSON(packet)
	},
}

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Select a replacement mage that does not collide with the party",
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := loadCollection()
		if err != nil {
			return err
		}
		req := expedition.ReplaceRequest{
			ExistingNames: splitCSV(existingNames),
			ContentWaves:  splitCSV(contentWaves),
			ContentBoxes:  splitCSV(contentBoxes),
		}
		if cmd.Flags().Changed("seed") {
			req.Seed = &seed
		}
		rep, err := expedition.ReplaceMage(col, req)
		if err != nil {
			return err
		}
		return printJSON(rep)
	},
}

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "List the waves and boxes available for scope filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := loadCollection()
		if err != nil {
			return err
		}
		return printJSON(expedition.Content(col))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <packet.json>",
	Short: "Check a packet file against the collision invariants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		packet, err := readPacket(args[0])
		if err != nil {
			return err
		}
		violations := expedition.Validate(packet)
		if len(violations) == 0 {
			fmt.Println("ok")
			return nil
		}
		for _, v := range violations {
			fmt.Fprintln(os.Stderr, v.String())
		}
		return fmt.Errorf("%d violation(s)", len(violations))
	},
}

var storyCmd = &cobra.Command{
	Use:   "story <packet.json>",
	Short: "Extract the story-relevant inputs from a packet file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		packet, err := readPacket(args[0])
		if err != nil {
			return err
		}
		return printJSON(packet.Story())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP selector service",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := buildLogger()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		cfg, err := server.LoadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveAddr
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}

		srv := server.New(cfg, log)
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("data_dir", cfg.DataDir))
		return http.ListenAndServe(cfg.Addr, srv.Routes())
	},
}

func loadCollection() (*dataset.Collection, error) {
	return dataset.NewLoader(dataDir).Load()
}

func buildLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func readPacket(path string) (*expedition.Packet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var packet expedition.Packet
	if err := json.Unmarshal(b, &packet); err != nil {
		return nil, fmt.Errorf("parse packet %s: %w", path, err)
	}
	return &packet, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "directory holding the YAML datasets")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	selectCmd.Flags().IntVar(&mageCount, "mage-count", 0, "number of mages to select (required)")
	selectCmd.Flags().StringVar(&length, "length", "standard", "expedition length: short, standard, long")
	selectCmd.Flags().StringVar(&strictness, "strictness", "open", "strictness: thematic, mixed, open")
	selectCmd.Flags().StringVar(&contentWaves, "content-waves", "", "comma-separated wave names (e.g. '1st Wave,2nd Wave')")
	selectCmd.Flags().StringVar(&contentBoxes, "content-boxes", "", "comma-separated box names")
	selectCmd.Flags().Int64Var(&seed, "seed", 0, "seed for reproducible selection")
	selectCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "retry budget override")
	selectCmd.Flags().StringVar(&settingWave, "setting-wave", "", "force a specific wave's setting")
	selectCmd.Flags().StringVar(&settingVariant, "setting-variant", "", "force a setting variant (requires --setting-wave)")
	_ = selectCmd.MarkFlagRequired("mage-count")

	replaceCmd.Flags().StringVar(&existingNames, "existing", "", "comma-separated names already in the party")
	replaceCmd.Flags().StringVar(&contentWaves, "content-waves", "", "comma-separated wave names")
	replaceCmd.Flags().StringVar(&contentBoxes, "content-boxes", "", "comma-separated box names")
	replaceCmd.Flags().Int64Var(&seed, "seed", 0, "seed for reproducible selection")

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")

	rootCmd.AddCommand(selectCmd, replaceCmd, contentCmd, validateCmd, storyCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
