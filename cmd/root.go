package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/adapters/chart"
	"github.com/kamal-hamza/qrx/internal/adapters/repository"
	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/config"
	"github.com/kamal-hamza/qrx/pkg/ui"
	"github.com/kamal-hamza/qrx/pkg/vault"
)

var (
	// Global vault and configuration
	appVault  *vault.Vault
	appConfig *config.Config

	// Services
	importService  *services.ImportService
	listService    *services.ListService
	compareService *services.CompareService
	exportService  *services.ExportService
	renameService  *services.RenameService
	statsService   *services.StatsService
	doctorService  *services.DoctorService

	// Adapters
	recordRepo      *repository.FileRepository
	heatmapRenderer *chart.HeatmapRenderer
)

// Commands that run without an initialized vault
var vaultOptional = map[string]bool{
	"init":     true,
	"version":  true,
	"validate": true,
	"help":     true,
	"purge":    true,
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qrx",
	Short: "QRX - binary grid vault and comparison tool",
	Long: ui.StyleTitle.Render("QRX") + " - Binary Grid Vault\n\n" +
		"Import QR-code-like 0/1 grids, compare them exactly or within a\n" +
		"damage tolerance, and inspect where they differ.",
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads the vault, config and logger, then wires the services
func initializeApp(cmd *cobra.Command, args []string) error {
	v, err := vault.New()
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}
	appVault = v

	cfg, err := config.Load(appVault.ConfigPath)
	if err != nil {
		fmt.Println(ui.FormatWarning("Ignoring invalid config: " + err.Error()))
		cfg = config.DefaultConfig()
	}
	appConfig = cfg

	config.SetupLogger(appConfig, os.Stderr)
	ui.SetTheme(appConfig.ColorTheme)

	if vaultOptional[cmd.Name()] {
		return nil
	}

	if !appVault.Exists() {
		fmt.Println(ui.FormatError("Vault not initialized"))
		fmt.Println(ui.FormatInfo("Run 'qrx init' to initialize the vault"))
		return fmt.Errorf("vault not found at %s", appVault.RootPath)
	}

	wireServices(repository.NewFileRepository(appVault), appVault.ExportsPath)
	heatmapRenderer = chart.NewHeatmapRenderer()

	return nil
}

// wireServices builds every service on top of repo
func wireServices(repo *repository.FileRepository, exportsDir string) {
	recordRepo = repo
	importService = services.NewImportService(repo)
	listService = services.NewListService(repo)
	compareService = services.NewCompareService(repo)
	exportService = services.NewExportService(repo, exportsDir)
	renameService = services.NewRenameService(repo)
	statsService = services.NewStatsService(repo)
	doctorService = services.NewDoctorService(repo)
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
