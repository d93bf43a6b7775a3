package vault

import (
	"fmt"
	"os"
	"path/filepath"
)

// Vault represents the managed storage directory for qrx
type Vault struct {
	RootPath    string
	RecordsPath string
	ExportsPath string
	ConfigPath  string
}

// New creates a new Vault instance with XDG-compliant paths.
// QRX_HOME overrides the data root.
func New() (*Vault, error) {
	rootPath, rootErr := getVaultRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine vault root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return NewAt(rootPath, configPath), nil
}

// NewAt creates a vault rooted at an explicit directory
func NewAt(rootPath, configPath string) *Vault {
	return &Vault{
		RootPath:    rootPath,
		RecordsPath: filepath.Join(rootPath, "records"),
		ExportsPath: filepath.Join(rootPath, "exports"),
		ConfigPath:  configPath,
	}
}

// getVaultRoot follows the XDG Base Directory specification on Unix and uses AppData on Windows
func getVaultRoot() (string, error) {
	if home := os.Getenv("QRX_HOME"); home != "" {
		return home, nil
	}

	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "qrx"), nil
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "qrx"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", "qrx"), nil
}

func getConfigPath() (string, error) {
	if home := os.Getenv("QRX_HOME"); home != "" {
		return filepath.Join(home, "config.yaml"), nil
	}

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "qrx", "config.yaml"), nil
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "qrx-config", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "qrx", "config.yaml"), nil
}

// Initialize creates the vault directory structure if it doesn't exist
func (v *Vault) Initialize() error {
	directories := []string{
		v.RootPath,
		v.RecordsPath,
		v.ExportsPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the vault has been initialized
func (v *Vault) Exists() bool {
	info, err := os.Stat(v.RecordsPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// GetRecordPath returns the full path for a stored grid file
func (v *Vault) GetRecordPath(filename string) string {
	return filepath.Join(v.RecordsPath, filename)
}

// GetExportPath returns the full path for an exported file
func (v *Vault) GetExportPath(filename string) string {
	return filepath.Join(v.ExportsPath, filename)
}

// CleanExports removes everything in the exports directory and returns how many entries went
func (v *Vault) CleanExports() (int, error) {
	entries, err := os.ReadDir(v.ExportsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read exports directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		path := filepath.Join(v.ExportsPath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}

	return removed, nil
}

// Purge deletes the vault directory and the config file.
// A missing vault is not an error.
func (v *Vault) Purge() error {
	if err := os.RemoveAll(v.RootPath); err != nil {
		return fmt.Errorf("failed to delete vault: %w", err)
	}

	if v.ConfigPath == "" {
		return nil
	}
	if err := os.Remove(v.ConfigPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete config: %w", err)
	}

	return nil
}
