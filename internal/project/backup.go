package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
)

// BackupVersion is stamped on new backups. Files with the same major
// version can be restored.
const BackupVersion = "1.1.0"

var ErrInvalidBackup = errors.New("invalid backup file")

// BackupData is everything a user can move between machines: preferences,
// gauge profiles and palettes, and their own garments.
type BackupData struct {
	Version   string                `json:"version"`
	CreatedAt string                `json:"created_at"`
	Config    model.AppConfig       `json:"config"`
	Inventory model.Inventory       `json:"inventory"`
	Garments  *model.GarmentCatalog `json:"garments,omitempty"`
}

// NewBackup stamps the current version and time.
func NewBackup(config model.AppConfig, inv model.Inventory) BackupData {
	return BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Inventory: inv,
	}
}

// ExportAllData writes b to path. A backup without a version gets the
// current one.
func ExportAllData(path string, b BackupData) error {
	if b.Version == "" {
		b.Version = BackupVersion
	}
	if b.CreatedAt == "" {
		b.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if err := writeJSONFile(path, b); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", path, err)
	}
	logging.Logger().Info("backup written", "path", path, "profiles", len(b.Inventory.Profiles), "garments", b.Garments != nil)
	return nil
}

// ImportAllData reads a backup. Config fields missing from the file keep
// their defaults and absent inventory lists come back empty.
func ImportAllData(path string) (BackupData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	b := BackupData{Config: model.DefaultAppConfig()}
	if err := json.Unmarshal(data, &b); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}

	switch major, _, _ := strings.Cut(b.Version, "."); {
	case b.Version == "":
		return BackupData{}, fmt.Errorf("%w: missing version", ErrInvalidBackup)
	case major != strings.Split(BackupVersion, ".")[0]:
		return BackupData{}, fmt.Errorf("%w: unsupported version %s", ErrInvalidBackup, b.Version)
	}

	if b.Config.RecentProjects == nil {
		b.Config.RecentProjects = []string{}
	}
	if b.Inventory.Profiles == nil {
		b.Inventory.Profiles = []model.GaugeProfile{}
	}
	if b.Inventory.Palettes == nil {
		b.Inventory.Palettes = []model.PalettePreset{}
	}
	return b, nil
}
