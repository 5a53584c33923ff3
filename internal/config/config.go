package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/utils"
)

// Settings holds the import/export behavior toggles. They are read once per
// orchestrator invocation, before any persistence scope is opened.
type Settings struct {
	Import ImportSettings `yaml:"import"`
	Export ExportSettings `yaml:"export"`
}

type ImportSettings struct {
	// BulkWrite batches entity inserts per parent scope instead of writing
	// row by row.
	BulkWrite bool `yaml:"bulk_write"`
	// UseStagingTables routes writes through staging tables before the
	// final merge.
	UseStagingTables bool `yaml:"use_staging_tables"`
}

type ExportSettings struct {
	// BatchedChildLoading fetches child collections with set-based IN
	// queries instead of one query per parent. Output is identical either
	// way.
	BatchedChildLoading bool `yaml:"batched_child_loading"`
}

func Default() Settings {
	return Settings{
		Import: ImportSettings{BulkWrite: true},
		Export: ExportSettings{BatchedChildLoading: true},
	}
}

// Load reads settings from an optional YAML file and applies environment
// overrides on top. A missing file is not an error; a malformed one is.
func Load(path string, log *logger.Logger) (Settings, error) {
	s := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return s, fmt.Errorf("read settings file %s: %w", path, err)
			}
			if log != nil {
				log.Debug("Settings file not found, using defaults", "path", path)
			}
		} else if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parse settings file %s: %w", path, err)
		}
	}
	s.Import.BulkWrite = utils.GetEnvAsBool("IMPORT_BULK_WRITE", s.Import.BulkWrite, log)
	s.Import.UseStagingTables = utils.GetEnvAsBool("IMPORT_USE_STAGING_TABLES", s.Import.UseStagingTables, log)
	s.Export.BatchedChildLoading = utils.GetEnvAsBool("EXPORT_BATCHED_CHILD_LOADING", s.Export.BatchedChildLoading, log)
	return s, nil
}
