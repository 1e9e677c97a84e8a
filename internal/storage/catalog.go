package storage

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const catalogFile = "index.db"

// runRecord is one row of the run index. Run directories stay the source of
// truth; the index only speeds up listing and filtering.
type runRecord struct {
	ID          string    `gorm:"primaryKey"`
	Timestamp   time.Time `gorm:"index"`
	Bodies      int       `gorm:"index"`
	Frames      int
	Dt          float64
	EnergyDrift float64
	Command     string
}

func (runRecord) TableName() string { return "runs" }

// RunSummary is the listing view of a saved run.
type RunSummary struct {
	ID          string
	Timestamp   time.Time
	Bodies      int
	Frames      int
	Dt          float64
	EnergyDrift float64
	Command     string
}

// Filter narrows Catalog.Query. Zero values match everything.
type Filter struct {
	MinBodies int
	MaxBodies int
	Since     time.Time
	// Limit keeps only the most recent runs.
	Limit int
}

type Catalog struct {
	db *gorm.DB
}

// OpenCatalog opens (or creates) a sqlite run index at path.
func OpenCatalog(path string) (*Catalog, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if err := db.AutoMigrate(&runRecord{}); err != nil {
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return &Catalog{db: db}, nil
}

// OpenCatalog opens the index kept next to the run directories.
func (s *Store) OpenCatalog() (*Catalog, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	return OpenCatalog(filepath.Join(s.baseDir, catalogFile))
}

func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Add inserts meta, replacing any existing row with the same ID.
func (c *Catalog) Add(meta RunMetadata) error {
	rec := runRecord{
		ID:          meta.ID,
		Timestamp:   meta.Timestamp.UTC(),
		Bodies:      len(meta.Bodies),
		Frames:      meta.Frames,
		Dt:          meta.Dt,
		EnergyDrift: meta.Metrics["energy_drift"],
		Command:     meta.Command,
	}
	return c.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
}

func (c *Catalog) Remove(runID string) error {
	return c.db.Delete(&runRecord{}, "id = ?", runID).Error
}

// Query returns matching runs oldest first.
func (c *Catalog) Query(f Filter) ([]RunSummary, error) {
	tx := c.db.Model(&runRecord{})
	if f.MinBodies > 0 {
		tx = tx.Where("bodies >= ?", f.MinBodies)
	}
	if f.MaxBodies > 0 {
		tx = tx.Where("bodies <= ?", f.MaxBodies)
	}
	if !f.Since.IsZero() {
		tx = tx.Where("timestamp >= ?", f.Since.UTC())
	}
	tx = tx.Order("timestamp desc").Order("id desc")
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}

	var recs []runRecord
	if err := tx.Find(&recs).Error; err != nil {
		return nil, err
	}

	out := make([]RunSummary, len(recs))
	for i, r := range recs {
		out[len(recs)-1-i] = RunSummary(r)
	}
	return out, nil
}

// Sync makes the index match the run directories in s.
func (c *Catalog) Sync(s *Store) error {
	runs, err := s.List()
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(runs))
	for _, run := range runs {
		if err := c.Add(run); err != nil {
			return err
		}
		ids = append(ids, run.ID)
	}

	if len(ids) == 0 {
		return c.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&runRecord{}).Error
	}
	return c.db.Where("id NOT IN ?", ids).Delete(&runRecord{}).Error
}
