package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

// ExtractionRun is one row of graph-extract history in the warehouse
// meta schema.
type ExtractionRun struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Kind             string         `gorm:"not null"`
	Nodes            int            `gorm:"not null"`
	Relationships    int            `gorm:"not null"`
	StartedAt        time.Time      `gorm:"not null"`
	CompletedAt      time.Time      `gorm:"not null"`
	Status           string         `gorm:"not null"`
	ErrorMessage     string
	Details          datatypes.JSON
}

func (ExtractionRun) TableName() string { return "meta.extraction_runs" }

type ExtractionRunRepo interface {
	Create(ctx context.Context, run *ExtractionRun) error
}

type extractionRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewExtractionRunRepo migrates the history table on first use so a
// fresh warehouse needs no manual meta setup.
func NewExtractionRunRepo(db *gorm.DB, baseLog *logger.Logger) (ExtractionRunRepo, error) {
	repoLog := baseLog.With("repo", "ExtractionRunRepo")
	if err := db.AutoMigrate(&ExtractionRun{}); err != nil {
		return nil, err
	}
	return &extractionRunRepo{db: db, log: repoLog}, nil
}

func (r *extractionRunRepo) Create(ctx context.Context, run *ExtractionRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(run).Error
}
