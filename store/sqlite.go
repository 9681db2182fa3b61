package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront/domain"
)

// productRow is the products table. Seq records insertion order, which is
// the catalog order; ProductID is the public product id.
type productRow struct {
	Seq                uint     `gorm:"primaryKey;autoIncrement"`
	ProductID          int      `gorm:"uniqueIndex;not null"`
	Title              string   `gorm:"not null"`
	Brand              string
	Description        string
	Price              float64
	Stock              int
	Rating             *float64
	DiscountPercentage float64
	AvailabilityStatus string
	Thumbnail          string
	Images             []string    `gorm:"serializer:json"`
	Reviews            []reviewRow `gorm:"foreignKey:ProductID;references:ProductID"`
}

func (productRow) TableName() string { return "products" }

type reviewRow struct {
	ID           uint `gorm:"primaryKey;autoIncrement"`
	ProductID    int  `gorm:"index;not null"`
	Rating       int
	Comment      string
	ReviewerName string
	Date         string
}

func (reviewRow) TableName() string { return "reviews" }

func toRow(p domain.Product) productRow {
	row := productRow{
		ProductID:          p.ID,
		Title:              p.Title,
		Brand:              p.Brand,
		Description:        p.Description,
		Price:              p.Price,
		Stock:              p.Stock,
		Rating:             p.Rating,
		DiscountPercentage: p.DiscountPercentage,
		AvailabilityStatus: p.AvailabilityStatus,
		Thumbnail:          p.Thumbnail,
		Images:             p.Images,
	}
	for _, r := range p.Reviews {
		row.Reviews = append(row.Reviews, reviewRow{
			ProductID:    p.ID,
			Rating:       r.Rating,
			Comment:      r.Comment,
			ReviewerName: r.ReviewerName,
			Date:         r.Date,
		})
	}
	return row
}

func (row productRow) toProduct() domain.Product {
	p := domain.Product{
		ID:                 row.ProductID,
		Title:              row.Title,
		Brand:              row.Brand,
		Description:        row.Description,
		Price:              row.Price,
		Stock:              row.Stock,
		Rating:             row.Rating,
		DiscountPercentage: row.DiscountPercentage,
		AvailabilityStatus: row.AvailabilityStatus,
		Thumbnail:          row.Thumbnail,
		Images:             row.Images,
	}
	for _, r := range row.Reviews {
		p.Reviews = append(p.Reviews, domain.Review{
			Rating:       r.Rating,
			Comment:      r.Comment,
			ReviewerName: r.ReviewerName,
			Date:         r.Date,
		})
	}
	return p
}

// SQLiteStore is a gorm-backed domain.CatalogStore on SQLite
type SQLiteStore struct {
	db *gorm.DB
}

var _ domain.CatalogStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the SQLite database at dsn and
// migrates the catalog tables. Use ":memory:" for a throwaway database.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database path required for sqlite store")
	}

	logMode := logger.Warn
	if os.Getenv("GORM_LOG") == "off" {
		logMode = logger.Silent
	}
	gormLogger := logger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logMode,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared and serialises writers
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&productRow{}, &reviewRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteStore) withReviews(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Reviews", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

func (s *SQLiteStore) Catalog(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := s.withReviews(ctx).Order("seq").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toProduct())
	}
	return out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int) (domain.Product, error) {
	var row productRow
	err := s.withReviews(ctx).Where("product_id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	if err != nil {
		return domain.Product{}, err
	}
	return row.toProduct(), nil
}

func (s *SQLiteStore) exists(tx *gorm.DB, id int) (bool, error) {
	var n int64
	if err := tx.Model(&productRow{}).Where("product_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) Create(ctx context.Context, product domain.Product) error {
	if err := domain.ValidateProduct(product); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.exists(tx, product.ID)
		if err != nil {
			return err
		}
		if found {
			return domain.NewDuplicateProductError(product.ID)
		}
		row := toRow(product)
		return tx.Create(&row).Error
	})
}

func (s *SQLiteStore) AddReview(ctx context.Context, id int, review domain.Review) (domain.Product, error) {
	review, err := prepareReview(review)
	if err != nil {
		return domain.Product{}, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.exists(tx, id)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewProductNotFoundError(id)
		}
		return tx.Create(&reviewRow{
			ProductID:    id,
			Rating:       review.Rating,
			Comment:      review.Comment,
			ReviewerName: review.ReviewerName,
			Date:         review.Date,
		}).Error
	})
	if err != nil {
		return domain.Product{}, err
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) BulkImport(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return ctx.Err()
	}

	ids := make([]int, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	var existing []int
	if err := s.db.WithContext(ctx).Model(&productRow{}).
		Where("product_id IN ?", ids).
		Pluck("product_id", &existing).Error; err != nil {
		return err
	}
	known := make(map[int]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	accepted, collected := validateBatch(ctx, products, func(id int) bool {
		_, ok := known[id]
		return ok
	})
	if len(accepted) == 0 {
		return collected
	}

	rows := make([]productRow, 0, len(accepted))
	for _, p := range accepted {
		rows = append(rows, toRow(p))
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&rows, 100).Error; err != nil {
		return errors.Join(collected, err)
	}
	return collected
}
