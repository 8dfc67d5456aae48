package cart

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const timestampKey = "cart_timestamp"

type cartLine struct {
	ProductID uint `gorm:"primaryKey"`
	Quantity  int  `gorm:"not null;check:quantity>0"`
}

func (cartLine) TableName() string { return "cart_lines" }

type cartMeta struct {
	Key   string `gorm:"primaryKey"`
	Value int64  `gorm:"not null"`
}

func (cartMeta) TableName() string { return "cart_meta" }

// SQLiteStore keeps the cart in the portal's local database file.
type SQLiteStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&cartLine{}, &cartMeta{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Add(ctx context.Context, productID uint, delta int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line cartLine
		err := tx.Where("product_id = ?", productID).First(&line).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		line.ProductID = productID

		q := line.Quantity + delta
		if q < 0 {
			q = 0
		}

		if q == 0 {
			if err := tx.Where("product_id = ?", productID).Delete(&cartLine{}).Error; err != nil {
				return err
			}
		} else {
			line.Quantity = q
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&line).Error; err != nil {
				return err
			}
		}

		stamp := cartMeta{Key: timestampKey, Value: s.now().UnixMilli()}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&stamp).Error
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&cartLine{}).Error; err != nil {
			return err
		}
		return tx.Where("key = ?", timestampKey).Delete(&cartMeta{}).Error
	})
}

func (s *SQLiteStore) Lines(ctx context.Context) ([]Line, error) {
	var rows []cartLine
	if err := s.db.WithContext(ctx).Order("product_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, Line{ProductID: r.ProductID, Quantity: r.Quantity})
	}
	return lines, nil
}

func (s *SQLiteStore) TotalItems(ctx context.Context) (int, error) {
	var total *int64
	err := s.db.WithContext(ctx).Model(&cartLine{}).Select("sum(quantity)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return int(*total), nil
}

func (s *SQLiteStore) LastMutation(ctx context.Context) (time.Time, bool, error) {
	var meta cartMeta
	err := s.db.WithContext(ctx).Where("key = ?", timestampKey).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(meta.Value), true, nil
}
