package mysql

import (
	"context"
	"errors"

	"sales-service/domain/sale"
	"sales-service/infrastructure/persistence"
	"sales-service/infrastructure/persistence/mysql/po"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// SaleRepository is the MySQL/GORM implementation of the sale repository.
// It persists the aggregate atomically, items included, and enforces
// optimistic concurrency through the sale version column. GORM association
// features are not used.
type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// getDB returns the ambient transaction when a unit of work is active.
func (r *SaleRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save persists the sale and its items. A version of zero means the sale
// was never stored; otherwise the update is conditional on the stored
// version and a miss reports a concurrent modification. A unique-key
// violation on insert surfaces as a duplicate sale number. Items are
// replaced with a delete-then-insert, which keeps cancelled items as rows.
func (r *SaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	salePO, itemPOs := po.FromSaleDomain(s)

	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, s, salePO, itemPOs)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, s, salePO, itemPOs)
	})
}

func (r *SaleRepository) saveWithTx(tx *gorm.DB, s *sale.Sale, salePO *po.SalePO, itemPOs []po.SaleItemPO) error {
	currentVersion := s.Version()
	salePO.Version = currentVersion + 1

	if currentVersion == 0 {
		if err := tx.Create(salePO).Error; err != nil {
			var mysqlErr *mysqlDriver.MySQLError
			if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
				return sale.NewDuplicateSaleNumberError(s.SaleNumber())
			}
			return err
		}
	} else {
		result := tx.Model(&po.SalePO{}).
			Where("id = ? AND version = ?", s.ID(), currentVersion).
			Updates(map[string]interface{}{
				"sale_number":   salePO.SaleNumber,
				"sale_date":     salePO.SaleDate,
				"customer_id":   salePO.CustomerID,
				"customer_name": salePO.CustomerName,
				"branch_id":     salePO.BranchID,
				"branch_name":   salePO.BranchName,
				"total_amount":  salePO.TotalAmount,
				"status":        salePO.Status,
				"version":       salePO.Version,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return sale.NewConcurrentModificationError(s.ID(), currentVersion)
		}
	}

	if err := tx.Where("sale_id = ?", s.ID()).Delete(&po.SaleItemPO{}).Error; err != nil {
		return err
	}
	if len(itemPOs) > 0 {
		if err := tx.Create(&itemPOs).Error; err != nil {
			return err
		}
	}

	s.IncrementVersionForSave()
	return nil
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	db := r.getDB(ctx)
	var salePO po.SalePO

	result := db.First(&salePO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, sale.NewSaleNotFoundError(id)
		}
		return nil, result.Error
	}
	return r.loadItems(db, &salePO)
}

func (r *SaleRepository) FindBySaleNumber(ctx context.Context, saleNumber string) (*sale.Sale, error) {
	db := r.getDB(ctx)
	var salePO po.SalePO

	result := db.First(&salePO, "sale_number = ?", saleNumber)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, sale.NewSaleNotFoundError(saleNumber)
		}
		return nil, result.Error
	}
	return r.loadItems(db, &salePO)
}

// loadItems queries items separately instead of preloading, which keeps the
// aggregate boundary out of the ORM.
func (r *SaleRepository) loadItems(db *gorm.DB, salePO *po.SalePO) (*sale.Sale, error) {
	var itemPOs []po.SaleItemPO
	if err := db.Where("sale_id = ?", salePO.ID).Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	return salePO.ToDomain(itemPOs), nil
}

func (r *SaleRepository) FindAll(ctx context.Context) ([]*sale.Sale, error) {
	db := r.getDB(ctx)
	var salePOs []po.SalePO

	if err := db.Order("sale_date DESC").Find(&salePOs).Error; err != nil {
		return nil, err
	}

	sales := make([]*sale.Sale, len(salePOs))
	for i := range salePOs {
		s, err := r.loadItems(db, &salePOs[i])
		if err != nil {
			return nil, err
		}
		sales[i] = s
	}
	return sales, nil
}

// Remove cancels the sale in place. Sales are business history; rows are
// never physically deleted.
func (r *SaleRepository) Remove(ctx context.Context, id string) error {
	result := r.getDB(ctx).
		Model(&po.SalePO{}).
		Where("id = ?", id).
		Update("status", string(sale.StatusCancelled))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return sale.NewSaleNotFoundError(id)
	}
	return nil
}

var _ sale.Repository = (*SaleRepository)(nil)
