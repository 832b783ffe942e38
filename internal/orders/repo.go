package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the order persistence collaborator. Create assigns the id and
// the per-store order number and must reject payloads containing
// null-valued keys.
type Store interface {
	Create(ctx context.Context, storeID string, draft *Draft) (*Order, error)
	UpdatePayment(ctx context.Context, storeID, orderID string, paymentStatus PaymentStatus, status Status, paymentID string) error
	FindByID(ctx context.Context, storeID, orderID string) (*Order, error)
}

// orderRecord is the gorm row; the full draft snapshot lives in Payload.
type orderRecord struct {
	ID            string `gorm:"primaryKey;size:36"`
	StoreID       string `gorm:"size:64;index:idx_orders_store"`
	OrderNumber   string `gorm:"size:16"`
	PaymentMethod string `gorm:"size:32"`
	PaymentStatus string `gorm:"size:16"`
	Status        string `gorm:"size:16"`
	PaymentID     string `gorm:"size:128"`
	Total         decimal.Decimal `gorm:"type:numeric"`
	Payload       string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (orderRecord) TableName() string { return "orders" }

// Repo is the gorm-backed order store.
type Repo struct {
	db *gorm.DB
}

// NewRepo builds the repository and migrates its table.
func NewRepo(db *gorm.DB) (*Repo, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if err := db.AutoMigrate(&orderRecord{}); err != nil {
		return nil, fmt.Errorf("migrating orders table: %w", err)
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Create(ctx context.Context, storeID string, draft *Draft) (*Order, error) {
	if draft == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order draft required")
	}
	if len(draft.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order payload")
	}
	if err := rejectNullKeys(payload); err != nil {
		return nil, err
	}

	var created *Order
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&orderRecord{}).Where("store_id = ?", storeID).Count(&count).Error; err != nil {
			return err
		}
		orderNumber := fmt.Sprintf("ORD-%03d", count+1)

		now := time.Now().UTC()
		record := orderRecord{
			ID:            uuid.NewString(),
			StoreID:       storeID,
			OrderNumber:   orderNumber,
			PaymentMethod: string(draft.PaymentMethod),
			PaymentStatus: string(draft.PaymentStatus),
			Status:        string(draft.Status),
			Total:         draft.Total,
			Payload:       string(payload),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		created = &Order{
			ID:          record.ID,
			OrderNumber: record.OrderNumber,
			Draft:       *draft,
			CreatedAt:   record.CreatedAt,
			UpdatedAt:   record.UpdatedAt,
		}
		return nil
	})
	if txErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "persist order")
	}
	return created, nil
}

func (r *Repo) UpdatePayment(ctx context.Context, storeID, orderID string, paymentStatus PaymentStatus, status Status, paymentID string) error {
	updates := map[string]any{
		"payment_status": string(paymentStatus),
		"status":         string(status),
		"updated_at":     time.Now().UTC(),
	}
	if paymentID != "" {
		updates["payment_id"] = paymentID
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND store_id = ?", orderID, storeID).
		Updates(updates)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "update order payment")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

func (r *Repo) FindByID(ctx context.Context, storeID, orderID string) (*Order, error) {
	var record orderRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", orderID, storeID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	var draft Draft
	if err := json.Unmarshal([]byte(record.Payload), &draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order payload")
	}
	return &Order{
		ID:          record.ID,
		OrderNumber: record.OrderNumber,
		Draft:       draft,
		PaymentID:   record.PaymentID,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

// rejectNullKeys enforces the store contract: no key in a persisted order
// payload may carry a null value.
func rejectNullKeys(payload []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order payload")
	}
	if path := findNull(doc, "$"); path != "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order payload contains null value").
			WithDetails(map[string]string{"path": path})
	}
	return nil
}

func findNull(node any, path string) string {
	switch value := node.(type) {
	case nil:
		return path
	case map[string]any:
		for key, child := range value {
			if found := findNull(child, path+"."+key); found != "" {
				return found
			}
		}
	case []any:
		for i, child := range value {
			if found := findNull(child, fmt.Sprintf("%s[%d]", path, i)); found != "" {
				return found
			}
		}
	}
	return ""
}
