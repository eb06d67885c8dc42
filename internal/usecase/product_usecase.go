package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"product-catalog/internal/converter"
	"product-catalog/internal/delivery/dto"
	"product-catalog/internal/delivery/http/middleware"
	"product-catalog/internal/domain/entity"
	"product-catalog/internal/domain/repository"
	"product-catalog/internal/infrastructure/cache"
	"product-catalog/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidPrice       = errors.New("price must be greater than 0")
	ErrInvalidStock       = errors.New("stock quantity must not be negative")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidPageRequest = errors.New("invalid page request")
	ErrInvalidThreshold   = errors.New("threshold must be at least 1")
	ErrInvalidPriceRange  = errors.New("minPrice must not exceed maxPrice")
)

type ProductUsecase interface {
	GetAll(ctx context.Context, page entity.PageRequest) (*dto.ProductListResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error)
	Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, name string, page entity.PageRequest) (*dto.ProductListResponse, error)
	Filter(ctx context.Context, filter *entity.ProductFilter, page entity.PageRequest) (*dto.ProductListResponse, error)
	LowStock(ctx context.Context, threshold int) ([]dto.ProductResponse, error)
	SetStock(ctx context.Context, id int64, quantity int) (*dto.ProductResponse, error)
	ReserveStock(ctx context.Context, id int64, quantity int) (*dto.ProductResponse, error)
	RestockStock(ctx context.Context, id int64, quantity int) (*dto.ProductResponse, error)
	CheckAvailability(ctx context.Context, id int64, quantity int) (bool, error)
}

type productUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	productRepo  repository.ProductRepository
	productCache cache.ProductCache
	auditService service.AuditService

	// cacheMu orders cache writes against invalidation. generation is bumped
	// by every mutation; a read that started under an older generation must
	// not populate the cache.
	cacheMu    sync.RWMutex
	generation uint64
}

func NewProductUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	productRepo repository.ProductRepository,
	productCache cache.ProductCache,
	auditService service.AuditService,
) ProductUsecase {
	return &productUsecase{
		db:           db,
		log:          log,
		productRepo:  productRepo,
		productCache: productCache,
		auditService: auditService,
	}
}

func (u *productUsecase) GetAll(ctx context.Context, page entity.PageRequest) (*dto.ProductListResponse, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}

	key := cache.PageKey(page)
	cached, ok, err := u.productCache.GetPage(ctx, key)
	if err != nil {
		u.log.Warnf("Failed to read page cache: %+v", err)
	}
	if ok {
		return converter.ProductPageToResponse(cached), nil
	}

	gen := u.currentGeneration()
	products, total, err := u.productRepo.FindAll(u.db.WithContext(ctx), page)
	if err != nil {
		u.log.Warnf("Failed to find products: %+v", err)
		return nil, err
	}

	result := entity.NewProductPage(products, page, total)
	u.fillCache(gen, func() error { return u.productCache.SetPage(ctx, key, result) })

	return converter.ProductPageToResponse(result), nil
}

func (u *productUsecase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	cached, ok, err := u.productCache.GetProduct(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to read product cache: %+v", err)
	}
	if ok {
		return converter.ProductToResponse(cached), nil
	}

	gen := u.currentGeneration()
	product, err := u.productRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find product: %+v", err)
		return nil, err
	}
	if product == nil {
		return nil, notFound(id)
	}

	u.fillCache(gen, func() error { return u.productCache.SetProduct(ctx, product) })

	return converter.ProductToResponse(product), nil
}

func (u *productUsecase) Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := converter.CreateRequestToProduct(req)
	if !product.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if product.StockQuantity < 0 {
		return nil, ErrInvalidStock
	}

	// Stores keep microseconds; the returned timestamps must match a later read.
	now := time.Now().Truncate(time.Microsecond)
	product.CreatedAt = now
	product.UpdatedAt = now

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.productRepo.Create(tx, product); err != nil {
		u.log.Warnf("Failed to create product: %+v", err)
		return nil, err
	}

	response := converter.ProductToResponse(product)
	if err := u.auditService.LogCreate(ctx, tx, actorID(ctx), entity.AuditActionProductCreate, entity.AuditEntityProduct, productKey(product.ID), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// A new row shifts every page but cannot be in the id cache yet.
	u.invalidate(ctx, nil)

	u.log.Infof("Product created with ID %d", product.ID)
	return response, nil
}

func (u *productUsecase) Update(ctx context.Context, id int64, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	product, err := u.productRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find product: %+v", err)
		return nil, err
	}
	if product == nil {
		return nil, notFound(id)
	}

	// Capture old value for audit
	oldValue := converter.ProductToResponse(product)

	columns := applyProductPatch(product, req)
	if !product.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if product.StockQuantity < 0 {
		return nil, ErrInvalidStock
	}

	// Only patched columns are written; a reservation committed since the
	// read above must survive a patch that does not set stockQuantity.
	affected, err := u.productRepo.Update(tx, product, columns)
	if err != nil {
		u.log.Warnf("Failed to update product: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, notFound(id)
	}

	updated, err := u.reload(tx, id)
	if err != nil {
		return nil, err
	}

	newValue := converter.ProductToResponse(updated)
	if err := u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionProductUpdate, entity.AuditEntityProduct, productKey(id), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.invalidate(ctx, &id)

	u.log.Infof("Product updated with ID %d", id)
	return newValue, nil
}

// Delete removes the row permanently. A missing id is reported, never ignored.
func (u *productUsecase) Delete(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	product, err := u.productRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find product: %+v", err)
		return err
	}
	if product == nil {
		return notFound(id)
	}

	affected, err := u.productRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete product: %+v", err)
		return err
	}
	if affected == 0 {
		return notFound(id)
	}

	if err := u.auditService.LogDelete(ctx, tx, actorID(ctx), entity.AuditActionProductDelete, entity.AuditEntityProduct, productKey(id), converter.ProductToResponse(product)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.invalidate(ctx, &id)

	u.log.Infof("Product deleted with ID %d", id)
	return nil
}

// Search matches name case-insensitively. Results are never cached.
func (u *productUsecase) Search(ctx context.Context, name string, page entity.PageRequest) (*dto.ProductListResponse, error) {
	return u.Filter(ctx, &entity.ProductFilter{Name: strings.TrimSpace(name)}, page)
}

func (u *productUsecase) Filter(ctx context.Context, filter *entity.ProductFilter, page entity.PageRequest) (*dto.ProductListResponse, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	if filter != nil && filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, ErrInvalidPriceRange
	}

	products, total, err := u.productRepo.FindByFilter(u.db.WithContext(ctx), filter, page)
	if err != nil {
		u.log.Warnf("Failed to filter products: %+v", err)
		return nil, err
	}

	return converter.ProductPageToResponse(entity.NewProductPage(products, page, total)), nil
}

func (u *productUsecase) LowStock(ctx context.Context, threshold int) ([]dto.ProductResponse, error) {
	if threshold < 1 {
		return nil, ErrInvalidThreshold
	}

	products, err := u.productRepo.FindLowStock(u.db.WithContext(ctx), threshold)
	if err != nil {
		u.log.Warnf("Failed to find low stock products: %+v", err)
		return nil, err
	}

	return converter.ProductsToResponses(products), nil
}

func (u *productUsecase) SetStock(ctx context.Context, id int64, quantity int) (*dto.ProductResponse, error) {
	if quantity < 0 {
		return nil, ErrInvalidStock
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	before, err := u.productRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find product: %+v", err)
		return nil, err
	}
	if before == nil {
		return nil, notFound(id)
	}

	affected, err := u.productRepo.SetStock(tx, id, quantity)
	if err != nil {
		u.log.Warnf("Failed to set stock: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, notFound(id)
	}

	return u.finishStockChange(ctx, tx, id, entity.AuditActionProductStockSet, before.StockQuantity, quantity)
}

// ReserveStock takes quantity units out of stock in one conditional update.
// On failure the stored quantity is left untouched.
func (u *productUsecase) ReserveStock(ctx context.Context, id int64, quantity int) (*dto.ProductResponse, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.productRepo.DecrementStock(tx, id, quantity)
	if err != nil {
		u.log.Warnf("Failed to reserve stock: %+v", err)
		return nil, err
	}
	if affected == 0 {
		current, err := u.productRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find product: %+v", err)
			return nil, err
		}
		if current == nil {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("%w for product %d: requested %d, available %d", ErrInsufficientStock, id, quantity, current.StockQuantity)
	}

	return u.finishStockChange(ctx, tx, id, entity.AuditActionProductStockReserve, -1, -quantity)
}

func (u *productUsecase) RestockStock(ctx context.Context, id int64, quantity int) (*dto.ProductResponse, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.productRepo.IncrementStock(tx, id, quantity)
	if err != nil {
		u.log.Warnf("Failed to restock: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, notFound(id)
	}

	return u.finishStockChange(ctx, tx, id, entity.AuditActionProductStockRestock, -1, quantity)
}

// CheckAvailability reports false for a product that does not exist rather
// than failing; callers asking "can I buy this" get a plain no.
func (u *productUsecase) CheckAvailability(ctx context.Context, id int64, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, ErrInvalidQuantity
	}

	product, err := u.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return false, nil
		}
		return false, err
	}

	return product.StockQuantity >= quantity, nil
}

// finishStockChange reloads the row, records the audit entry and commits.
// For relative changes previous is -1 and change is the signed delta.
func (u *productUsecase) finishStockChange(ctx context.Context, tx *gorm.DB, id int64, action string, previous, change int) (*dto.ProductResponse, error) {
	updated, err := u.reload(tx, id)
	if err != nil {
		return nil, err
	}

	if previous < 0 {
		previous = updated.StockQuantity - change
	}

	oldValue := map[string]interface{}{"stockQuantity": previous}
	newValue := map[string]interface{}{"stockQuantity": updated.StockQuantity}
	if err := u.auditService.LogUpdate(ctx, tx, actorID(ctx), action, entity.AuditEntityProduct, productKey(id), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.invalidate(ctx, &id)

	return converter.ProductToResponse(updated), nil
}

func (u *productUsecase) reload(tx *gorm.DB, id int64) (*entity.Product, error) {
	product, err := u.productRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to reload product: %+v", err)
		return nil, err
	}
	if product == nil {
		return nil, notFound(id)
	}
	return product, nil
}

func (u *productUsecase) currentGeneration() uint64 {
	u.cacheMu.RLock()
	defer u.cacheMu.RUnlock()
	return u.generation
}

// fillCache runs store only if no mutation happened since gen was read.
// Cache failures are logged and otherwise ignored.
func (u *productUsecase) fillCache(gen uint64, store func() error) {
	u.cacheMu.RLock()
	defer u.cacheMu.RUnlock()

	if gen != u.generation {
		return
	}
	if err := store(); err != nil {
		u.log.Warnf("Failed to populate product cache: %+v", err)
	}
}

// invalidate drops all cached pages and, when id is set, that product.
// It runs after commit and before the mutation returns.
func (u *productUsecase) invalidate(ctx context.Context, id *int64) {
	u.cacheMu.Lock()
	defer u.cacheMu.Unlock()

	u.generation++

	if id != nil {
		if err := u.productCache.EvictProduct(ctx, *id); err != nil {
			u.log.Errorf("Failed to evict product %d from cache: %+v", *id, err)
		}
	}
	if err := u.productCache.EvictPages(ctx); err != nil {
		u.log.Errorf("Failed to evict product pages from cache: %+v", err)
	}
}

// applyProductPatch copies the non-nil fields of req onto product and
// returns the columns it changed.
func applyProductPatch(product *entity.Product, req *dto.UpdateProductRequest) []string {
	columns := []string{}
	if req == nil {
		return columns
	}
	if req.Name != nil {
		product.Name = *req.Name
		columns = append(columns, "name")
	}
	if req.Description != nil {
		product.Description = req.Description
		columns = append(columns, "description")
	}
	if req.Price != nil {
		product.Price = *req.Price
		columns = append(columns, "price")
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
		columns = append(columns, "stock_quantity")
	}
	if req.Category != nil {
		product.Category = req.Category
		columns = append(columns, "category")
	}
	if req.Brand != nil {
		product.Brand = req.Brand
		columns = append(columns, "brand")
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
		columns = append(columns, "image_url")
	}
	if req.Active != nil {
		product.Active = *req.Active
		columns = append(columns, "active")
	}
	return columns
}

func validatePage(page entity.PageRequest) error {
	if page.Page < 0 {
		return fmt.Errorf("%w: page must not be negative", ErrInvalidPageRequest)
	}
	if page.Size < 1 || page.Size > MaxPageSize {
		return fmt.Errorf("%w: size must be between 1 and %d", ErrInvalidPageRequest, MaxPageSize)
	}
	if page.SortBy != "" {
		if _, ok := entity.ProductSortColumns[page.SortBy]; !ok {
			return fmt.Errorf("%w: cannot sort by %q", ErrInvalidPageRequest, page.SortBy)
		}
	}
	if page.Direction != "" && page.Direction != entity.SortAsc && page.Direction != entity.SortDesc {
		return fmt.Errorf("%w: sort direction must be asc or desc", ErrInvalidPageRequest)
	}
	return nil
}

func notFound(id int64) error {
	return fmt.Errorf("%w with ID %d", ErrProductNotFound, id)
}

func productKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// actorID is the authenticated user behind ctx, or nil for anonymous calls.
func actorID(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &userID
}
