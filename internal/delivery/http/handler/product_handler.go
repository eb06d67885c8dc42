package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"product-catalog/internal/delivery/dto"
	"product-catalog/internal/domain/entity"
	"product-catalog/internal/usecase"
	"product-catalog/pkg/response"
	"product-catalog/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultLowStockThreshold = 10

type ProductHandler struct {
	productUsecase usecase.ProductUsecase
	validator      *validator.CustomValidator
	log            *logrus.Logger
}

func NewProductHandler(productUsecase usecase.ProductUsecase, validator *validator.CustomValidator, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		productUsecase: productUsecase,
		validator:      validator,
		log:            log,
	}
}

// GetAll handles GET /products?page=&size=&sort=field,dir
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	products, err := h.productUsecase.GetAll(r.Context(), page)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeProductPage(w, products)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	product, err := h.productUsecase.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, r, h.validator.FormatValidationErrors(err))
		return
	}

	product, err := h.productUsecase.Create(r.Context(), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.Success(w, http.StatusCreated, "Product created successfully", product)
}

// Update applies a merge patch: absent fields keep their stored value.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, r, h.validator.FormatValidationErrors(err))
		return
	}

	product, err := h.productUsecase.Update(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	if err := h.productUsecase.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	response.NoContent(w)
}

// Search handles GET /products/search?name= (case-insensitive substring).
// An empty or absent name matches every product.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	products, err := h.productUsecase.Search(r.Context(), r.URL.Query().Get("name"), page)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeProductPage(w, products)
}

func (h *ProductHandler) Filter(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	page, err := parsePageRequest(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	products, err := h.productUsecase.Filter(r.Context(), filter, page)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeProductPage(w, products)
}

func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := defaultLowStockThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, r, "threshold must be an integer")
			return
		}
		threshold = value
	}

	products, err := h.productUsecase.LowStock(r.Context(), threshold)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "Low stock products retrieved successfully", products)
}

func (h *ProductHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		response.BadRequest(w, r, "quantity must be an integer")
		return
	}

	available, err := h.productUsecase.CheckAvailability(r.Context(), id, quantity)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "Availability checked successfully", dto.AvailabilityResponse{
		ProductID: id,
		Quantity:  quantity,
		Available: available,
	})
}

// SetStock handles PUT /products/{id}/stock with an absolute quantity.
func (h *ProductHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	h.changeStock(w, r, h.productUsecase.SetStock, "Stock updated successfully")
}

func (h *ProductHandler) ReserveStock(w http.ResponseWriter, r *http.Request) {
	h.changeStock(w, r, h.productUsecase.ReserveStock, "Stock reserved successfully")
}

func (h *ProductHandler) RestockStock(w http.ResponseWriter, r *http.Request) {
	h.changeStock(w, r, h.productUsecase.RestockStock, "Stock replenished successfully")
}

type stockChangeFunc func(ctx context.Context, id int64, quantity int) (*dto.ProductResponse, error)

func (h *ProductHandler) changeStock(w http.ResponseWriter, r *http.Request, change stockChangeFunc, message string) {
	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	var req dto.StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, r, h.validator.FormatValidationErrors(err))
		return
	}

	product, err := change(r.Context(), id, *req.Quantity)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, message, product)
}

// handleError maps usecase errors to status codes. Unknown errors are logged
// and answered with a generic 500.
func (h *ProductHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrProductNotFound):
		response.NotFound(w, r, err.Error())
	case errors.Is(err, usecase.ErrInsufficientStock):
		response.Error(w, r, http.StatusBadRequest, "Insufficient Stock", err.Error())
	case errors.Is(err, usecase.ErrInvalidQuantity),
		errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrInvalidStock),
		errors.Is(err, usecase.ErrInvalidPageRequest),
		errors.Is(err, usecase.ErrInvalidThreshold),
		errors.Is(err, usecase.ErrInvalidPriceRange):
		response.Error(w, r, http.StatusBadRequest, "Invalid Argument", err.Error())
	default:
		h.log.Errorf("Unhandled error on %s %s: %+v", r.Method, r.URL.Path, err)
		response.InternalServerError(w, r)
	}
}

func writeProductPage(w http.ResponseWriter, page *dto.ProductListResponse) {
	response.SuccessWithMeta(w, http.StatusOK, "Products retrieved successfully", page.Products, &response.Meta{
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	})
}

func parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(w, r, "Invalid product ID")
		return 0, false
	}
	return id, true
}

// parsePageRequest reads page (zero-based), size and sort=field[,asc|desc].
// Range checks are left to the usecase.
func parsePageRequest(r *http.Request) (entity.PageRequest, error) {
	query := r.URL.Query()
	page := entity.PageRequest{
		Page:      0,
		Size:      usecase.DefaultPageSize,
		SortBy:    "id",
		Direction: entity.SortAsc,
	}

	if raw := query.Get("page"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return page, errors.New("page must be an integer")
		}
		page.Page = value
	}

	if raw := query.Get("size"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return page, errors.New("size must be an integer")
		}
		page.Size = value
	}

	if raw := query.Get("sort"); raw != "" {
		field, direction, _ := strings.Cut(raw, ",")
		page.SortBy = strings.TrimSpace(field)
		switch strings.ToLower(strings.TrimSpace(direction)) {
		case "", entity.SortAsc:
			page.Direction = entity.SortAsc
		case entity.SortDesc:
			page.Direction = entity.SortDesc
		default:
			return page, errors.New("sort direction must be asc or desc")
		}
	}

	return page, nil
}

func parseProductFilter(r *http.Request) (*entity.ProductFilter, error) {
	query := r.URL.Query()
	filter := &entity.ProductFilter{Name: query.Get("name")}

	if query.Has("category") {
		category := query.Get("category")
		filter.Category = &category
	}
	if query.Has("brand") {
		brand := query.Get("brand")
		filter.Brand = &brand
	}

	var err error
	if filter.MinPrice, err = parseDecimalParam(query.Get("minPrice"), "minPrice"); err != nil {
		return nil, err
	}
	if filter.MaxPrice, err = parseDecimalParam(query.Get("maxPrice"), "maxPrice"); err != nil {
		return nil, err
	}
	if filter.Active, err = parseBoolParam(query.Get("active"), "active"); err != nil {
		return nil, err
	}
	if filter.InStock, err = parseBoolParam(query.Get("inStock"), "inStock"); err != nil {
		return nil, err
	}

	return filter, nil
}

func parseDecimalParam(raw, name string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.New(name + " must be a decimal number")
	}
	return &value, nil
}

func parseBoolParam(raw, name string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.New(name + " must be true or false")
	}
	return &value, nil
}
