package handler

import (
	"net/http"

	"ecommerce-api/internal/imagestore"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/service"
	"ecommerce-api/internal/validation"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service      service.ProductService
	validator    *validation.Validator
	images       imagestore.Store
	maxBodyBytes int64
	logger       zerolog.Logger
}

// NewProductHandler creates a new product handler. Request bodies larger than
// maxBodyBytes are rejected with 413. validator vets form payloads before an
// uploaded image is stored.
func NewProductHandler(
	service service.ProductService,
	validator *validation.Validator,
	images imagestore.Store,
	maxBodyBytes int64,
	logger zerolog.Logger,
) *ProductHandler {
	return &ProductHandler{
		service:      service,
		validator:    validator,
		images:       images,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With().Str("handler", "product").Logger(),
	}
}

// Create handles POST /products.
//
//	@Summary		Create a product
//	@Description	Accepts JSON or multipart/form-data. A file part named image is stored and its reference saved on the product.
//	@Tags			products
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			product	body		model.CreateProductRequest	true	"Product to create"
//	@Success		201		{object}	model.DataResponse{data=model.Product}
//	@Failure		400		{object}	model.ErrorResponse
//	@Failure		401		{object}	model.ErrorResponse
//	@Failure		413		{object}	model.ErrorResponse
//	@Failure		500		{object}	model.ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxBodyBytes {
		writeError(w, r, &http.MaxBytesError{Limit: h.maxBodyBytes}, h.logger)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req *model.CreateProductRequest
	if isForm(r) {
		form, err := decodeForm(r)
		if err != nil {
			writeError(w, r, err, h.logger)
			return
		}
		defer form.close()

		req = form.createRequest()
		if form.upload != nil {
			// store the image only for a payload the service will accept
			if err := h.validator.Struct(req); err != nil {
				writeError(w, r, err, h.logger)
				return
			}
			ref, err := h.saveImage(r.Context(), *form.upload)
			if err != nil {
				writeError(w, r, err, h.logger)
				return
			}
			req.Image = ref
		}
	} else {
		req = &model.CreateProductRequest{}
		if err := decodeJSON(r, req); err != nil {
			writeError(w, r, err, h.logger)
			return
		}
	}

	product, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, product)
}

// List handles GET /products.
//
//	@Summary		List products
//	@Description	Lists products, optionally filtered by exact category. A category with no products yields 404.
//	@Tags			products
//	@Produce		json
//	@Param			category	query		string	false	"Category filter"
//	@Param			limit		query		int		false	"Page size (1-100, default 10)"
//	@Param			offset		query		int		false	"Items to skip"
//	@Success		200			{object}	model.DataResponse{data=[]model.Product}
//	@Failure		400			{object}	model.ErrorResponse
//	@Failure		404			{object}	model.ErrorResponse
//	@Failure		500			{object}	model.ErrorResponse
//	@Router			/products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	products, err := h.service.ListByCategory(r.Context(), query.Category, query.Limit, query.Offset)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, products)
}

// GetByID handles GET /products/{id}.
//
//	@Summary	Get a product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	model.DataResponse{data=model.Product}
//	@Failure	400	{object}	model.ErrorResponse
//	@Failure	404	{object}	model.ErrorResponse
//	@Failure	500	{object}	model.ErrorResponse
//	@Router		/products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, product)
}

// Update handles PATCH /products/{id}.
//
//	@Summary		Update a product
//	@Description	Merges the supplied fields into the product and refreshes updatedAt.
//	@Tags			products
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			id		path		int							true	"Product ID"
//	@Param			product	body		model.UpdateProductRequest	true	"Fields to change"
//	@Success		200		{object}	model.DataResponse{data=model.Product}
//	@Failure		400		{object}	model.ErrorResponse
//	@Failure		401		{object}	model.ErrorResponse
//	@Failure		404		{object}	model.ErrorResponse
//	@Failure		413		{object}	model.ErrorResponse
//	@Failure		500		{object}	model.ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/products/{id} [patch]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if r.ContentLength > h.maxBodyBytes {
		writeError(w, r, &http.MaxBytesError{Limit: h.maxBodyBytes}, h.logger)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req *model.UpdateProductRequest
	if isForm(r) {
		form, err := decodeForm(r)
		if err != nil {
			writeError(w, r, err, h.logger)
			return
		}
		defer form.close()

		req = form.updateRequest()
		if form.upload != nil {
			if err := h.validator.Struct(req); err != nil {
				writeError(w, r, err, h.logger)
				return
			}
			if _, err := h.service.GetByID(r.Context(), id); err != nil {
				writeError(w, r, err, h.logger)
				return
			}
			ref, err := h.saveImage(r.Context(), *form.upload)
			if err != nil {
				writeError(w, r, err, h.logger)
				return
			}
			req.Image = &ref
		}
	} else {
		req = &model.UpdateProductRequest{}
		if err := decodeJSON(r, req); err != nil {
			writeError(w, r, err, h.logger)
			return
		}
	}

	product, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}.
//
//	@Summary	Delete a product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	model.DataResponse{data=model.StatusResponse}
//	@Failure	400	{object}	model.ErrorResponse
//	@Failure	401	{object}	model.ErrorResponse
//	@Failure	404	{object}	model.ErrorResponse
//	@Failure	500	{object}	model.ErrorResponse
//	@Security	ApiKeyAuth
//	@Router		/products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, model.StatusResponse{
		StatusCode: http.StatusOK,
		Message:    "Product deleted successfully",
	})
}
