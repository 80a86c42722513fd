package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"ecommerce-api/internal/imagestore"
	"ecommerce-api/internal/model"

	"github.com/go-chi/chi/v5"
)

// multipartMemory is how much of a multipart body is kept in memory before
// file parts spill to disk.
const multipartMemory = 8 << 20

// productForm holds the product fields read from a form body. Absent fields are nil.
type productForm struct {
	Name     *string
	Desc     *string
	Price    *float64
	Image    *string
	Category *string

	upload *imagestore.Upload
	file   multipart.File
	mpForm *multipart.Form
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(model.ErrCodeInvalidID, "Product id must be a positive integer")
	}
	return id, nil
}

func parseListQuery(r *http.Request) (model.ListQuery, error) {
	q := r.URL.Query()
	query := model.ListQuery{Category: q.Get("category")}

	var err error
	if query.Limit, err = queryInt(q.Get("limit")); err != nil {
		return query, badRequest(model.ErrCodeInvalidQuery, "limit must be an integer")
	}
	if query.Offset, err = queryInt(q.Get("offset")); err != nil {
		return query, badRequest(model.ErrCodeInvalidQuery, "offset must be an integer")
	}
	return query, nil
}

// queryInt parses an optional integer; empty means zero and lets the service
// apply its default.
func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// isForm reports whether the request body is form encoded rather than JSON.
func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "multipart/form-data" || mediaType == "application/x-www-form-urlencoded"
}

// decodeJSON decodes exactly one JSON value from the body.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return err
		case errors.Is(err, io.EOF):
			return badRequest(model.ErrCodeInvalidJSON, "Request body is required")
		default:
			return badRequest(model.ErrCodeInvalidJSON, "Request body is not valid JSON")
		}
	}

	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
	}
	return badRequest(model.ErrCodeInvalidJSON, "Request body must contain a single JSON object")
}

// decodeForm parses a multipart or urlencoded body. A file part named image is
// sniffed and held in the form; nothing is stored until saveImage is called.
// Callers must call close on the returned form.
func decodeForm(r *http.Request) (*productForm, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, badRequest(model.ErrCodeInvalidForm, "Request body is not a valid form")
	}

	form := &productForm{
		Name:      formValue(r, "name"),
		Desc:      formValue(r, "desc"),
		Image:     formValue(r, "image"),
		Category:  formValue(r, "category"),
		mpForm:    r.MultipartForm,
	}

	if raw := formValue(r, "price"); raw != nil {
		price, err := strconv.ParseFloat(*raw, 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			form.close()
			return nil, &model.ValidationError{Fields: map[string]string{"price": "must be a number"}}
		}
		form.Price = &price
	}

	if err := form.readImage(r); err != nil {
		form.close()
		return nil, err
	}

	return form, nil
}

// readImage opens and sniffs the image file part, if any.
func (f *productForm) readImage(r *http.Request) error {
	if f.mpForm == nil {
		return nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return badRequest(model.ErrCodeInvalidForm, "Image part could not be read")
	}
	f.file = file

	upload, err := imagestore.NewUpload(header.Filename, header.Size, file)
	if errors.Is(err, imagestore.ErrUnsupportedImage) {
		return &model.ValidationError{Fields: map[string]string{"image": "must be an image file"}}
	}
	if err != nil {
		return err
	}
	f.upload = &upload
	return nil
}

// close releases the image part and any temporary files of the multipart body.
func (f *productForm) close() {
	if f.file != nil {
		_ = f.file.Close()
	}
	if f.mpForm != nil {
		_ = f.mpForm.RemoveAll()
	}
}

// saveImage stores the pending upload and returns its reference.
func (h *ProductHandler) saveImage(ctx context.Context, upload imagestore.Upload) (string, error) {
	ref, err := h.images.Save(ctx, upload)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return ref, nil
}

// formValue returns nil when key is absent from the form, so partial updates
// can tell "not sent" from "sent empty".
func formValue(r *http.Request, key string) *string {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func (f *productForm) createRequest() *model.CreateProductRequest {
	req := &model.CreateProductRequest{Price: f.Price}
	if f.Name != nil {
		req.Name = *f.Name
	}
	if f.Desc != nil {
		req.Desc = *f.Desc
	}
	if f.Image != nil {
		req.Image = *f.Image
	}
	if f.Category != nil {
		req.Category = *f.Category
	}
	return req
}

func (f *productForm) updateRequest() *model.UpdateProductRequest {
	return &model.UpdateProductRequest{
		Name:     f.Name,
		Desc:     f.Desc,
		Price:    f.Price,
		Image:    f.Image,
		Category: f.Category,
	}
}
