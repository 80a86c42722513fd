package model

import "time"

// Product represents an item in the catalogue.
type Product struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Desc      string    `json:"desc,omitempty" db:"description"`
	Price     float64   `json:"price" db:"price"`
	Image     string    `json:"image,omitempty" db:"image"`
	Category  string    `json:"category,omitempty" db:"category"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateProductRequest is the payload for creating a product.
// ID is accepted for compatibility with older clients but never used; ids are
// assigned by the store.
type CreateProductRequest struct {
	ID       *int64   `json:"id,omitempty" validate:"-"`
	Name     string   `json:"name" validate:"required,notblank,max=255"`
	Desc     string   `json:"desc,omitempty" validate:"omitempty,max=1000"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Image    string   `json:"image,omitempty" validate:"omitempty,max=1024"`
	Category string   `json:"category,omitempty" validate:"omitempty,max=100"`
}

// UpdateProductRequest is the payload for a partial product update.
// Nil fields are left untouched.
type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitnil,min=1,notblank,max=255"`
	Desc     *string  `json:"desc,omitempty" validate:"omitnil,max=1000"`
	Price    *float64 `json:"price,omitempty" validate:"omitnil,gte=0"`
	Image    *string  `json:"image,omitempty" validate:"omitnil,max=1024"`
	Category *string  `json:"category,omitempty" validate:"omitnil,max=100"`
}

// IsEmpty reports whether the update carries no fields.
func (r *UpdateProductRequest) IsEmpty() bool {
	return r.Name == nil && r.Desc == nil && r.Price == nil && r.Image == nil && r.Category == nil
}

// Apply merges the supplied fields into p.
func (r *UpdateProductRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Desc != nil {
		p.Desc = *r.Desc
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Image != nil {
		p.Image = *r.Image
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
}

// ListQuery filters and paginates product listings.
type ListQuery struct {
	Category string
	Limit    int
	Offset   int
}

// DataResponse wraps every successful API payload.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// StatusResponse is returned by operations that have no entity to return.
type StatusResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}
