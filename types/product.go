package types

// Product mirrors a catalog record owned by the backend. The client never
// mutates products directly; admin writes go through the API and the local
// copy is refreshed or echoed afterwards.
type Product struct {
	// ID is the unique identifier assigned by the backend.
	ID string `json:"_id"`

	// Name is the display name of the product.
	Name string `json:"name"`

	// Price is the unit price. Never negative.
	Price float64 `json:"price"`

	// Category is the name of the category the product belongs to.
	// Matching against categories is case-insensitive.
	Category string `json:"category"`

	// Brand is the manufacturer or label name.
	Brand string `json:"brand,omitempty"`

	// Description is the long-form product description.
	Description string `json:"description,omitempty"`

	// Specifications is an ordered list of spec lines shown on the
	// product page.
	Specifications []string `json:"specifications,omitempty"`

	// Image is the product image path relative to the backend root,
	// empty when no image has been uploaded.
	Image string `json:"image,omitempty"`
}

// Category groups products and carries the slide images shown on its
// landing page.
type Category struct {
	ID string `json:"_id"`

	// Name is unique across categories; comparisons are
	// case-insensitive.
	Name string `json:"name"`

	// Slides is the ordered list of banner image paths.
	Slides []string `json:"slides,omitempty"`
}
