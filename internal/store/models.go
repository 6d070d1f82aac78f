package store

import "encoding/json"

// Persisted key-value keys. Each collection lives under its own key so that
// partial corruption of one never takes down the others.
const (
	KeyProducts = "shop_products"
	KeySettings = "shop_settings"
	KeyOrders   = "shop_orders"
	KeyCart     = "shop_cart"
	KeyUsers    = "shop_registered_users"
	KeySession  = "shop_session_user"
)

// Product types.
const (
	TypeShoe   = "shoe"
	TypeTShirt = "tshirt"
)

// Order statuses. Orders are always created Pending; the data layer has no
// transition operations.
const (
	StatusPending   = "Pending"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
)

// Product is a sellable item. Image always mirrors Images[0] when Images is
// non-empty; OrderWeight is the explicit manual sort key.
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Price          float64   `json:"price"`
	CompareAtPrice *float64  `json:"compareAtPrice,omitempty"`
	Category       string    `json:"category,omitempty"`
	Type           string    `json:"type"`
	Description    string    `json:"description,omitempty"`
	Image          string    `json:"image"`
	Images         []string  `json:"images,omitempty"`
	Variants       []Variant `json:"variants,omitempty"`
	IsFeatured     bool      `json:"isFeatured,omitempty"`
	IsHidden       bool      `json:"isHidden,omitempty"`
	OrderWeight    int       `json:"orderWeight"`
}

// Variant is a colorway of its parent product. It has no identity of its own.
type Variant struct {
	Color  string      `json:"color"`
	Images []string    `json:"images,omitempty"`
	Sizes  []SizeStock `json:"sizes,omitempty"`
}

// SizeStock pairs a size label with its stock count.
type SizeStock struct {
	Size  Size `json:"size"`
	Stock int  `json:"stock"`
}

// Size accepts both numeric (legacy shoe sizes) and string (apparel sizes)
// JSON values and keeps them as a string.
type Size string

func (s *Size) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Size(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = Size(num.String())
	return nil
}

// FeatureItem is one homepage feature-highlight tuple.
type FeatureItem struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Stat  string `json:"stat"`
}

// SiteSettings is the single site-wide configuration record.
type SiteSettings struct {
	HeroTitle      string        `json:"heroTitle"`
	HeroSubtitle   string        `json:"heroSubtitle"`
	HeroImage      string        `json:"heroImage"`
	AboutTitle     string        `json:"aboutTitle"`
	AboutText      string        `json:"aboutText"`
	AboutImage     string        `json:"aboutImage"`
	Features       []FeatureItem `json:"features"`
	GalleryImages  []string      `json:"galleryImages"`
	ProductsPerRow int           `json:"productsPerRow"`
	AccentColor    string        `json:"accentColor"`
	ShowFeatures   bool          `json:"showFeatures"`
	ShowAbout      bool          `json:"showAbout"`
	ShowGallery    bool          `json:"showGallery"`
	ShowReviews    bool          `json:"showReviews"`
	ShowTShirts    bool          `json:"showTshirts"`
}

// ShippingInfo is the checkout shipping form, stored as given.
type ShippingInfo struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	PinCode  string `json:"pinCode"`
}

// OrderItem is a snapshot of one cart line captured at order time.
type OrderItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"qty"`
}

// Order is an immutable receipt of a completed checkout. The total is
// caller-computed and stored as given.
type Order struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	UserName      string        `json:"userName,omitempty"`
	ShippingInfo  *ShippingInfo `json:"shippingInfo,omitempty"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Items         []OrderItem   `json:"items"`
	Total         float64       `json:"total"`
	Date          string        `json:"date"`
	Status        string        `json:"status"`
}

// User is a registered-user directory entry. The password hash never leaves
// the auth collaborator.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Role         string `json:"role"`
}

// Document is the full snapshot shape exchanged with the remote document
/// store: { products, settings, orders }.
type Document struct {
	Products []Product     `json:"products"`
	Settings *SiteSettings `json:"settings,omitempty"`
	Orders   []Order       `json:"orders"`
}
