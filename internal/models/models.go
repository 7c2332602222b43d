package models

import "time"

// ==========================================
// CATALOG
// ==========================================

type ProductCategory string

const (
	CategoryFood  ProductCategory = "food"
	CategoryDrink ProductCategory = "drink"
)

type ProductStatus string

const (
	StatusRegular ProductStatus = "regular"
	StatusPromo   ProductStatus = "promo"
	StatusNew     ProductStatus = "new"
)

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       int             `gorm:"not null" json:"price"`
	Discount    int             `gorm:"not null;default:0" json:"discount"`
	Category    ProductCategory `gorm:"type:varchar(20);not null" json:"category"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:regular" json:"status"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PointProduct is a catalog item obtainable only by redeeming points,
// priced in points instead of rupiah.
type PointProduct struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `json:"description"`
	Image          string    `json:"image"`
	PointsRequired int       `gorm:"not null" json:"points_required"`
	Stock          int       `gorm:"not null;default:0" json:"stock"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ==========================================
// CART
// ==========================================

type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is keyed by (cart, product); repeated adds accumulate Quantity.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ==========================================
// TRANSACTIONS & LEDGER
// ==========================================

type TransactionType string

const (
	TypePurchase TransactionType = "purchase"
	TypeRedeem   TransactionType = "redeem"
)

type TransactionStatus string

const (
	StatusWaiting    TransactionStatus = "waiting"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusCancelled  TransactionStatus = "cancelled"
)

// Transaction is an immutable order record. After creation only Status
// changes (and, on completion of a purchase, the owner's point balance).
// For redeem transactions Total is always 0 and PointsEarned holds the
// negated point cost of the redeemed items.
type Transaction struct {
	ID             uint                  `gorm:"primaryKey" json:"id"`
	TransactionNum int                   `gorm:"uniqueIndex;not null" json:"transaction_num"`
	UserID         uint                  `gorm:"index;not null" json:"user_id"`
	User           User                  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type           TransactionType       `gorm:"type:varchar(20);not null" json:"type"`
	Status         TransactionStatus     `gorm:"type:varchar(20);not null;default:waiting" json:"status"`
	Total          int                   `gorm:"not null" json:"total"`
	PointsEarned   int                   `gorm:"not null" json:"points_earned"`
	Address        string                `json:"address"`
	Items          []TransactionItem     `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
	RedeemItems    []PointRedemptionItem `gorm:"foreignKey:TransactionID" json:"redeem_items,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// TransactionItem snapshots the unit price at checkout time, decoupled
// from the current catalog price.
type TransactionItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	TransactionID uint    `gorm:"index;not null" json:"transaction_id"`
	ProductID     uint    `gorm:"not null" json:"product_id"`
	Product       Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int     `gorm:"not null" json:"quantity"`
	Price         int     `gorm:"not null" json:"price"`
}

type PointRedemptionItem struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	TransactionID  uint         `gorm:"index;not null" json:"transaction_id"`
	PointProductID uint         `gorm:"not null" json:"point_product_id"`
	PointProduct   PointProduct `gorm:"foreignKey:PointProductID" json:"point_product,omitempty"`
	Quantity       int          `gorm:"not null" json:"quantity"`
	Points         int          `gorm:"not null" json:"points"`
}

// ==========================================
// AUTH & USERS
// ==========================================

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserNum  int    `gorm:"uniqueIndex;not null" json:"user_num"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"uniqueIndex;not null" json:"phone"`

	// Tag column:password_hash keeps the DB column name explicit and
	// json:"-" hides the hash from every response payload.
	Password string `gorm:"column:password_hash;not null" json:"-"`

	Role        Role       `gorm:"type:varchar(20);not null;default:user" json:"role"`
	Address     string     `json:"address"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`

	// Points only ever changes through the ledger operations. The check
	// constraint backs up the conditional debit in the redemption flow.
	Points int `gorm:"not null;default:0;check:points >= 0" json:"points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
	User  User   `json:"user"`
}
