package models

import "time"

// Account is a user row owned by the development backend.
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Transaction is a transaction row owned by the development backend.
// Total is computed from Amount and Discount on every write.
type Transaction struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Amount    float64   `json:"amount"`
	Discount  float64   `json:"discount"`
	Total     float64   `json:"total"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// ComputeTotal applies a percentage discount to amount.
func ComputeTotal(amount, discount float64) float64 {
	return amount * (100 - discount) / 100
}
