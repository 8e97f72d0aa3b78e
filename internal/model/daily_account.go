package model

import (
	"time"
)

// DailyAccount is a manually entered financial ledger snapshot, one per
// supplier per date. It is not derived from order data.
type DailyAccount struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SupplierID    uint      `json:"supplier_id" gorm:"not null;uniqueIndex:idx_daily_account_day"`
	AccountDate   string    `json:"account_date" gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_account_day"` // YYYY-MM-DD
	TotalIncome   float64   `json:"total_income" gorm:"default:0"`
	TotalExpenses float64   `json:"total_expenses" gorm:"default:0"`
	NetProfit     float64   `json:"net_profit" gorm:"default:0"`
	IncomeNotes   string    `json:"income_notes,omitempty" gorm:"type:text"`
	ExpenseNotes  string    `json:"expense_notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
