package models

// Fee statuses.
const (
	FeeStatusPending = "pending"
	FeeStatusPaid    = "paid"
	FeeStatusOverdue = "overdue"
	FeeStatusPartial = "partial"
)

// Payment methods accepted when settling a fee.
const (
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentBankTransfer = "bank_transfer"
	PaymentUPI          = "upi"
	PaymentCheque       = "cheque"
)

// FeeStatuses lists every valid fee status.
var FeeStatuses = []string{FeeStatusPending, FeeStatusPaid, FeeStatusOverdue, FeeStatusPartial}

// PaymentMethods lists every valid payment method.
var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentBankTransfer, PaymentUPI, PaymentCheque}

// Fee is one row of the Fees worksheet.
type Fee struct {
	ID            string  `sheet:"ID" json:"ID"`
	StudentID     string  `sheet:"Student ID" json:"Student ID"`
	CourseID      string  `sheet:"Course ID" json:"Course ID"`
	Amount        float64 `sheet:"Amount" json:"Amount"`
	DueDate       string  `sheet:"Due Date" json:"Due Date"`
	PaidDate      string  `sheet:"Paid Date" json:"Paid Date"`
	PaymentMethod string  `sheet:"Payment Method" json:"Payment Method"`
	Status        string  `sheet:"Status" json:"Status"`
	CreatedAt     string  `sheet:"Created At" json:"Created At"`
	UpdatedAt     string  `sheet:"Updated At" json:"Updated At"`
}

// FeeFilter narrows fee listings.
type FeeFilter struct {
	Search    string
	Status    string
	StudentID string
	CourseID  string
	Page      int
	Limit     int
}

// PaymentRequest settles a fee.
type PaymentRequest struct {
	PaidDate      string `json:"Paid Date" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod string `json:"Payment Method" validate:"omitempty,oneof=cash card bank_transfer upi cheque"`
}

// FeeAmounts totals fee amounts by state.
type FeeAmounts struct {
	Total   float64 `json:"total"`
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
}

// FeeStats summarises the Fees worksheet.
type FeeStats struct {
	SheetStats
	ByStatus map[string]int `json:"byStatus"`
	Amounts  FeeAmounts     `json:"amounts"`
}
