package dto

// CreateParcelRequest is the request body for parcel creation.
type CreateParcelRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	SenderEmail string `json:"sender_email" binding:"required,email"`
	Cost        int64  `json:"cost" binding:"required,gt=0"` // Minor currency units
}

// ParcelResponse is the response body for parcel queries.
type ParcelResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SenderEmail   string  `json:"sender_email"`
	Cost          int64   `json:"cost"`
	PaymentStatus string  `json:"payment_status"`
	TrackingID    *string `json:"tracking_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// CheckoutSessionRequest is the request body for opening a checkout session.
type CheckoutSessionRequest struct {
	ParcelID string `json:"parcel_id" binding:"required,uuid"`
}

// CheckoutSessionResponse carries the hosted-checkout handle back to the client.
type CheckoutSessionResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// ConfirmPaymentResponse is the response body for a confirmation attempt.
type ConfirmPaymentResponse struct {
	Outcome       string `json:"outcome"` // reconciled | already_reconciled
	TrackingID    string `json:"tracking_id"`
	TransactionID string `json:"transaction_id"`
	ParcelUpdated bool   `json:"parcel_updated"`
}

// PaymentRecordResponse is one entry of a customer's payment history.
type PaymentRecordResponse struct {
	ID            string  `json:"id"`
	ParcelID      string  `json:"parcel_id"`
	ParcelName    string  `json:"parcel_name"`
	Amount        float64 `json:"amount"` // Major currency units
	Currency      string  `json:"currency"`
	CustomerEmail string  `json:"customer_email"`
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	PaidAt        string  `json:"paid_at"`
	TrackingID    string  `json:"tracking_id"`
}
