package api

// Wire types for the Vaultora REST backend. Shapes only — all state lives
// server-side; the client never invents fields the backend does not return.

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Country      string `json:"country"`
	Role         string `json:"role"`
	KYCStatus    string `json:"kycStatus"` // pending | verified | rejected | none
	ReferralCode string `json:"referralCode"`
}

/**
  {
      "token": "eyJhb...",
      "user": { "id": "u_123", "email": "a@b.c", ... }
  }
*/

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Country    string `json:"country"`
	ReferrerID string `json:"referrerId,omitempty"`
}

type RegisterResponse struct {
	UserID string `json:"userId"`
}

type VerifyEmailRequest struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/**
  {
      "available": 1250.5,
      "pending": 300,
      "totalEarned": 4210.75
  }
*/

type Balance struct {
	Available   float64 `json:"available"`
	Pending     float64 `json:"pending"`
	TotalEarned float64 `json:"totalEarned"`
}

type Transaction struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"` // deposit | withdrawal | profit
	Token        string  `json:"token"`
	AmountUSD    float64 `json:"amountUsd"`
	AmountCrypto float64 `json:"amountCrypto"`
	Status       string  `json:"status"` // pending | confirmed | rejected
	CreatedAt    string  `json:"createdAt"`
}

type DepositRequest struct {
	PlanID       string  `json:"planId"`
	Token        string  `json:"token"`
	AmountUSD    float64 `json:"amountUsd"`
	AmountCrypto float64 `json:"amountCrypto"`
}

type WithdrawRequest struct {
	Token     string  `json:"token"`
	AmountUSD float64 `json:"amountUsd"`
	Address   string  `json:"address"`
}

type Referral struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	JoinedAt string  `json:"joinedAt"`
	Earned   float64 `json:"earned"`
}

type Document struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"` // front | back | selfie
	FileName   string `json:"fileName"`
	URL        string `json:"url"`
	UploadedAt string `json:"uploadedAt"`
}

type KYCSubmission struct {
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	FrontID     string `json:"frontDocumentId"`
	BackID      string `json:"backDocumentId"`
	SelfieID    string `json:"selfieDocumentId"`
}

type KYCRequest struct {
	UserID      string     `json:"userId"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	DateOfBirth string     `json:"dateOfBirth"`
	Documents   []Document `json:"documents"`
	Status      string     `json:"status"` // pending | verified | rejected
	SubmittedAt string     `json:"submittedAt"`
}

type AdminLoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type AdminUser struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"fullName"`
	KYCStatus string  `json:"kycStatus"`
	Balance   float64 `json:"balance"`
	JoinedAt  string  `json:"joinedAt"`
}

// Dashboard aggregates the independent account fetches the investor view
// needs; see Client.FetchDashboard.
type Dashboard struct {
	Balance      Balance
	Transactions []Transaction
	Referrals    []Referral
}
