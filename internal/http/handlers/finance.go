package handlers

import (
	"net/http"
	"strings"
)

const (
	baseCreditScore   = 650
	creditPerCatch    = 10
	maxCreditScore    = 850
	loanEligibleAbove = 600
	loanPerPoint      = 1000

	defaultCoverageType   = "equipment"
	defaultCoverageAmount = 1000000
	premiumRate           = 0.05
)

type creditScoreResponse struct {
	UserID        string `json:"user_id"`
	CreditScore   int    `json:"credit_score"`
	LoanEligible  bool   `json:"loan_eligible"`
	MaxLoanAmount int    `json:"max_loan_amount"`
	CatchCount    int    `json:"catch_count"`
}

type insuranceQuoteRequest struct {
	UserID         string   `json:"user_id"`
	CoverageType   string   `json:"coverage_type"`
	CoverageAmount *float64 `json:"coverage_amount"`
}

type insuranceQuoteResponse struct {
	UserID         string  `json:"user_id"`
	CoverageType   string  `json:"coverage_type"`
	CoverageAmount float64 `json:"coverage_amount"`
	AnnualPremium  float64 `json:"annual_premium"`
	Message        string  `json:"message"`
}

// CreditScore derives a score from the number of recorded catches.
func (a *App) CreditScore(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id required")
		return
	}
	records, err := a.Store.ListCatchesByUser(r.Context(), userID)
	if err != nil {
		a.logger().Error().Err(err).Str("user_id", userID).Msg("credit score: list catches failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load catches")
		return
	}
	a.json(w, http.StatusOK, scoreCredit(userID, len(records)))
}

func scoreCredit(userID string, catches int) creditScoreResponse {
	score := min(baseCreditScore+creditPerCatch*catches, maxCreditScore)
	return creditScoreResponse{
		UserID:        userID,
		CreditScore:   score,
		LoanEligible:  score > loanEligibleAbove,
		MaxLoanAmount: score * loanPerPoint,
		CatchCount:    catches,
	}
}

func (a *App) InsuranceQuote(w http.ResponseWriter, r *http.Request) {
	var req insuranceQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id required")
		return
	}
	coverageType := strings.TrimSpace(req.CoverageType)
	if coverageType == "" {
		coverageType = defaultCoverageType
	}
	amount := float64(defaultCoverageAmount)
	if req.CoverageAmount != nil {
		amount = *req.CoverageAmount
	}
	if amount < 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "coverage_amount must not be negative")
		return
	}
	a.json(w, http.StatusOK, insuranceQuoteResponse{
		UserID:         req.UserID,
		CoverageType:   coverageType,
		CoverageAmount: amount,
		AnnualPremium:  amount * premiumRate,
		Message:        "Comprehensive coverage",
	})
}
