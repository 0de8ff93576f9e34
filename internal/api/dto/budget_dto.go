package dto

// BudgetEditRequest applies a single category edit to a plan.
type BudgetEditRequest struct {
	Plan     map[string]int `json:"plan"`
	Category string         `json:"category"`
	Value    int            `json:"value"`
	Total    int            `json:"total"`
}

// BudgetScoreRequest scores a plan against current needs.
type BudgetScoreRequest struct {
	Plan  map[string]int `json:"plan"`
	Total int            `json:"total"`
}

// BudgetAutoRequest requests a needs-proportional allocation.
type BudgetAutoRequest struct {
	Total int `json:"total"`
}
