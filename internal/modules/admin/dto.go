package admin

import "harvesthaven/internal/domain"

type RejectListingRequest struct {
	Reason string `json:"reason"`
}

type ListingListResponse struct {
	Properties []domain.Listing `json:"properties"`
	Count      int              `json:"count"`
}

type UserDTO struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Phone string          `json:"phone,omitempty"`
	Role  domain.UserRole `json:"role"`
}

type StatisticsResponse struct {
	TotalUsers         int64 `json:"total_users"`
	TotalProperties    int64 `json:"total_properties"`
	PendingProperties  int64 `json:"pending_properties"`
	ApprovedProperties int64 `json:"approved_properties"`
	RejectedProperties int64 `json:"rejected_properties"`
}
