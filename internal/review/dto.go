// AngelaMos | 2026
// dto.go

package review

import "time"

type CreateReviewRequest struct {
	Review string `json:"review" validate:"required"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
}

type UpdateReviewRequest struct {
	Review *string `json:"review" validate:"omitempty,min=1"`
	Rating *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

type ReviewResponse struct {
	ID          string    `json:"id"`
	Review      string    `json:"review"`
	Rating      int       `json:"rating"`
	TourID      string    `json:"tourId"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName,omitempty"`
	AuthorPhoto string    `json:"authorPhoto,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:          r.ID.String(),
		Review:      r.Review,
		Rating:      r.Rating,
		TourID:      r.TourID.String(),
		AuthorID:    r.UserID.String(),
		AuthorName:  r.AuthorName,
		AuthorPhoto: r.AuthorPhoto,
		CreatedAt:   r.CreatedAt,
	}
}
