package response

import (
	"time"

	"crowdfunding/internal/data/entity"
)

type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func CategoryToResponse(category *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID.String(),
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	}
}

func TagToResponse(tag *entity.Tag) TagResponse {
	return TagResponse{ID: tag.ID.String(), Name: tag.Name}
}

func TagsToResponse(tags []*entity.Tag) []TagResponse {
	resp := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		resp = append(resp, TagToResponse(tag))
	}
	return resp
}
