package server

import (
	"time"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
)

type itemPayload struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Location string `json:"location"`
	Quantity int    `json:"quantity" binding:"gte=0"`
}

type itemResponse struct {
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CategoryLabel string    `json:"categoryLabel"`
	Category      string    `json:"category"`
	Location      string    `json:"location,omitempty"`
	Quantity      int       `json:"quantity"`
}

func fromItem(item model.Item) itemResponse {
	return itemResponse{
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
		ID:            item.ID,
		Name:          item.Name,
		CategoryLabel: item.CategoryLabel,
		Category:      string(item.Category),
		Location:      item.Location,
		Quantity:      item.Quantity,
	}
}

type categoryResponse struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Canonical   string `json:"canonical"`
	ID          int    `json:"id"`
}

func fromCategory(cat model.Category) categoryResponse {
	return categoryResponse{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		Canonical:   string(cat.Canonical),
	}
}

type requestPayload struct {
	ItemName      string `json:"itemName" binding:"required"`
	Priority      string `json:"priority"`
	RequesterName string `json:"requesterName"`
	Notes         string `json:"notes"`
	Quantity      int    `json:"quantity"`
}

type summaryResponse struct {
	Period  string         `json:"period"`
	Title   string         `json:"title"`
	Summary report.Summary `json:"summary"`
}
