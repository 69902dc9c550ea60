package model

import (
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/datatypes"
)

// LeadRecord is the persisted form of a lead in the leads table.
type LeadRecord struct {
	ID              string         `json:"id" gorm:"primaryKey"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Price           float64        `json:"price" gorm:"not null"`
	Currency        string         `json:"currency" gorm:"default:'BRL'"`
	Location        string         `json:"location" gorm:"not null"`
	Neighborhood    string         `json:"neighborhood"`
	SellerType      SellerType     `json:"seller_type" gorm:"not null"`
	OperationType   OperationType  `json:"operation_type" gorm:"not null"`
	SellerName      string         `json:"seller_name"`
	Phone           string         `json:"phone"`
	Platform        Platform       `json:"platform" gorm:"not null"`
	URL             string         `json:"url" gorm:"type:text;not null"`
	ConfidenceScore float64        `json:"confidence_score"`
	Features        datatypes.JSON `json:"features"`
	ScrapedAt       time.Time      `json:"scraped_at"`
	Status          LeadStatus     `json:"status" gorm:"index;default:'NEW'"` // NEW, CONTACTED, VISIT, NEGOTIATION, CLOSED, LOST
	CreatedAt       time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (LeadRecord) TableName() string {
	return "leads"
}

// NewLeadRecord converts a lead for storage. An unassigned status is stored
// as NEW.
func NewLeadRecord(l Listing) (LeadRecord, error) {
	features := l.Features
	if features == nil {
		features = []string{}
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return LeadRecord{}, err
	}
	return LeadRecord{
		ID:              l.ID,
		Title:           l.Title,
		Description:     l.Description,
		Price:           l.Price,
		Currency:        l.Currency,
		Location:        l.Location,
		Neighborhood:    l.Neighborhood,
		SellerType:      l.SellerType,
		OperationType:   l.OperationType,
		SellerName:      l.SellerName,
		Phone:           l.Phone,
		Platform:        l.Platform,
		URL:             l.URL,
		ConfidenceScore: l.ConfidenceScore,
		Features:        datatypes.JSON(raw),
		ScrapedAt:       l.ScrapedAt,
		Status:          l.Status.Effective(),
	}, nil
}

// Listing converts the record back to a lead. Rows with a blank or unknown
// status read as NEW.
func (r LeadRecord) Listing() Listing {
	var features []string
	if len(r.Features) > 0 {
		if err := json.Unmarshal(r.Features, &features); err != nil {
			slog.Warn("could not decode lead features", "lead_id", r.ID, "error", err)
			features = nil
		}
	}
	status := r.Status.Effective()
	if !status.IsValid() {
		status = LeadStatusNew
	}
	currency := r.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return Listing{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Price:           r.Price,
		Currency:        currency,
		Location:        r.Location,
		Neighborhood:    r.Neighborhood,
		SellerType:      r.SellerType,
		OperationType:   r.OperationType,
		SellerName:      r.SellerName,
		Phone:           r.Phone,
		Platform:        r.Platform,
		URL:             r.URL,
		ConfidenceScore: r.ConfidenceScore,
		Features:        features,
		ScrapedAt:       r.ScrapedAt,
		Status:          status,
	}
}
