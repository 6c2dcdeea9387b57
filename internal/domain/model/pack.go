package model

import (
	"strings"

	"projectnest/internal/domain"
)

type AccessType string

const (
	AccessTypeLimitedPDFs AccessType = "limited_pdfs"
	AccessTypeLifetime    AccessType = "lifetime"
)

func (t AccessType) Valid() bool {
	return t == AccessTypeLimitedPDFs || t == AccessTypeLifetime
}

// PremiumPack is a purchasable bundle. Price is in whole rupees.
type PremiumPack struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Price      int64      `json:"price"`
	PdfLimit   *int       `json:"pdfLimit"` // nil means unlimited
	AccessType AccessType `json:"accessType"`
	Features   []string   `json:"features"`
}

func NewPremiumPack(name string, price int64, pdfLimit *int, accessType AccessType, features []string) (*PremiumPack, error) {
	name = strings.TrimSpace(name)
	if name == "" || price <= 0 || !accessType.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	if pdfLimit != nil && *pdfLimit < 0 {
		return nil, domain.ErrInvalidArgument
	}
	if accessType == AccessTypeLimitedPDFs && pdfLimit == nil {
		return nil, domain.ErrInvalidArgument
	}
	if features == nil {
		features = []string{}
	}
	return &PremiumPack{
		Name:       name,
		Price:      price,
		PdfLimit:   pdfLimit,
		AccessType: accessType,
		Features:   features,
	}, nil
}

// Credits is the number of download credits a limited pack adds.
func (p *PremiumPack) Credits() int {
	if p == nil || p.PdfLimit == nil {
		return 0
	}
	return *p.PdfLimit
}

// GatewayAmount converts the price to the smallest currency subunit (paise).
func (p *PremiumPack) GatewayAmount() int64 { return p.Price * 100 }

func (p *PremiumPack) IsZero() bool { return p == nil || p.ID == 0 }
