package models

import (
	"sort"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/catalog"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
)

// ProductModel is the persistence model for the Product aggregate root.
// Price and Stock are the flat columns of records written before variants existed;
// new writes keep them filled with the display price and aggregate stock.
type ProductModel struct {
	BaseModel
	Name        string                `gorm:"type:varchar(200);not null"`
	Category    string                `gorm:"type:varchar(100);index"`
	Description string                `gorm:"type:text"`
	ImageURL    string                `gorm:"type:varchar(1000)"`
	Price       *int64                `gorm:"type:bigint"`
	Stock       *int                  `gorm:"type:integer"`
	InStock     bool                  `gorm:"not null;default:false"`
	BestSelling bool                  `gorm:"not null;default:false;index"`
	Variants    []ProductVariantModel `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseAggregateRoot: m.aggregateRoot(),
		Name:              m.Name,
		Category:          m.Category,
		Description:       m.Description,
		ImageURL:          m.ImageURL,
		InStock:           m.InStock,
		BestSelling:       m.BestSelling,
	}
	if m.Stock != nil {
		p.Stock = *m.Stock
	}

	variants := append([]ProductVariantModel(nil), m.Variants...)
	sort.SliceStable(variants, func(i, j int) bool { return variants[i].Position < variants[j].Position })
	for _, v := range variants {
		p.Variants = append(p.Variants, v.ToDomain())
	}

	var price valueobject.Money
	if m.Price != nil {
		price = valueobject.Money(*m.Price)
	}
	catalog.RestoreLegacyProduct(p, price, m.Stock)
	return p
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Category = p.Category
	m.Description = p.Description
	m.ImageURL = p.ImageURL
	price := p.DisplayPrice().Int64()
	m.Price = &price
	stock := p.AggregateStock()
	m.Stock = &stock
	m.InStock = p.InStock
	m.BestSelling = p.BestSelling
	m.Variants = make([]ProductVariantModel, len(p.Variants))
	for i, v := range p.Variants {
		m.Variants[i] = ProductVariantModelFromDomain(p.ID, i, v)
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductVariantModel is the persistence model for a product variant.
// A nil Stock marks an untracked variant.
type ProductVariantModel struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ID        string    `gorm:"type:varchar(100);primaryKey"`
	Label     string    `gorm:"type:varchar(100);not null"`
	Price     int64     `gorm:"type:bigint;not null"`
	Stock     *int      `gorm:"type:integer"`
	Position  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain Variant
func (m *ProductVariantModel) ToDomain() catalog.Variant {
	return catalog.Variant{
		ID:    m.ID,
		Label: m.Label,
		Price: valueobject.Money(m.Price),
		Stock: catalog.StockFromPtr(m.Stock),
	}
}

// ProductVariantModelFromDomain creates a variant row for the given position
func ProductVariantModelFromDomain(productID uuid.UUID, position int, v catalog.Variant) ProductVariantModel {
	return ProductVariantModel{
		ProductID: productID,
		ID:        v.ID,
		Label:     v.Label,
		Price:     v.Price.Int64(),
		Stock:     v.Stock.Ptr(),
		Position:  position,
	}
}
