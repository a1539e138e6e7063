package models

import (
	"sort"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
	"github.com/prakruthi/storefront/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	CustomerID   *uuid.UUID        `gorm:"type:uuid;index"`
	CustomerName string            `gorm:"type:varchar(200);not null"`
	Phone        string            `gorm:"type:varchar(30)"`
	Street       string            `gorm:"type:varchar(300)"`
	City         string            `gorm:"type:varchar(100)"`
	State        string            `gorm:"type:varchar(100)"`
	Pincode      string            `gorm:"type:varchar(20)"`
	Total        int64             `gorm:"type:bigint;not null;default:0"`
	Status       trade.OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Paid         bool              `gorm:"not null;default:false"`
	Modified     bool              `gorm:"not null;default:false"`
	Items        []OrderItemModel  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: m.aggregateRoot(),
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		Phone:             m.Phone,
		Address:           valueobject.NewAddress(m.Street, m.City, m.State, m.Pincode),
		Total:             valueobject.Money(m.Total),
		Status:            m.Status,
		Paid:              m.Paid,
		Modified:          m.Modified,
		Items:             make([]trade.OrderItem, 0, len(m.Items)),
	}

	items := append([]OrderItemModel(nil), m.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	for _, item := range items {
		order.Items = append(order.Items, item.ToDomain())
	}
	return order
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.CustomerID = o.CustomerID
	m.CustomerName = o.CustomerName
	m.Phone = o.Phone
	m.Street = o.Address.Street()
	m.City = o.Address.City()
	m.State = o.Address.State()
	m.Pincode = o.Address.Pincode()
	m.Total = o.Total.Int64()
	m.Status = o.Status
	m.Paid = o.Paid
	m.Modified = o.Modified
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(o.ID, i, item)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line
type OrderItemModel struct {
	OrderID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position     int       `gorm:"primaryKey;autoIncrement:false"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	VariantID    string    `gorm:"type:varchar(100);not null"`
	VariantLabel string    `gorm:"type:varchar(100)"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Price        int64     `gorm:"type:bigint;not null"`
	Quantity     int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ProductID:    m.ProductID,
		VariantID:    m.VariantID,
		VariantLabel: m.VariantLabel,
		Name:         m.Name,
		Price:        valueobject.Money(m.Price),
		Quantity:     m.Quantity,
	}
}

// OrderItemModelFromDomain creates an item row for the given position
func OrderItemModelFromDomain(orderID uuid.UUID, position int, item trade.OrderItem) OrderItemModel {
	return OrderItemModel{
		OrderID:      orderID,
		Position:     position,
		ProductID:    item.ProductID,
		VariantID:    item.VariantID,
		VariantLabel: item.VariantLabel,
		Name:         item.Name,
		Price:        item.Price.Int64(),
		Quantity:     item.Quantity,
	}
}
