package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Supplier struct {
	gorm.Model

	Name        string         `gorm:"size:255;not null" json:"name"`
	ContactName string         `gorm:"size:255" json:"contactName,omitempty"`
	Email       string         `gorm:"size:255" json:"email,omitempty"`
	Phone       string         `gorm:"size:64" json:"phone,omitempty"`
	Address     string         `gorm:"type:text" json:"address,omitempty"`
	Categories  datatypes.JSON `json:"categories,omitempty"`
	Rating      int            `gorm:"default:3" json:"rating"`
	TotalOrders int            `gorm:"column:total_orders;default:0" json:"totalOrders"`
	Notes       string         `gorm:"type:text" json:"notes,omitempty"`
}
