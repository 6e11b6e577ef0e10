// Package repository implements the service stores on gorm/postgres.
package repository

import (
	"github.com/Govind-619/Storefront/services"
	"gorm.io/gorm"
)

// Repositories groups the gorm stores opened on one connection
type Repositories struct {
	Products *ProductRepo
	Carts    *CartRepo
	Coupons  *CouponRepo
	Orders   *OrderRepo
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Products: NewProductRepo(db),
		Carts:    NewCartRepo(db),
		Coupons:  NewCouponRepo(db),
		Orders:   NewOrderRepo(db),
	}
}

var (
	_ services.ProductStore = (*ProductRepo)(nil)
	_ services.CartStore    = (*CartRepo)(nil)
	_ services.CouponStore  = (*CouponRepo)(nil)
	_ services.OrderStore   = (*OrderRepo)(nil)
)
