package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"-"`
	CompanyName string `json:"companyName"`
	Role        string `json:"role" gorm:"type:varchar(20);default:staff;index"` // partner, driver, staff, admin, super_admin
}
