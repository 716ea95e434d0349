package models

import (
	"strings"

	"gorm.io/gorm"
)

// Family is the top level resource. Every other resource belongs to
// exactly one family, and no operation ever crosses family boundaries.
type Family struct {
	DefaultModel
	Name     string
	Note     string
	Currency string
}

func (f *Family) BeforeSave(_ *gorm.DB) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Note = strings.TrimSpace(f.Note)
	f.Currency = strings.TrimSpace(f.Currency)

	return nil
}
