package repository

import "gorm.io/gorm"

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// ListFilter carries the tenant-scoping query params shared by nearly every
// list endpoint. Zero-value fields are not applied.
type ListFilter struct {
	FranchiseID *uint
	LocationID  *uint
	Status      string
	Limit       int
}

func (f ListFilter) apply(q *gorm.DB) *gorm.DB {
	if f.FranchiseID != nil {
		q = q.Where("franchise_id = ?", *f.FranchiseID)
	}
	if f.LocationID != nil {
		q = q.Where("location_id = ?", *f.LocationID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return q.Limit(limit)
}
