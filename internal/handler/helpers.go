package handler

import (
	"strconv"

	"tavolo/internal/repository"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		c.JSON(400, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

func queryUintPtr(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

// listFilter pulls the shared tenant-scoping query params every list endpoint
// accepts.
func listFilter(c *gin.Context) repository.ListFilter {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return repository.ListFilter{
		FranchiseID: queryUintPtr(c, "franchise_id"),
		LocationID:  queryUintPtr(c, "location_id"),
		Status:      c.Query("status"),
		Limit:       limit,
	}
}
