package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// DashboardStatsKey returns the cache key for a user's dashboard statistics.
func (r *CacheKeyStruct) DashboardStatsKey(userID int) string {
	return fmt.Sprintf("user:%d:dashboard", userID)
}

var CacheKey = NewCacheKeyStruct()
