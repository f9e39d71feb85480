package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type browseCacheKeyInput struct {
	Keyword   string `json:"keyword"`
	Location  string `json:"location"`
	Type      string `json:"type"`
	MinSalary *int64 `json:"min_salary"`
	MaxSalary *int64 `json:"max_salary"`
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
}

func normalizeFilterValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// browseCacheKey derives a stable cache key from the normalized filter set,
// so that equivalent searches share a cache entry.
func browseCacheKey(params BrowseJobsParams) string {
	in := browseCacheKeyInput{
		Keyword:   normalizeFilterValue(params.Keyword),
		Location:  normalizeFilterValue(params.Location),
		Type:      params.Type,
		MinSalary: params.MinSalary,
		MaxSalary: params.MaxSalary,
		Page:      params.Page,
		Limit:     params.Limit,
	}

	data, _ := json.Marshal(in)
	sum := sha256.Sum256(data)

	return "jobs:browse:" + hex.EncodeToString(sum[:])
}

func parseObjectID(id string) (bson.ObjectID, error) {
	return bson.ObjectIDFromHex(id)
}
