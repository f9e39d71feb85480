package usecase

import "testing"

func TestBrowseCacheKey(t *testing.T) {
	base := BrowseJobsParams{Keyword: "go engineer", Location: "Bangkok", Page: 1, Limit: 10}

	t.Run("equivalent filters share a key", func(t *testing.T) {
		variant := base
		variant.Keyword = "  Go   Engineer "
		variant.Location = "bangkok"
		if browseCacheKey(base) != browseCacheKey(variant) {
			t.Error("normalized filters should hash to the same key")
		}
	})

	t.Run("different filters get different keys", func(t *testing.T) {
		variant := base
		variant.Page = 2
		if browseCacheKey(base) == browseCacheKey(variant) {
			t.Error("page change should change the key")
		}

		min := int64(50000)
		variant = base
		variant.MinSalary = &min
		if browseCacheKey(base) == browseCacheKey(variant) {
			t.Error("salary bound should change the key")
		}
	})

	t.Run("keys carry the browse prefix", func(t *testing.T) {
		key := browseCacheKey(base)
		if len(key) <= len("jobs:browse:") || key[:len("jobs:browse:")] != "jobs:browse:" {
			t.Errorf("key %q missing prefix", key)
		}
	})
}
