package packing

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/zeebo/xxh3"
)

// Fingerprint returns the cache key for a request: a 128-bit xxh3 digest of
// the catalog version, the items ordered by SKU and the serialized rules.
func Fingerprint(catalogVersion int64, items []model.Item, rules model.PackingRules) string {
	sorted := make([]model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SKU < sorted[j].SKU })

	h := xxh3.New()
	fmt.Fprintf(h, "v=%d\n", catalogVersion)
	for _, it := range sorted {
		d := it.Dimensions
		fmt.Fprintf(h, "%q|%d|%g|%g|%g|%g|%t|%t|%q\n",
			it.SKU, it.Quantity, d.Length, d.Width, d.Height, it.Weight,
			it.Fragile, it.NonRotatable, it.Category)
	}
	fmt.Fprintf(h, "%s\n", rules.Canonical())

	sum := h.Sum128().Bytes()
	return hex.EncodeToString(sum[:])
}
