package models

// FeedVariant selects which page flavor the state container serves. The two
// variants use different endpoint pairs and filter sets but share all merge
// and interaction logic.
type FeedVariant string

const (
	// VariantFeed is the main creator feed (all/free/paid filters).
	VariantFeed FeedVariant = "feed"
	// VariantProfile is the viewer's profile page (all/liked/bookmarked).
	VariantProfile FeedVariant = "profile"
)

// FeedFilter narrows which posts the UI shows. Membership depends on the
// page variant; the state container only stores the active value.
type FeedFilter string

const (
	FilterAll        FeedFilter = "all"
	FilterFree       FeedFilter = "free"
	FilterPaid       FeedFilter = "paid"
	FilterLiked      FeedFilter = "liked"
	FilterBookmarked FeedFilter = "bookmarked"
)

// Filters returns the filter set valid for the variant.
func (v FeedVariant) Filters() []FeedFilter {
	if v == VariantProfile {
		return []FeedFilter{FilterAll, FilterLiked, FilterBookmarked}
	}
	return []FeedFilter{FilterAll, FilterFree, FilterPaid}
}

// ValidFilter reports whether f belongs to the variant's filter set.
func (v FeedVariant) ValidFilter(f FeedFilter) bool {
	for _, known := range v.Filters() {
		if known == f {
			return true
		}
	}
	return false
}
