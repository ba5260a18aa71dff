package outliner

import (
	"fmt"

	"github.com/pstuifzand/tui-annotator/internal/model"
)

// BulkState is the aggregate visibility of all regions
type BulkState int

const (
	// BulkNone means there are no regions and no bulk control is shown
	BulkNone BulkState = iota
	AllVisible
	AllHidden
	Mixed
)

func (s BulkState) String() string {
	switch s {
	case AllVisible:
		return "all-visible"
	case AllHidden:
		return "all-hidden"
	case Mixed:
		return "mixed"
	default:
		return "none"
	}
}

// Icon names of the visibility controls
const (
	IconEye          = "eye"
	IconEyeInvisible = "eye-invisible"
)

// Bulk returns the aggregate visibility of the store
func Bulk(store *model.RegionStore) BulkState {
	total := store.Count()
	if total == 0 {
		return BulkNone
	}
	switch visible := store.VisibleCount(); visible {
	case total:
		return AllVisible
	case 0:
		return AllHidden
	default:
		return Mixed
	}
}

// BulkIcon returns the icon of the bulk control, "" when it is not shown.
// Any visible region shows the eye, which hides everything when clicked.
func BulkIcon(state BulkState) string {
	switch state {
	case AllVisible, Mixed:
		return IconEye
	case AllHidden:
		return IconEyeInvisible
	default:
		return ""
	}
}

// RegionIcon returns the icon of the per-region visibility control
func RegionIcon(r *model.Region) string {
	if r.Hidden {
		return IconEyeInvisible
	}
	return IconEye
}

// ClickBulk handles a click on the bulk control icon. The eye hides every
// region, the crossed eye shows every region. It returns the new state.
func ClickBulk(store *model.RegionStore, icon string) BulkState {
	switch icon {
	case IconEye:
		store.HideAll()
	case IconEyeInvisible:
		store.ShowAll()
	}
	return Bulk(store)
}

// ToggleAll clicks whatever icon the bulk control currently shows
func ToggleAll(store *model.RegionStore) BulkState {
	return ClickBulk(store, BulkIcon(Bulk(store)))
}

// ToggleRegion flips the visibility of one region
func ToggleRegion(store *model.RegionStore, id string) bool {
	r := store.FindRegionID(id)
	if r == nil {
		return false
	}
	store.ToggleHidden(r)
	return true
}

// RegionCountLabel renders the region counter, singular only for exactly one
func RegionCountLabel(n int) string {
	if n == 1 {
		return "1 Region"
	}
	return fmt.Sprintf("%d Regions", n)
}
