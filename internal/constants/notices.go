package constants

// User-facing notice texts
const (
	NoticeOutsideWindow  = "Only meals from the last 2 days ⏳ can join the party!"
	NoticeNetworkError   = "Network error. Please check your connection."
	NoticeGenericFailure = "Some error occurred while fetching data"
	NoticeSessionExpired = "Your session has expired. Please log in again."
	NoticeEmptySelection = "Select at least one food first"
	NoticeCatalogLoading = "Catalog is still loading"

	DefaultFoodEmoji = "🍽️"
)
