package models

// GlobalSearchResult groups the matches of a site-wide search
type GlobalSearchResult struct {
	Photos []PhotoView    `json:"photos"`
	Boards []BoardSummary `json:"boards"`
	Users  []UserCompact  `json:"users"`
}

// Pagination describes one page of a larger result set
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type PhotoSearchResult struct {
	Photos     []PhotoView `json:"photos"`
	Pagination Pagination  `json:"pagination"`
}

type UserSearchResult struct {
	Users      []UserCompact `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// UserStats is the owner-only dashboard summary
type UserStats struct {
	BoardsCount    int64          `json:"boardsCount"`
	PhotosCount    int64          `json:"photosCount"`
	FollowersCount int64          `json:"followersCount"`
	RecentActivity []ActivityView `json:"recentActivity"`
}
