package models

type RestaurantCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Blocked  int64 `json:"blocked"`
	Verified int64 `json:"verified"`
}

type DriverCounts struct {
	Total                int64 `json:"total"`
	Approved             int64 `json:"approved"`
	PendingApproval      int64 `json:"pendingApproval"`
	Online               int64 `json:"online"`
	RegistrationComplete int64 `json:"registrationComplete"`
}

type UserCounts struct {
	Total           int64 `json:"total"`
	Blocked         int64 `json:"blocked"`
	ProfileComplete int64 `json:"profileComplete"`
}

type ReviewCounts struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
	Flagged int64 `json:"flagged"`
	Deleted int64 `json:"deleted"`
}

type DashboardStats struct {
	Restaurants  RestaurantCounts `json:"restaurants"`
	Drivers      DriverCounts     `json:"drivers"`
	Users        UserCounts       `json:"users"`
	Reviews      ReviewCounts     `json:"reviews"`
	ActiveOffers int64            `json:"activeOffers"`
}

type DriverStats struct {
	ByRegistrationStep map[int]int64    `json:"byRegistrationStep"`
	ByApproval         map[string]int64 `json:"byApproval"`
	ByStatus           map[string]int64 `json:"byStatus"`
}

type ReviewStats struct {
	ByRating      map[int]int64    `json:"byRating"`
	ByStatus      map[string]int64 `json:"byStatus"`
	Flagged       int64            `json:"flagged"`
	Deleted       int64            `json:"deleted"`
	Total         int64            `json:"total"`
	AverageRating float64          `json:"averageRating"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
