package domain

// UserStats aggregates registered users.
type UserStats struct {
	Total     int64
	Customers int64
	Partners  int64
}

// DeliveryStats aggregates deliveries by status.
type DeliveryStats struct {
	Total    int64
	ByStatus map[DeliveryStatus]int64
}

// Count returns the number of deliveries in status s.
func (d DeliveryStats) Count(s DeliveryStatus) int64 {
	return d.ByStatus[s]
}

// Overview is the admin dashboard summary.
type Overview struct {
	Users      UserStats
	Deliveries DeliveryStats
}
