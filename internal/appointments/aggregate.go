package appointments

// StatusCounts partitions a listing by appointment status. Total is the
// store-reported count and may exceed len(documents) when the store paginates;
// the three sub-counts cover only the documents actually seen.
type StatusCounts struct {
	Total     int `json:"total_count"`
	Scheduled int `json:"scheduled_count"`
	Pending   int `json:"pending_count"`
	Cancelled int `json:"cancelled_count"`
}

// CountByStatus tallies documents by status in one pass. Records whose status
// falls outside the closed enum contribute to no counter.
func CountByStatus(total int, documents []*Appointment) StatusCounts {
	counts := StatusCounts{Total: total}
	for _, appt := range documents {
		if appt == nil {
			continue
		}
		switch appt.Status {
		case StatusScheduled:
			counts.Scheduled++
		case StatusPending:
			counts.Pending++
		case StatusCancelled:
			counts.Cancelled++
		}
	}
	return counts
}
