package models

// PaidStatus is the settlement state of a sales invoice.
type PaidStatus string

const (
	PaidStatusPending   PaidStatus = "Pending"
	PaidStatusCompleted PaidStatus = "Completed"
	PaidStatusPartial   PaidStatus = "Partial"
	PaidStatusOverdue   PaidStatus = "Overdue"
	PaidStatusCancelled PaidStatus = "Cancelled"
)

type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "Active"
	CustomerStatusInactive CustomerStatus = "Inactive"
	CustomerStatusBlocked  CustomerStatus = "Blocked"
)
