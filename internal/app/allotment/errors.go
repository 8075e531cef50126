package allotment

import "errors"

var (
	ErrIPONotFound         = errors.New("ipo not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrNotAuthorized       = errors.New("company doesn't own the ipo this application is for")

	ErrAlreadyApplied  = errors.New("already applied to this ipo, cannot reapply")
	ErrInvalidLots     = errors.New("lots requested must be a positive number")
	ErrInvalidDecision = errors.New("decision must be Approved or Rejected")
	ErrAlreadyDecided  = errors.New("application has already been decided")

	// возвращается из DecideApplication, когда одобрение превысило бы total_lots
	ErrCapacityExceeded = errors.New("approving would exceed the ipo's total lots")
)
