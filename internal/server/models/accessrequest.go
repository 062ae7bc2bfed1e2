package models

// AccessRequestStatus moves created -> accepted or created -> declined and
// never back.
type AccessRequestStatus string

const (
	StatusCreated  AccessRequestStatus = "created"
	StatusAccepted AccessRequestStatus = "accepted"
	StatusDeclined AccessRequestStatus = "declined"
)

// AccessRequest is a guest's pending or decided request for network access.
// Timestamps are Unix milliseconds.
type AccessRequest struct {
	ID         string              `dynamodbav:"id" json:"id"`
	HostEmail  string              `dynamodbav:"hostEmail" json:"hostEmail"`
	GuestEmail string              `dynamodbav:"guestEmail" json:"guestEmail"`
	Status     AccessRequestStatus `dynamodbav:"status" json:"status"`
	CreatedAt  int64               `dynamodbav:"createdAt" json:"createdAt"`
	ModifiedAt int64               `dynamodbav:"modifiedAt" json:"modifiedAt"`
}
