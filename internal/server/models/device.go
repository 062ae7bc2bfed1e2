// Package models defines the records the server persists and reconciles.
package models

// Device is a stored enrollment: the serial is owned by the user with Email.
type Device struct {
	Serial string `dynamodbav:"serial" json:"serial"`
	Email  string `dynamodbav:"email" json:"email"`
}
