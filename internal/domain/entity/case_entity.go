package entity

import "time"

// Case is a patient history note plus an X-ray image submitted by a worker.
// Cases are immutable once stored.
type Case struct {
	ID             string
	PatientID      string
	PatientHistory string
	ImageURL       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
