package models

import (
	"time"
)

// Feedback is one student submission. Records are never updated once stored.
type Feedback struct {
	ID          string    `db:"id" json:"id"`
	StudentName string    `db:"student_name" json:"student_name"`
	Email       string    `db:"email" json:"email"`
	Comment     string    `db:"comment" json:"comment"`
	SubmittedAt time.Time `db:"submitted_at" json:"submitted_at"`
}
