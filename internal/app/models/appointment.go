package models

import "time"

// Appointment is the authoritative booking record. Cancelled and Payment are
// monotonic flags: once true they never go back to false, and PaymentID /
// PaymentDate are written exactly once on the first successful reconciliation.
// Amount is copied from the doctor fee at booking time and never changes.
type Appointment struct {
	ID          string          `json:"id" bson:"_id,omitempty"`
	UserID      string          `json:"userId" bson:"userId"`
	DoctorID    string          `json:"docId" bson:"docId"`
	UserData    UserSnapshot    `json:"userData" bson:"userData"`
	DoctorData  DoctorSnapshot  `json:"docData" bson:"docData"`
	SlotDate    string          `json:"slotDate" bson:"slotDate"`
	SlotTime    string          `json:"slotTime" bson:"slotTime"`
	Amount      float64         `json:"amount" bson:"amount"`
	Date        time.Time       `json:"date" bson:"date"`
	Cancelled   bool            `json:"cancelled" bson:"cancelled"`
	CancelledAt *time.Time      `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	IsCompleted bool            `json:"isCompleted" bson:"isCompleted"`
	Payment     bool            `json:"payment" bson:"payment"`
	PaymentID   string          `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	PaymentDate *time.Time      `json:"paymentDate,omitempty" bson:"paymentDate,omitempty"`
}

// IsFinalForPayment reports whether the appointment can no longer move to
// paid: either it was cancelled or it is already paid. Reconciliation
// short-circuits on final appointments instead of erroring, since retried
// provider callbacks are expected.
func (a *Appointment) IsFinalForPayment() bool {
	return a.Cancelled || a.Payment
}

// CountsAsEarning reports whether the appointment contributes to the doctor's
// earnings report: completed or paid, and not cancelled.
func (a *Appointment) CountsAsEarning() bool {
	return !a.Cancelled && (a.IsCompleted || a.Payment)
}
