package models

import "medibook-service/internal/pkg/constvars"

// Rater identifies who submitted a rating. A doctor rating themselves is a
// distinct singleton per doctor and carries no rater id; user and admin raters
// are keyed by their id. The zero value is not a valid rater.
type Rater struct {
	Kind string
	ID   string
}

func UserRater(userID string) Rater {
	return Rater{Kind: constvars.RaterKindUser, ID: userID}
}

func AdminRater(adminID string) Rater {
	return Rater{Kind: constvars.RaterKindAdmin, ID: adminID}
}

func SelfRater() Rater {
	return Rater{Kind: constvars.RaterKindSelf}
}

func (r Rater) IsSelf() bool {
	return r.Kind == constvars.RaterKindSelf
}

// Ref is the deterministic store key for the (doctor, rater) uniqueness
// constraint: "user:<id>", "admin:<id>" or "self". Deriving the key here keeps
// the unique index honest without a nullable column.
func (r Rater) Ref() string {
	if r.IsSelf() {
		return "self"
	}
	return r.Kind + ":" + r.ID
}

// Rating is one rater's score for one doctor. At most one rating exists per
// (DoctorID, RaterRef) pair; resubmission overwrites score and comment in
// place.
type Rating struct {
	ID        string `json:"id" bson:"_id,omitempty"`
	DoctorID  string `json:"doctorId" bson:"doctorId"`
	RaterRef  string `json:"-" bson:"raterRef"`
	RaterKind string `json:"ratedBy" bson:"raterKind"`
	RaterID   string `json:"userId,omitempty" bson:"raterId,omitempty"`
	Score     int    `json:"rating" bson:"score"`
	Comment   string `json:"comment" bson:"comment"`
	TimeModel `bson:",inline"`
}
