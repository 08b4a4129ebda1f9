package profile

import (
	"strconv"
	"time"
)

// Profile is a user's dating profile. The netid is the immutable identity key;
// everything else is owned and mutated by the profile-management surface.
type Profile struct {
	Netid          string    `json:"netid" firestore:"netid"`
	Gender         string    `json:"gender" firestore:"gender"`
	Birthdate      time.Time `json:"birthdate" firestore:"birthdate"`
	GraduationYear int       `json:"graduation_year" firestore:"graduationYear"`
	School         string    `json:"school" firestore:"school"`
	Majors         []string  `json:"majors" firestore:"majors"`
	Interests      []string  `json:"interests" firestore:"interests"`
	Clubs          []string  `json:"clubs" firestore:"clubs"`
}

// YearLabel returns the academic-year label used by preference filters,
// e.g. "2027" for a graduation year of 2027.
func (p *Profile) YearLabel() string {
	return strconv.Itoa(p.GraduationYear)
}

// Age computes the profile owner's age in whole years at the given instant,
// flooring when the birthday has not yet occurred this year.
func (p *Profile) Age(at time.Time) int {
	years := at.Year() - p.Birthdate.Year()
	anniversary := time.Date(at.Year(), p.Birthdate.Month(), p.Birthdate.Day(), 0, 0, 0, 0, at.Location())
	if at.Before(anniversary) {
		years--
	}
	return years
}

// Preferences describes what a user is looking for. Empty slices mean "any".
type Preferences struct {
	Netid   string   `json:"netid" firestore:"netid"`
	Genders []string `json:"genders" firestore:"genders"`
	MinAge  int      `json:"min_age" firestore:"minAge"`
	MaxAge  int      `json:"max_age" firestore:"maxAge"`
	Years   []string `json:"years" firestore:"years"`
	Schools []string `json:"schools" firestore:"schools"`
	Majors  []string `json:"majors" firestore:"majors"`
}

// Block is a directional block relation, document ID "blocker_blocked".
type Block struct {
	Blocker   string    `json:"blocker" firestore:"blocker"`
	Blocked   string    `json:"blocked" firestore:"blocked"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
