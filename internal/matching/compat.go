package matching

import (
	"time"

	"github.com/bigredmatch/bigredmatch-backend/internal/profile"
)

// Compatibility evaluation is pure: no I/O, no clock reads. The evaluation
// instant is passed in so age checks are reproducible.

// IsCompatible reports whether the candidate's profile satisfies the viewer's
// stated preferences at the given instant. Empty preference lists and zero
// age bounds mean "any".
func IsCompatible(candidate *profile.Profile, prefs *profile.Preferences, at time.Time) bool {
	if len(prefs.Genders) > 0 && !containsString(prefs.Genders, candidate.Gender) {
		return false
	}

	age := candidate.Age(at)
	if prefs.MinAge > 0 && age < prefs.MinAge {
		return false
	}
	if prefs.MaxAge > 0 && age > prefs.MaxAge {
		return false
	}

	if len(prefs.Years) > 0 && !containsString(prefs.Years, candidate.YearLabel()) {
		return false
	}

	if len(prefs.Schools) > 0 && !containsString(prefs.Schools, candidate.School) {
		return false
	}

	if len(prefs.Majors) > 0 && countOverlap(prefs.Majors, candidate.Majors) == 0 {
		return false
	}

	return true
}

// IsMutuallyCompatible reports whether both directions of the pair satisfy
// each other's preferences.
func IsMutuallyCompatible(a, b *Candidate, at time.Time) bool {
	return IsCompatible(b.Profile, a.Preferences, at) && IsCompatible(a.Profile, b.Preferences, at)
}

// Scoring weights. Each term is independent and capped; the total is only
// used to rank candidates within one user's pool.
const (
	sameSchoolPoints   = 20
	majorPoints        = 5
	majorCap           = 15
	yearBase           = 15
	yearPenalty        = 3
	ageBase            = 15
	agePenalty         = 2
	interestPoints     = 4
	interestCap        = 20
	clubPoints         = 5
	clubCap            = 15
)

// Score computes the desirability score for the pair (a, b). Symmetric.
func Score(a, b *Candidate, at time.Time) int {
	score := 0

	if a.Profile.School != "" && a.Profile.School == b.Profile.School {
		score += sameSchoolPoints
	}

	score += capped(countOverlap(a.Profile.Majors, b.Profile.Majors)*majorPoints, majorCap)

	yearDiff := absInt(a.Profile.GraduationYear - b.Profile.GraduationYear)
	score += floorZero(yearBase - yearPenalty*yearDiff)

	ageDiff := absInt(a.Profile.Age(at) - b.Profile.Age(at))
	score += floorZero(ageBase - agePenalty*ageDiff)

	score += capped(countOverlap(a.Profile.Interests, b.Profile.Interests)*interestPoints, interestCap)
	score += capped(countOverlap(a.Profile.Clubs, b.Profile.Clubs)*clubPoints, clubCap)

	return score
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func countOverlap(list1, list2 []string) int {
	seen := make(map[string]bool, len(list1))
	for _, v := range list1 {
		seen[v] = true
	}
	count := 0
	for _, v := range list2 {
		if seen[v] {
			count++
			seen[v] = false
		}
	}
	return count
}

func capped(v, cap int) int {
	if v > cap {
		return cap
	}
	return v
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
