package domain

import "time"

// Section is the cohort section a student belongs to.
type Section string

const (
	Section1 Section = "1"
	Section2 Section = "2"
	Section3 Section = "3"
	Section4 Section = "4"
)

// Sections lists every valid section in display order.
var Sections = []Section{Section1, Section2, Section3, Section4}

// Valid reports whether s is one of the known sections.
func (s Section) Valid() bool {
	for _, v := range Sections {
		if s == v {
			return true
		}
	}
	return false
}

// Profile is the one-time identity record a principal fills in before mutating anything.
type Profile struct {
	ID             UserID
	Email          string
	FullName       string
	Section        Section
	WhatsAppNumber string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
