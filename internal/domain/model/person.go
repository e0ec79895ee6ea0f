package model

import (
	"fmt"
	"time"
)

// Person is the immutable holder of an account.
type Person struct {
	firstName string
	lastName  string
	birthDate time.Time
}

// NewPerson creates a Person.
func NewPerson(firstName, lastName string, birthDate time.Time) (Person, error) {
	if firstName == "" || lastName == "" {
		return Person{}, fmt.Errorf("first and last name are required")
	}
	if birthDate.IsZero() {
		return Person{}, fmt.Errorf("birth date is required")
	}
	return Person{firstName: firstName, lastName: lastName, birthDate: birthDate}, nil
}

// FirstName returns the person's first name.
func (p Person) FirstName() string {
	return p.firstName
}

// LastName returns the person's last name.
func (p Person) LastName() string {
	return p.lastName
}

// BirthDate returns the person's date of birth.
func (p Person) BirthDate() time.Time {
	return p.birthDate
}

// Age returns the person's age in whole years at the given instant.
func (p Person) Age(at time.Time) int {
	years := at.Year() - p.birthDate.Year()
	anniversary := p.birthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}

// FullName returns "First Last".
func (p Person) FullName() string {
	return p.firstName + " " + p.lastName
}
