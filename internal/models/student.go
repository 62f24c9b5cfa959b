package models

import "strings"

// Student is one row of the Students worksheet.
type Student struct {
	ID             string `sheet:"ID" json:"ID"`
	FirstName      string `sheet:"First Name" json:"First Name"`
	LastName       string `sheet:"Last Name" json:"Last Name"`
	Email          string `sheet:"Email" json:"Email"`
	Phone          string `sheet:"Phone" json:"Phone"`
	DateOfBirth    string `sheet:"Date of Birth" json:"Date of Birth"`
	Address        string `sheet:"Address" json:"Address"`
	Course         string `sheet:"Course" json:"Course"`
	EnrollmentDate string `sheet:"Enrollment Date" json:"Enrollment Date"`
	Status         string `sheet:"Status" json:"Status"`
	CreatedAt      string `sheet:"Created At" json:"Created At"`
	UpdatedAt      string `sheet:"Updated At" json:"Updated At"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Search string
	Status string
	Course string
	Page   int
	Limit  int
}

// StudentStats summarises the Students worksheet.
type StudentStats struct {
	SheetStats
	ByStatus map[string]int `json:"byStatus"`
	ByCourse map[string]int `json:"byCourse"`
}
