package models

// Course is one row of the Courses worksheet.
type Course struct {
	ID          string  `sheet:"ID" json:"ID"`
	CourseName  string  `sheet:"Course Name" json:"Course Name"`
	Description string  `sheet:"Description" json:"Description"`
	Duration    string  `sheet:"Duration" json:"Duration"`
	Fee         float64 `sheet:"Fee" json:"Fee"`
	Instructor  string  `sheet:"Instructor" json:"Instructor"`
	StartDate   string  `sheet:"Start Date" json:"Start Date"`
	EndDate     string  `sheet:"End Date" json:"End Date"`
	Status      string  `sheet:"Status" json:"Status"`
	CreatedAt   string  `sheet:"Created At" json:"Created At"`
	UpdatedAt   string  `sheet:"Updated At" json:"Updated At"`
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	Search     string
	Status     string
	Instructor string
	MinFee     *float64
	MaxFee     *float64
	Page       int
	Limit      int
}

// CourseOption is the compact form used by select inputs.
type CourseOption struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Fee      float64 `json:"fee"`
	Duration string  `json:"duration"`
}

// CourseStats summarises the Courses worksheet.
type CourseStats struct {
	SheetStats
	ByStatus     map[string]int `json:"byStatus"`
	ByInstructor map[string]int `json:"byInstructor"`
	AverageFee   float64        `json:"averageFee"`
}
