package service

import "github.com/noah-isme/rbc-sheets-api/pkg/sheets"

func sampleCourses() []sheets.Row {
	return []sheets.Row{
		{
			"Course Name": "Basic Computer Course", "Description": "Introduction to computers and basic operations",
			"Duration": "3 months", "Fee": "5000", "Instructor": "John Smith",
			"Start Date": "2024-09-01", "End Date": "2024-12-01", "Status": "active",
		},
		{
			"Course Name": "Advanced Excel", "Description": "Advanced Excel formulas and data analysis",
			"Duration": "2 months", "Fee": "3000", "Instructor": "Jane Doe",
			"Start Date": "2024-09-15", "End Date": "2024-11-15", "Status": "active",
		},
		{
			"Course Name": "Web Development", "Description": "HTML, CSS, JavaScript fundamentals",
			"Duration": "6 months", "Fee": "15000", "Instructor": "Mike Johnson",
			"Start Date": "2024-10-01", "End Date": "2025-04-01", "Status": "active",
		},
	}
}

func sampleStudents() []sheets.Row {
	return []sheets.Row{
		{
			"First Name": "Alice", "Last Name": "Johnson", "Email": "alice.johnson@example.com",
			"Phone": "9876543210", "Date of Birth": "1995-05-15", "Address": "123 Main St, City",
			"Course": "Basic Computer Course", "Enrollment Date": "2024-08-15", "Status": "active",
		},
		{
			"First Name": "Bob", "Last Name": "Smith", "Email": "bob.smith@example.com",
			"Phone": "9876543211", "Date of Birth": "1992-08-22", "Address": "456 Oak Ave, City",
			"Course": "Advanced Excel", "Enrollment Date": "2024-08-20", "Status": "active",
		},
		{
			"First Name": "Carol", "Last Name": "Davis", "Email": "carol.davis@example.com",
			"Phone": "9876543212", "Date of Birth": "1998-12-10", "Address": "789 Pine Rd, City",
			"Course": "Web Development", "Enrollment Date": "2024-08-25", "Status": "active",
		},
	}
}

func sampleNotices(today string) []sheets.Row {
	return []sheets.Row{
		{
			"Title": "Welcome to RB Computer", "Content": "Welcome to our computer training institute. We are excited to have you!",
			"Target Audience": "all", "Created Date": today, "Expiry Date": "2024-12-31", "Status": "active",
		},
	}
}
