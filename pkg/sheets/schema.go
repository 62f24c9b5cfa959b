package sheets

import (
	"strings"

	"github.com/noah-isme/rbc-sheets-api/pkg/config"
)

// Header layouts for every worksheet. Column order is significant.
var (
	StudentHeaders = []string{
		"ID", "First Name", "Last Name", "Email", "Phone", "Date of Birth",
		"Address", "Course", "Enrollment Date", "Status", "Created At", "Updated At",
	}
	CourseHeaders = []string{
		"ID", "Course Name", "Description", "Duration", "Fee", "Instructor",
		"Start Date", "End Date", "Status", "Created At", "Updated At",
	}
	FeeHeaders = []string{
		"ID", "Student ID", "Course ID", "Amount", "Due Date", "Paid Date",
		"Payment Method", "Status", "Created At", "Updated At",
	}
	AttendanceHeaders = []string{
		"ID", "Student ID", "Course ID", "Date", "Status", "Remarks", "Created At", "Updated At",
	}
	NoticeHeaders = []string{
		"ID", "Title", "Content", "Target Audience", "Created Date", "Expiry Date",
		"Status", "Created At", "Updated At",
	}
	CertificateHeaders = []string{
		"ID", "Student ID", "Course ID", "Certificate Type", "Issue Date",
		"Certificate Number", "Status", "Created At", "Updated At",
	}
	AdminHeaders = []string{
		"ID", "Name", "Email", "Password", "Role", "Created Date", "Last Login",
		"Status", "Created At", "Updated At",
	}
)

// Schema maps worksheet titles to their header rows. Lookups ignore case.
type Schema struct {
	titles  []string
	headers map[string][]string
}

// NewSchema builds an empty schema.
func NewSchema() *Schema {
	return &Schema{headers: make(map[string][]string)}
}

// DefaultSchema binds the standard header layouts to the configured worksheet titles.
func DefaultSchema(names config.WorksheetNames) *Schema {
	s := NewSchema()
	s.Register(names.Students, StudentHeaders)
	s.Register(names.Courses, CourseHeaders)
	s.Register(names.Fees, FeeHeaders)
	s.Register(names.Attendance, AttendanceHeaders)
	s.Register(names.Notices, NoticeHeaders)
	s.Register(names.Certificates, CertificateHeaders)
	s.Register(names.Admins, AdminHeaders)
	return s
}

// Register adds or replaces the headers for title.
func (s *Schema) Register(title string, headers []string) {
	key := strings.ToLower(title)
	if _, exists := s.headers[key]; !exists {
		s.titles = append(s.titles, title)
	}
	s.headers[key] = append([]string(nil), headers...)
}

// Headers returns the header row for title.
func (s *Schema) Headers(title string) ([]string, bool) {
	h, ok := s.headers[strings.ToLower(title)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), h...), true
}

// Titles lists registered worksheets in registration order.
func (s *Schema) Titles() []string {
	return append([]string(nil), s.titles...)
}
