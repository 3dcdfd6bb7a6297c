package model

// TeacherDashboard aggregates counts for a teacher's landing page.
type TeacherDashboard struct {
	Subjects            int `json:"subjects"`
	Tasks               int `json:"tasks"`
	UngradedSubmissions int `json:"ungraded_submissions"`
}

// StudentDashboard aggregates counts for a student's landing page.
type StudentDashboard struct {
	Enrollments    int `json:"enrollments"`
	AvailableTasks int `json:"available_tasks"`
	Submissions    int `json:"submissions"`
}
