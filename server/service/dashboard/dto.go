package dashboard

import "github.com/learnloop/learnloop/server/service/modules"

// CourseStats is the per-course enrollment statistics shape. Its zero value
// is the documented degraded default when enriching one course fails.
type CourseStats struct {
	TotalStudents   int     `json:"totalStudents"`
	CompletedCount  int     `json:"completedCount"`
	CompletionRate  float64 `json:"completionRate"`
	AverageProgress float64 `json:"averageProgress"`
}

// CourseSummary is one course row on the instructor dashboard.
type CourseSummary struct {
	UID        string      `json:"uid"`
	Title      string      `json:"title"`
	Category   string      `json:"category"`
	PriceCents int64       `json:"priceCents"`
	Published  bool        `json:"published"`
	Stats      CourseStats `json:"stats"`
}

// CoursePerformance is one course's statistics entry in the performance
// table shared by the instructor and admin dashboards.
type CoursePerformance struct {
	CourseUID string      `json:"courseUid"`
	Title     string      `json:"title"`
	Stats     CourseStats `json:"stats"`
}

// ActivityItem is one rendered feed event.
type ActivityItem struct {
	UID     string `json:"uid"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	When    string `json:"when"`
}

// InstructorStats is the headline number block of the instructor dashboard.
type InstructorStats struct {
	TotalCourses      int   `json:"totalCourses"`
	PublishedCourses  int   `json:"publishedCourses"`
	TotalStudents     int   `json:"totalStudents"`
	TotalRevenueCents int64 `json:"totalRevenueCents"`
}

// InstructorDTO is the instructor dashboard payload. The top-level field
// names are an external contract consumed by the frontend; they must not
// change.
type InstructorDTO struct {
	Stats             InstructorStats        `json:"stats"`
	RevenueTrends     []modules.RevenuePoint `json:"revenueTrends"`
	RecentActivity    []ActivityItem         `json:"recentActivity"`
	CoursePerformance []CoursePerformance    `json:"coursePerformance"`
	Courses           []CourseSummary        `json:"courses"`
}

// StudentStats is the headline number block of the student dashboard.
type StudentStats struct {
	EnrolledCourses  int     `json:"enrolledCourses"`
	CompletedCourses int     `json:"completedCourses"`
	AverageProgress  float64 `json:"averageProgress"`
}

// EnrolledCourse is one course row on the student dashboard.
type EnrolledCourse struct {
	UID       string  `json:"uid"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
}

// StudentDTO is the student dashboard payload.
type StudentDTO struct {
	Stats          StudentStats     `json:"stats"`
	Courses        []EnrolledCourse `json:"courses"`
	RecentActivity []ActivityItem   `json:"recentActivity"`
}

// AdminStats is the headline number block of the admin dashboard.
type AdminStats struct {
	TotalUsers        int   `json:"totalUsers"`
	TotalStudents     int   `json:"totalStudents"`
	TotalInstructors  int   `json:"totalInstructors"`
	TotalCourses      int   `json:"totalCourses"`
	TotalEnrollments  int   `json:"totalEnrollments"`
	TotalRevenueCents int64 `json:"totalRevenueCents"`
}

// AdminDTO is the admin dashboard payload.
type AdminDTO struct {
	Stats             AdminStats             `json:"stats"`
	RevenueTrends     []modules.RevenuePoint `json:"revenueTrends"`
	RecentActivity    []ActivityItem         `json:"recentActivity"`
	CoursePerformance []CoursePerformance    `json:"coursePerformance"`
}

// StudentProgressRow is one student's standing inside a single course, used
// by the course performance detail view.
type StudentProgressRow struct {
	StudentUID string  `json:"studentUid"`
	Nickname   string  `json:"nickname"`
	Progress   float64 `json:"progress"`
	Completed  bool    `json:"completed"`
}

// PerformanceDetailDTO is one course's performance entry enriched with
// per-student progress rows.
type PerformanceDetailDTO struct {
	Course   CoursePerformance    `json:"course"`
	Students []StudentProgressRow `json:"students"`
}
