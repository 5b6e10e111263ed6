package domain

import "time"

// Discipline classifies a course.
type Discipline string

const (
	DisciplineElectronics Discipline = "Electronics"
	DisciplineCoding      Discipline = "Coding"
	DisciplineMechanical  Discipline = "Mechanical"
	DisciplineRobotics    Discipline = "Robotics"
	DisciplineOther       Discipline = "Other"
)

// MaterialStatus tracks textbook and workbook progress.
type MaterialStatus string

const (
	MaterialNotStarted MaterialStatus = "Not Started"
	MaterialInProgress MaterialStatus = "In Progress"
	MaterialReview     MaterialStatus = "Review"
	MaterialCompleted  MaterialStatus = "Completed"
)

// DefaultRequirement fills prerequisites and system requirements when omitted.
const DefaultRequirement = "None"

// Course is a catalog entry.
type Course struct {
	ID                 string         `json:"id"`
	Grade              int            `json:"grade"`
	Discipline         Discipline     `json:"discipline"`
	CourseName         string         `json:"courseName"`
	TextbookStatus     MaterialStatus `json:"textbookStatus"`
	WorkbookStatus     MaterialStatus `json:"workbookStatus"`
	Prerequisites      string         `json:"prerequisites"`
	SystemRequirements string         `json:"systemRequirements"`
	LastUpdated        time.Time      `json:"lastUpdated"`
	UpdatedBy          string         `json:"updatedBy,omitempty"`
}

// CourseFilter narrows course listings. Zero values match everything.
type CourseFilter struct {
	Grade          int
	Discipline     Discipline
	TextbookStatus MaterialStatus
	WorkbookStatus MaterialStatus
}

// Valid reports whether d is a known discipline.
func (d Discipline) Valid() bool {
	switch d {
	case DisciplineElectronics, DisciplineCoding, DisciplineMechanical, DisciplineRobotics, DisciplineOther:
		return true
	}
	return false
}

// Valid reports whether s is a known material status.
func (s MaterialStatus) Valid() bool {
	switch s {
	case MaterialNotStarted, MaterialInProgress, MaterialReview, MaterialCompleted:
		return true
	}
	return false
}
