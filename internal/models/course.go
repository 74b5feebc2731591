package models

type Subject string

const (
	SubjectMath     Subject = "math"
	SubjectScience  Subject = "science"
	SubjectArts     Subject = "arts"
	SubjectLanguage Subject = "language"
	SubjectHistory  Subject = "history"
	SubjectBusiness Subject = "business"
	SubjectTech     Subject = "tech"
)

var Subjects = []Subject{
	SubjectMath, SubjectScience, SubjectArts, SubjectLanguage,
	SubjectHistory, SubjectBusiness, SubjectTech,
}

func (s Subject) Valid() bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}

type Course struct {
	ID      string  `json:"id"`
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Subject Subject `json:"subject"`
}

type CreateCourseRequest struct {
	Code    string `json:"code" validate:"required,max=20"`
	Name    string `json:"name" validate:"required,max=120"`
	Subject string `json:"subject" validate:"required,oneof=math science arts language history business tech"`
}

// DefaultCourses is the immutable seed catalogue. These courses are always
// listed and can never be deleted.
var DefaultCourses = []Course{
	{ID: "1", Code: "MATH101", Name: "Calculus I", Subject: SubjectMath},
	{ID: "2", Code: "CS101", Name: "Introduction to Programming", Subject: SubjectTech},
	{ID: "3", Code: "PHYS101", Name: "Physics I", Subject: SubjectScience},
	{ID: "4", Code: "CHEM101", Name: "General Chemistry", Subject: SubjectScience},
	{ID: "5", Code: "BIO101", Name: "Introduction to Biology", Subject: SubjectScience},
	{ID: "6", Code: "ENG101", Name: "English Composition", Subject: SubjectLanguage},
	{ID: "7", Code: "HIST101", Name: "World History", Subject: SubjectHistory},
	{ID: "8", Code: "ECON101", Name: "Principles of Economics", Subject: SubjectBusiness},
	{ID: "9", Code: "ART101", Name: "Art History", Subject: SubjectArts},
	{ID: "10", Code: "SPAN101", Name: "Elementary Spanish", Subject: SubjectLanguage},
}

func IsDefaultCourse(id string) bool {
	for _, c := range DefaultCourses {
		if c.ID == id {
			return true
		}
	}
	return false
}
