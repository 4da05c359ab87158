package models

// DefaultStudentBioDetails returns the bio sub-document with its default
// values. Defaults are applied when a student is created (or backfilled),
// never at query time.
func DefaultStudentBioDetails() map[string]interface{} {
	return map[string]interface{}{
		"level":             "Graduate",
		"class":             "Not Provided",
		"status":            "Active",
		"studentType":       "Masters - Graduate",
		"residency":         "International",
		"campus":            "Not Provided",
		"firstTermAttended": "Fall 2021",
		"matriculatedTerm":  "Not Provided",
		"lastTermAttended":  "Fall 2022",
		"leaveOfAbsence":    "Not Provided",
	}
}

// DefaultCurriculumPrimary returns the primary curriculum sub-document with
// its default values.
func DefaultCurriculumPrimary() map[string]interface{} {
	return map[string]interface{}{
		"degree":        "Master of Science",
		"studyPath":     "Not Provided",
		"level":         "Graduate",
		"program":       "MS Computer Science",
		"college":       "Health, Science and Technology",
		"major":         "Computer Science",
		"department":    "Computer Science",
		"concentration": "Not Provided",
		"minor":         "Not Provided",
		"admitType":     "Standard",
		"admitTerm":     "Fall 2021",
		"catalogTerm":   "Fall 2021",
	}
}
