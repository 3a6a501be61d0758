package cvparse

// Result is the structured form of a parsed CV
type Result struct {
	Employee                    Employee         `json:"employee"`
	TechnicalSkills             []TechnicalSkill `json:"technical_skills" jsonschema:"description=Skills whose name exactly matches the standardised technical skill list"`
	SoftSkills                  []SoftSkill      `json:"soft_skills" jsonschema:"description=Skills whose name exactly matches the standardised soft skill list"`
	UnrecognizedTechnicalSkills []TechnicalSkill `json:"unrecognized_technical_skills" jsonschema:"description=Technical skills found in the CV that are not in the standardised list"`
	UnrecognizedSoftSkills      []SoftSkill      `json:"unrecognized_soft_skills" jsonschema:"description=Soft skills found in the CV that are not in the standardised list"`
}

// Employee holds the personal and career details of a CV
type Employee struct {
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	Phone             string      `json:"phone"`
	PersonalEmail     string      `json:"personal_email"`
	Position          string      `json:"position" jsonschema:"description=Most recent or primary role"`
	EnglishLevel      string      `json:"english_level"`
	WorkingExperience float64     `json:"working_experience" jsonschema:"description=Total years of professional experience"`
	Education         []Education `json:"education"`
}

// Education is one degree or course of study
type Education struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	StartYear    string `json:"start_year" jsonschema:"description=Four digit year"`
	EndYear      string `json:"end_year" jsonschema:"description=Four digit year"`
	FieldOfStudy string `json:"field_of_study"`
}

// TechnicalSkill is a technical skill with its estimated experience
type TechnicalSkill struct {
	SkillName         string  `json:"skill_name"`
	YearsOfExperience float64 `json:"years_of_experience"`
	SeniorityLevel    string  `json:"seniority_level" jsonschema:"enum=Junior,enum=Middle,enum=Senior"`
}

// SoftSkill is a named soft skill
type SoftSkill struct {
	SkillName string `json:"skill_name"`
}
