package validators

// Request structs enumerate exactly the mutable fields per entity. Unknown
// fields in the payload are simply never read; nothing is merged blindly
// into stored records.

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"max=120"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	FullName    string `json:"full_name" validate:"max=120"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"omitempty,min=8"`
}

type UpdateUserAdminRequest struct {
	Role   string `json:"role" validate:"omitempty,oneof=learner instructor admin"`
	Status string `json:"status" validate:"omitempty,oneof=active suspended"`
}

type ProgramRequest struct {
	Title               string   `json:"title" validate:"required,min=3"`
	Description         string   `json:"description"`
	LearningObjectives  []string `json:"learning_objectives"`
	ExpiryDuration      int      `json:"expiry_duration" validate:"gte=0"`
	RenewalRequirements string   `json:"renewal_requirements"`
}

type ModuleRequest struct {
	ProgramID   uint   `json:"program_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	Position    int    `json:"position" validate:"gte=0"`
}

type UnitRequest struct {
	ModuleID           uint     `json:"module_id" validate:"required"`
	Title              string   `json:"title" validate:"required,min=3"`
	LearningObjectives []string `json:"learning_objectives"`
	Position           int      `json:"position" validate:"gte=0"`
}

type QuestionOptionRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionRequest struct {
	Text          string                  `json:"text" validate:"required,min=3"`
	Type          string                  `json:"type" validate:"required,oneof=multiple_choice true_false essay"`
	Points        int                     `json:"points" validate:"required,gt=0"`
	CorrectAnswer string                  `json:"correct_answer"`
	Explanation   string                  `json:"explanation"`
	Options       []QuestionOptionRequest `json:"options" validate:"dive"`
}

// CheckInvariants enforces the per-type answer-key rules that struct tags
// cannot express.
func (r *QuestionRequest) CheckInvariants() map[string]string {
	errs := make(map[string]string)
	switch r.Type {
	case "multiple_choice":
		if len(r.Options) < 2 {
			errs["options"] = "Multiple choice questions need at least two options"
			break
		}
		hasCorrect := false
		for _, opt := range r.Options {
			if opt.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			errs["options"] = "At least one option must be marked correct"
		}
	case "true_false":
		if r.CorrectAnswer == "" {
			errs["correct_answer"] = "True/false questions need a correct answer"
		}
	case "essay":
		// No automatic answer key.
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type AssessmentRequest struct {
	Title              string  `json:"title" validate:"required,min=3"`
	ProgramID          *uint   `json:"program_id"`
	ModuleID           *uint   `json:"module_id"`
	UnitID             *uint   `json:"unit_id"`
	QuestionIDs        []uint  `json:"question_ids"`
	PassMark           float64 `json:"pass_mark" validate:"gte=0,lte=100"`
	MaxAttempts        int     `json:"max_attempts" validate:"gte=0"`
	TimeLimit          *int    `json:"time_limit" validate:"omitempty,gt=0"`
	RandomizeQuestions bool    `json:"randomize_questions"`
}

type EnrollmentRequest struct {
	UserID    uint `json:"user_id" validate:"required"`
	ProgramID uint `json:"program_id" validate:"required"`
}

type ManualCertificateRequest struct {
	UserID    uint `json:"user_id" validate:"required"`
	ProgramID uint `json:"program_id" validate:"required"`
}
