package api

type Batch struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type Course struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	BatchID     *int64 `json:"batch_id,omitempty"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type Chapter struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Position    int    `json:"position"`
}

type Division struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DivisionID  *int64 `json:"division_id,omitempty"`
	Description string `json:"description,omitempty"`
}

type Faq struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
	Position int    `json:"position"`
	Status   string `json:"status,omitempty"`
}

type Student struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	RollNumber string `json:"roll_number,omitempty"`
	BatchID    *int64 `json:"batch_id,omitempty"`
	DivisionID *int64 `json:"division_id,omitempty"`
	GroupID    *int64 `json:"group_id,omitempty"`
	Status     string `json:"status,omitempty"`
}

// PermissionSet is the payload of GET /my-permissions.
type PermissionSet struct {
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

func (p PermissionSet) Has(permission string) bool {
	for _, candidate := range p.Permissions {
		if candidate == permission {
			return true
		}
	}
	return false
}

// Form payloads. Validation tags are checked before anything is sent.

type BatchInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	Code      string `json:"code" validate:"required,max=50"`
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type CourseInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=255"`
	Description string `json:"description,omitempty"`
	BatchID     *int64 `json:"batch_id,omitempty" validate:"omitempty,gt=0"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

type ChapterInput struct {
	CourseID    int64  `json:"course_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	Position    int    `json:"position" validate:"gte=0"`
}

type DivisionInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Code        string `json:"code,omitempty" validate:"omitempty,max=50"`
	Description string `json:"description,omitempty"`
}

type GroupInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	DivisionID  *int64 `json:"division_id,omitempty" validate:"omitempty,gt=0"`
	Description string `json:"description,omitempty"`
}

type FaqInput struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	Category string `json:"category,omitempty" validate:"omitempty,max=100"`
	Position int    `json:"position" validate:"gte=0"`
	Status   string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type StudentInput struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,max=30"`
	RollNumber string `json:"roll_number,omitempty" validate:"omitempty,max=50"`
	BatchID    *int64 `json:"batch_id,omitempty" validate:"omitempty,gt=0"`
	DivisionID *int64 `json:"division_id,omitempty" validate:"omitempty,gt=0"`
	GroupID    *int64 `json:"group_id,omitempty" validate:"omitempty,gt=0"`
}
