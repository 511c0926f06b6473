package model

// Roles
const (
	RoleAdmin   = "admin"
	RoleFaculty = "faculty"
	RoleStudent = "student"
)

// ValidRole reports whether r is a known role
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleFaculty || r == RoleStudent
}

// User account. Staff log in with their email, students with their roll number.
type User struct {
	UserID             string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	LoginID            string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"login_id"`
	Name               string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email              string  `gorm:"type:varchar(255)"                              json:"email"`
	PasswordHash       string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string  `gorm:"type:varchar(20);not null;default:'faculty'"    json:"role"`
	StudentID          *string `gorm:"type:varchar(20)"                               json:"student_id,omitempty"`
	MustChangePassword bool    `gorm:"not null;default:false"                         json:"must_change_password"`
	VersionedModel
}

// TableName table name
func (User) TableName() string { return "users" }
