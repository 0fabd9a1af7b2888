package models

// Role is the closed set of account roles.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// QuestionType fixes the answer shape of every question in a family.
// TYPE_1 answers may carry top/bot/talk, TYPE_2 answers may carry talk/include.
type QuestionType string

const (
	QuestionType1 QuestionType = "TYPE_1"
	QuestionType2 QuestionType = "TYPE_2"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionType1, QuestionType2:
		return true
	}
	return false
}

// UserType is a free-form member tag; a user may carry several.
type UserType string

const (
	UserTypeEtudiant UserType = "ETUDIANT"
	UserTypeSoumis   UserType = "SOUMIS"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeEtudiant, UserTypeSoumis:
		return true
	}
	return false
}
