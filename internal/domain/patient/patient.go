package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Patient is an immutable registration record. There is no edit flow:
// demographics are captured once, at walk-in registration or seed time.
type Patient struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`

	Name   string `json:"name" gorm:"column:name;type:varchar(200);not null"`
	Phone  string `json:"phone" gorm:"column:phone;type:varchar(20)"`
	Age    int    `json:"age" gorm:"column:age;not null"`
	Gender Gender `json:"gender" gorm:"column:gender;type:varchar(10);not null"`

	LastVisit *time.Time `json:"last_visit,omitempty" gorm:"column:last_visit"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"column:created_by;type:uuid"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

type RegisterPatientCommand struct {
	Name      string
	Phone     string
	Age       int
	Gender    Gender
	CreatedBy uuid.UUID
}

func (c *RegisterPatientCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if c.Age < 0 || c.Age > 130 {
		return ErrInvalidAge
	}
	if !c.Gender.IsValid() {
		return ErrInvalidGender
	}
	return nil
}

type ListPatientsQuery struct {
	Search string // substring match on name or phone
}
