package models

// Company types
const (
	CompanyTypeCompany    = "company"
	CompanyTypeFreelancer = "freelancer"
)

type Company struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	CompanyType string `gorm:"size:20;default:'company'" json:"company_type"` // company, freelancer
	Description string `json:"description,omitempty"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Website     string `json:"website,omitempty"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Users []User `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Company) TableName() string {
	return "companies"
}
